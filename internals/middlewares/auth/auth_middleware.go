// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnx_backend/internals/configs"
	userModel "learnx_backend/internals/features/users/user/model"
	helper "learnx_backend/internals/helpers"
	helperAuth "learnx_backend/internals/helpers/auth"
)

// AuthMiddleware memverifikasi bearer lewat identity provider lalu mengisi Locals:
// uid, email, user_name, dan userRole (hanya kalau user sudah terdaftar).
// User yang belum terdaftar tetap lolos supaya bisa memanggil /api/users/verify.
func AuthMiddleware(db *gorm.DB, verifier helperAuth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString := helper.GetRawAccessToken(c)
		if tokenString == "" {
			return helper.RespondError(c, helper.ErrUnauthenticated.WithMessage("Missing bearer token"))
		}

		// 2) Verifikasi ke identity provider
		id, err := verifier.Verify(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, helperAuth.ErrInvalidCredential) {
				return helper.RespondError(c, helper.ErrUnauthenticated.WithMessage("Invalid or expired token"))
			}
			log.Println("[ERROR] identity verifier:", err)
			return helper.RespondError(c, helper.ErrUnauthenticated)
		}

		// 3) Bearer yang sudah sign-out ditolak walau masih valid
		revoked, err := helperAuth.IsRevoked(c.UserContext(), db, tokenString, configs.TokenRevocationKey, time.Now())
		if err != nil {
			return helper.RespondError(c, helper.StoreFailure(err))
		}
		if revoked {
			return helper.RespondError(c, helper.ErrUnauthenticated.WithMessage("Token has been revoked"))
		}

		c.Locals(helper.LocRawToken, tokenString)
		c.Locals(helper.LocTokenExp, id.ExpiresAt)
		c.Locals(helper.LocUID, id.UID)
		c.Locals(helper.LocEmail, id.Email)
		c.Locals(helper.LocUserName, id.Name)

		// 4) Role diambil dari tabel users, bukan dari token
		var u userModel.UserModel
		err = db.WithContext(c.UserContext()).
			Select("uid", "name", "role").
			Where("uid = ?", id.UID).
			First(&u).Error
		switch {
		case err == nil:
			c.Locals(helper.LocUserRole, u.Role)
			if u.Name != "" {
				c.Locals(helper.LocUserName, u.Name)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// belum provisioning
		default:
			return helper.RespondError(c, helper.StoreFailure(err))
		}

		return c.Next()
	}
}
