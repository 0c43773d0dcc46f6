package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RespondError mengubah error dari service/controller menjadi response JSON
// konsisten {success:false, message, error_code}.
func RespondError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= 500 {
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		}
		if len(appErr.Fields) > 0 && appErr.Code == CodeValidationFailed {
			return JsonValidationError(c, appErr.Message, appErr.Fields)
		}
		return JsonErrorCode(c, appErr.Status, appErr.Code, appErr.Message)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonErrorCode(c, fiber.StatusNotFound, CodeNotFound, ErrNotFound.Message)
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonErrorCode(c, fiber.StatusInternalServerError, CodeStoreFailure, ErrStoreFailure.Message)
}

// FiberErrorHandler dipasang di fiber.Config agar error yang lolos dari handler
// tetap keluar dengan bentuk JSON yang sama.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return RespondError(c, err)
}
