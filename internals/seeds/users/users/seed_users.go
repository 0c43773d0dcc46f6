package users

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"learnx_backend/internals/constants"
	"learnx_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

type UserSeed struct {
	UID        string  `json:"uid"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Bio        *string `json:"bio"`
	RollNumber *string `json:"roll_number"`
}

// SeedUsersFromJSON memasukkan user demo; uid yang sudah ada dilewati.
func SeedUsersFromJSON(db *gorm.DB, filePath string) (inserted int, err error) {
	log.Println("[SEED] reading users:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	for _, data := range inputs {
		if data.UID == "" || !constants.IsValidRole(data.Role) {
			log.Printf("[SEED] skip user %q: uid/role invalid", data.UID)
			continue
		}
		var n int64
		if err := db.Model(&model.UserModel{}).Where("uid = ?", data.UID).Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			continue
		}

		u := model.UserModel{
			UID:        data.UID,
			Name:       data.Name,
			Role:       data.Role,
			Bio:        data.Bio,
			RollNumber: data.RollNumber,
		}
		if data.Email != "" {
			email := data.Email
			u.Email = &email
		}
		if err := db.Create(&u).Error; err != nil {
			log.Printf("[SEED] insert user %q failed: %v", data.UID, err)
			continue
		}
		inserted++
	}
	return inserted, nil
}
