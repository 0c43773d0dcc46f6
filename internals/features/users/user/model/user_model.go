package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel merepresentasikan tabel users. UID adalah subject dari identity provider.
type UserModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UID        string    `gorm:"size:128;not null;uniqueIndex:uq_users_uid" json:"uid"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      *string   `gorm:"size:255;uniqueIndex:uq_users_email" json:"email,omitempty"`
	ImageURL   *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	Role       string    `gorm:"type:varchar(20);not null;index" json:"role"`
	Bio        *string   `gorm:"type:text" json:"bio,omitempty"`
	RollNumber *string   `gorm:"size:50" json:"roll_number,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName dipakai saat hydrate (instructor, laporan absensi).
func (u *UserModel) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != nil {
		return *u.Email
	}
	return u.UID
}
