package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bearer yang belum punya exp tetap dicabut selama ini.
const defaultRevocationTTL = 24 * time.Hour

// RevokedTokenModel: bearer yang sudah sign-out. Yang disimpan hanya HMAC-nya.
type RevokedTokenModel struct {
	RevokedTokenHash      string    `gorm:"column:revoked_token_hash;type:varchar(64);primaryKey"`
	RevokedTokenExpiresAt time.Time `gorm:"column:revoked_token_expires_at;not null;index:idx_revoked_token_expires_at"`
	RevokedTokenCreatedAt time.Time `gorm:"column:revoked_token_created_at;autoCreateTime"`
}

func (RevokedTokenModel) TableName() string { return "revoked_tokens" }

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// Revoke menyimpan HMAC(rawToken) sampai expiresAt. Dipanggil ulang → exp diperbarui.
func Revoke(ctx context.Context, db *gorm.DB, rawToken, secret string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(defaultRevocationTTL)
	}
	row := RevokedTokenModel{
		RevokedTokenHash:      hmacHex(rawToken, secret),
		RevokedTokenExpiresAt: expiresAt.UTC(),
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "revoked_token_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"revoked_token_expires_at"}),
	}).Create(&row).Error
}

// IsRevoked: ada baris untuk token ini yang belum expired?
func IsRevoked(ctx context.Context, db *gorm.DB, rawToken, secret string, now time.Time) (bool, error) {
	if strings.TrimSpace(rawToken) == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).Model(&RevokedTokenModel{}).
		Where("revoked_token_hash = ? AND revoked_token_expires_at > ?", hmacHex(rawToken, secret), now.UTC()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired menghapus baris yang token-nya sudah kadaluarsa sendiri.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("revoked_token_expires_at <= ?", now.UTC()).
		Delete(&RevokedTokenModel{})
	return res.RowsAffected, res.Error
}
