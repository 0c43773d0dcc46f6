package helper

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRevocationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "revoked.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&RevokedTokenModel{}))
	return db
}

func TestRevokeLifecycle(t *testing.T) {
	db := newRevocationDB(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ok, err := IsRevoked(ctx, db, "tok-a", "k", now)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Revoke(ctx, db, "tok-a", "k", now.Add(time.Hour)))
	require.NoError(t, Revoke(ctx, db, "tok-a", "k", now.Add(2*time.Hour)), "second revoke updates expiry")
	require.NoError(t, Revoke(ctx, db, "tok-b", "k", now.Add(-time.Minute)))

	ok, err = IsRevoked(ctx, db, "tok-a", "k", now.Add(90*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsRevoked(ctx, db, "tok-a", "other-key", now)
	require.NoError(t, err)
	assert.False(t, ok, "hash depends on key")

	ok, err = IsRevoked(ctx, db, "tok-b", "k", now)
	require.NoError(t, err)
	assert.False(t, ok, "already expired")

	n, err := PurgeExpired(ctx, db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left int64
	require.NoError(t, db.Model(&RevokedTokenModel{}).Count(&left).Error)
	assert.Equal(t, int64(1), left)
}
