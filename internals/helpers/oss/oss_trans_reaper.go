package helper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const maxReapAttempts = 5

// PendingObjectDeletion: object OSS yang sudah tidak direferensikan DB
// (file diganti atau parent dihapus) dan menunggu dihapus oleh reaper.
type PendingObjectDeletion struct {
	PendingObjectDeletionID        uuid.UUID `gorm:"column:pending_object_deletion_id;type:uuid;primaryKey" json:"pending_object_deletion_id"`
	PendingObjectDeletionURL       string    `gorm:"column:pending_object_deletion_url;type:text;not null" json:"pending_object_deletion_url"`
	PendingObjectDeletionReason    string    `gorm:"column:pending_object_deletion_reason;type:varchar(80)" json:"pending_object_deletion_reason"`
	PendingObjectDeletionAttempts  int       `gorm:"column:pending_object_deletion_attempts;not null;default:0" json:"pending_object_deletion_attempts"`
	PendingObjectDeletionLastError *string   `gorm:"column:pending_object_deletion_last_error;type:text" json:"pending_object_deletion_last_error,omitempty"`
	PendingObjectDeletionCreatedAt time.Time `gorm:"column:pending_object_deletion_created_at;autoCreateTime" json:"pending_object_deletion_created_at"`
}

func (PendingObjectDeletion) TableName() string { return "pending_object_deletions" }

func (p *PendingObjectDeletion) BeforeCreate(tx *gorm.DB) error {
	if p.PendingObjectDeletionID == uuid.Nil {
		p.PendingObjectDeletionID = uuid.New()
	}
	return nil
}

// EnqueueDeletion mencatat URL untuk dihapus nanti. Dipanggil di dalam transaksi
// yang sama dengan perubahan DB supaya tidak ada object yatim kalau commit gagal.
func EnqueueDeletion(tx *gorm.DB, reason string, urls ...string) error {
	rows := make([]PendingObjectDeletion, 0, len(urls))
	seen := map[string]struct{}{}
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		rows = append(rows, PendingObjectDeletion{PendingObjectDeletionURL: u, PendingObjectDeletionReason: reason})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// EnqueueOwned sama dengan EnqueueDeletion tapi hanya untuk URL milik blob;
// link eksternal (mis. video YouTube di materi) dilewati.
func EnqueueOwned(tx *gorm.DB, blob BlobService, reason string, urls ...string) error {
	if blob == nil {
		return nil
	}
	owned := make([]string, 0, len(urls))
	for _, u := range urls {
		if blob.Owns(u) {
			owned = append(owned, u)
		}
	}
	return EnqueueDeletion(tx, reason, owned...)
}

// DiscardUpload mengantrekan file yang sudah terupload tapi gagal disimpan ke DB.
// Dipanggil di luar transaksi yang gagal; error cukup di-log.
func DiscardUpload(ctx context.Context, db *gorm.DB, blob BlobService, reason, url string) {
	if url == "" {
		return
	}
	if err := EnqueueOwned(db.WithContext(ctx), blob, reason, url); err != nil {
		log.Printf("[WARN] enqueue orphan upload %s: %v", url, err)
	}
}

// ReapPendingDeletions memproses satu batch antrean. Gagal → attempts++,
// setelah maxReapAttempts baris dibuang dengan log.
func ReapPendingDeletions(ctx context.Context, db *gorm.DB, blob BlobService, batch int) (deleted, failed int, err error) {
	if batch <= 0 {
		batch = 100
	}
	var rows []PendingObjectDeletion
	if err := db.WithContext(ctx).
		Order("pending_object_deletion_created_at ASC").
		Limit(batch).
		Find(&rows).Error; err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		derr := blob.DeleteByPublicURL(ctx, row.PendingObjectDeletionURL)
		if derr == nil {
			if err := dropPending(ctx, db, row.PendingObjectDeletionID); err != nil {
				return deleted, failed, err
			}
			deleted++
			continue
		}

		failed++
		attempts := row.PendingObjectDeletionAttempts + 1
		if attempts >= maxReapAttempts {
			log.Printf("[OSS-REAPER] giving up on %s after %d attempts: %v", row.PendingObjectDeletionURL, attempts, derr)
			if err := dropPending(ctx, db, row.PendingObjectDeletionID); err != nil {
				return deleted, failed, err
			}
			continue
		}
		if err := db.WithContext(ctx).Model(&PendingObjectDeletion{}).
			Where("pending_object_deletion_id = ?", row.PendingObjectDeletionID).
			Updates(map[string]any{
				"pending_object_deletion_attempts":   attempts,
				"pending_object_deletion_last_error": derr.Error(),
			}).Error; err != nil {
			return deleted, failed, err
		}
	}
	return deleted, failed, nil
}

func dropPending(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Delete(&PendingObjectDeletion{}, "pending_object_deletion_id = ?", id).Error
}

// ── ENTRYPOINT: panggil dari main.go
func StartObjectReaper(db *gorm.DB, blob BlobService, schedule string) (*cron.Cron, error) {
	if strings.TrimSpace(schedule) == "" {
		schedule = "*/15 * * * *"
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		deleted, failed, err := ReapPendingDeletions(ctx, db, blob, 200)
		if err != nil {
			log.Printf("[OSS-REAPER] error: %v", err)
			return
		}
		if deleted > 0 || failed > 0 {
			log.Printf("[OSS-REAPER] deleted=%d failed=%d", deleted, failed)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[OSS-REAPER] started schedule=%q", schedule)
	c.Start()
	return c, nil
}
