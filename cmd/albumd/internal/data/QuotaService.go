package data

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/rfberaldo/sqlz"
)

const (
	DefaultQuotaMaxBytes int64 = 500 * 1024 * 1024
)

type QuotaServicer interface {
	AddUsage(userID string, bytesAdded int64) error
	CanAdd(userID string, size int64) (bool, error)
	GetQuota(userID string) (models.QuotaRecord, error)
}

type QuotaServiceConfig struct {
	DB       *sqlz.DB
	MaxBytes int64
}

type QuotaService struct {
	db       *sqlz.DB
	maxBytes int64
}

func NewQuotaService(config QuotaServiceConfig) QuotaService {
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultQuotaMaxBytes
	}

	return QuotaService{
		db:       config.DB,
		maxBytes: config.MaxBytes,
	}
}

func (s QuotaService) AddUsage(userID string, bytesAdded int64) error {
	var (
		err error
	)

	if err = s.ensure(userID); err != nil {
		return err
	}

	sql := `
UPDATE quotas SET
   total_storage_bytes = total_storage_bytes + ?
   , updated_at = ?
WHERE user_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, bytesAdded, now(), userID); err != nil {
		return fmt.Errorf("error adding %d bytes of usage for user %s: %w", bytesAdded, userID, err)
	}

	return nil
}

/*
CanAdd reports whether size more bytes fit under the user's cap.
*/
func (s QuotaService) CanAdd(userID string, size int64) (bool, error) {
	quota, err := s.GetQuota(userID)

	if err != nil {
		return false, err
	}

	return quota.TotalStorageBytes+size <= s.maxBytes, nil
}

func (s QuotaService) GetQuota(userID string) (models.QuotaRecord, error) {
	var (
		err error
	)

	result := models.QuotaRecord{}

	if err = s.ensure(userID); err != nil {
		return result, err
	}

	sql := `
SELECT
   q.user_id
   , q.total_storage_bytes
   , (SELECT COUNT(*) FROM albums AS a WHERE a.user_id=q.user_id) AS album_count
FROM quotas AS q
WHERE q.user_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, userID); err != nil {
		return result, fmt.Errorf("error querying for quota of user %s: %w", userID, err)
	}

	return result, nil
}

func (s QuotaService) ensure(userID string) error {
	var (
		err error
	)

	timestamp := now()

	sql := `
INSERT OR IGNORE INTO quotas (
   user_id
   , total_storage_bytes
   , created_at
   , updated_at
) VALUES (?, 0, ?, ?)
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, userID, timestamp, timestamp); err != nil {
		return fmt.Errorf("error creating quota for user %s: %w", userID, err)
	}

	return nil
}
