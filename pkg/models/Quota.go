package models

import "errors"

var (
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// StorageQuota is the display shape of a user's storage, in megabytes.
type StorageQuota struct {
	UsedStorage  int
	TotalStorage int
	AlbumCount   int
}

type QuotaRecord struct {
	UserID            string `json:"user_id" db:"user_id"`
	TotalStorageBytes int64  `json:"total_storage_bytes" db:"total_storage_bytes"`
	AlbumCount        int    `json:"album_count" db:"album_count"`
}
