package models

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
)

const (
	ImageStatusPending  = "pending"
	ImageStatusActive   = "active"
	ImageStatusUploaded = "uploaded"
)

/*
Image is the display shape of an image on the client side. URL is
the resolved retrieval location, or "#" when the backend did not
provide one.
*/
type Image struct {
	ID          string
	Name        string
	Description string
	URL         string
	Status      string
}

/*
ImageRecord is the backend representation of an image. The ID is
assigned when an upload slot is requested, before any bytes exist.
*/
type ImageRecord struct {
	ImageID      string `json:"image_id" db:"image_id"`
	AlbumID      string `json:"album_id" db:"album_id"`
	UserID       string `json:"user_id" db:"user_id"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	S3Key        string `json:"s3_key" db:"s3_key"`
	ThumbnailKey string `json:"-" db:"thumbnail_key"`
	SizeBytes    int64  `json:"size_bytes" db:"size_bytes"`
	ContentType  string `json:"content_type" db:"content_type"`
	Status       string `json:"status" db:"status"`
	CreatedAt    string `json:"created_at" db:"created_at"`
	UpdatedAt    string `json:"updated_at" db:"updated_at"`
}

type ImageWithURL struct {
	ImageRecord
	DownloadURL string `json:"download_url,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

type ConfirmedImage struct {
	ImageRecord
	URL string `json:"url"`
}
