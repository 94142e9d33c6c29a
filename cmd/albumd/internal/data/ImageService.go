package data

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ImageServicer interface {
	ActivateImage(userID, albumID, imageID string, sizeBytes int64) (models.ImageRecord, error)
	CreatePendingImage(image models.ImageRecord) error
	DeleteImage(userID, albumID, imageID string) error
	GetImage(userID, albumID, imageID string) (models.ImageRecord, error)
	ListImages(userID, albumID string, includePending bool) ([]models.ImageRecord, error)
	SetThumbnailKey(imageID, key string) error
}

type ImageServiceConfig struct {
	DB *sqlz.DB
}

type ImageService struct {
	db *sqlz.DB
}

func NewImageService(config ImageServiceConfig) ImageService {
	return ImageService{
		db: config.DB,
	}
}

const imageColumns = `
   i.image_id
   , i.album_id
   , i.user_id
   , i.name
   , i.description
   , i.s3_key
   , i.thumbnail_key
   , i.size_bytes
   , i.content_type
   , i.status
   , i.created_at
   , i.updated_at
`

/*
ActivateImage moves a pending image to active and records the size
that actually landed in storage. An image that is not pending is
reported as not found.
*/
func (s ImageService) ActivateImage(userID, albumID, imageID string, sizeBytes int64) (models.ImageRecord, error) {
	sql := `
UPDATE images SET
   status = ?
   , size_bytes = ?
   , updated_at = ?
WHERE 1=1
   AND user_id=?
   AND album_id=?
   AND image_id=?
   AND status=?
`

	params := []any{
		models.ImageStatusActive,
		sizeBytes,
		now(),
		userID,
		albumID,
		imageID,
		models.ImageStatusPending,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)

	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("error activating image %s, album %s: %w", imageID, albumID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ImageRecord{}, models.ErrImageNotFound
	}

	return s.GetImage(userID, albumID, imageID)
}

func (s ImageService) CreatePendingImage(image models.ImageRecord) error {
	var (
		err error
	)

	timestamp := now()

	sql := `
INSERT INTO images (
   image_id
   , album_id
   , user_id
   , name
   , description
   , s3_key
   , size_bytes
   , content_type
   , status
   , created_at
   , updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		image.ImageID,
		image.AlbumID,
		image.UserID,
		image.Name,
		image.Description,
		image.S3Key,
		image.SizeBytes,
		image.ContentType,
		models.ImageStatusPending,
		timestamp,
		timestamp,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error inserting pending image %s, album %s: %w", image.ImageID, image.AlbumID, err)
	}

	return nil
}

func (s ImageService) DeleteImage(userID, albumID, imageID string) error {
	var (
		err error
	)

	sql := `
DELETE FROM images
WHERE 1=1
   AND user_id=?
   AND album_id=?
   AND image_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, userID, albumID, imageID); err != nil {
		return fmt.Errorf("error deleting image %s, album %s: %w", imageID, albumID, err)
	}

	return nil
}

func (s ImageService) GetImage(userID, albumID, imageID string) (models.ImageRecord, error) {
	var (
		err error
	)

	result := models.ImageRecord{}

	sql := `
SELECT` + imageColumns + `
FROM images AS i
WHERE 1=1
   AND i.user_id=?
   AND i.album_id=?
   AND i.image_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, userID, albumID, imageID); err != nil {
		if sqlz.IsNotFound(err) {
			return result, models.ErrImageNotFound
		}

		return result, fmt.Errorf("error querying for image %s, album %s: %w", imageID, albumID, err)
	}

	return result, nil
}

func (s ImageService) ListImages(userID, albumID string, includePending bool) ([]models.ImageRecord, error) {
	var (
		err error
	)

	result := []models.ImageRecord{}

	sql := `
SELECT` + imageColumns + `
FROM images AS i
WHERE 1=1
   AND i.user_id=?
   AND i.album_id=?
   AND (? OR i.status=?)
ORDER BY i.created_at, i.rowid
`

	params := []any{
		userID,
		albumID,
		includePending,
		models.ImageStatusActive,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, params...); err != nil {
		return result, fmt.Errorf("error querying for images in album %s, user %s: %w", albumID, userID, err)
	}

	return result, nil
}

func (s ImageService) SetThumbnailKey(imageID, key string) error {
	var (
		err error
	)

	sql := `
UPDATE images SET
   thumbnail_key = ?
   , updated_at = ?
WHERE image_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, key, now(), imageID); err != nil {
		return fmt.Errorf("error setting thumbnail for image %s: %w", imageID, err)
	}

	return nil
}
