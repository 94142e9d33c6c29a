package data

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/google/uuid"
	"github.com/rfberaldo/sqlz"
)

type AlbumServicer interface {
	CreateAlbum(userID, name, description string) (models.AlbumRecord, error)
	GetAlbum(userID, albumID string) (models.AlbumRecord, error)
	IncrementImageCount(userID, albumID string) error
	ListAlbums(userID string) ([]models.AlbumRecord, error)
}

type AlbumServiceConfig struct {
	DB *sqlz.DB
}

type AlbumService struct {
	db *sqlz.DB
}

func NewAlbumService(config AlbumServiceConfig) AlbumService {
	return AlbumService{
		db: config.DB,
	}
}

func (s AlbumService) CreateAlbum(userID, name, description string) (models.AlbumRecord, error) {
	var (
		err error
	)

	timestamp := now()

	result := models.AlbumRecord{
		AlbumID:     uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		ImageCount:  0,
		CreatedAt:   timestamp,
		UpdatedAt:   timestamp,
	}

	sql := `
INSERT INTO albums (
   album_id
   , user_id
   , name
   , description
   , image_count
   , created_at
   , updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		result.AlbumID,
		result.UserID,
		result.Name,
		result.Description,
		result.ImageCount,
		result.CreatedAt,
		result.UpdatedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return result, fmt.Errorf("error inserting album for user %s: %w", userID, err)
	}

	return result, nil
}

func (s AlbumService) GetAlbum(userID, albumID string) (models.AlbumRecord, error) {
	var (
		err error
	)

	result := models.AlbumRecord{}

	sql := `
SELECT
   a.album_id
   , a.user_id
   , a.name
   , a.description
   , a.image_count
   , a.created_at
   , a.updated_at
FROM albums AS a
WHERE 1=1
   AND a.user_id=?
   AND a.album_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, userID, albumID); err != nil {
		if sqlz.IsNotFound(err) {
			return result, models.ErrAlbumNotFound
		}

		return result, fmt.Errorf("error querying for album %s, user %s: %w", albumID, userID, err)
	}

	return result, nil
}

func (s AlbumService) IncrementImageCount(userID, albumID string) error {
	var (
		err error
	)

	sql := `
UPDATE albums SET
   image_count = image_count + 1
   , updated_at = ?
WHERE 1=1
   AND user_id=?
   AND album_id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, now(), userID, albumID); err != nil {
		return fmt.Errorf("error incrementing image count for album %s, user %s: %w", albumID, userID, err)
	}

	return nil
}

func (s AlbumService) ListAlbums(userID string) ([]models.AlbumRecord, error) {
	var (
		err error
	)

	result := []models.AlbumRecord{}

	sql := `
SELECT
   a.album_id
   , a.user_id
   , a.name
   , a.description
   , a.image_count
   , a.created_at
   , a.updated_at
FROM albums AS a
WHERE 1=1
   AND a.user_id=?
ORDER BY a.created_at, a.rowid
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, userID); err != nil {
		return result, fmt.Errorf("error querying for albums by user %s: %w", userID, err)
	}

	return result, nil
}
