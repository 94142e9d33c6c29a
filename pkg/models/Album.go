package models

import "errors"

var (
	ErrAlbumNotFound = errors.New("album not found")
)

/*
Album is the display shape of an album on the client side.
ThumbnailURL is empty when the album has no thumbnail.
*/
type Album struct {
	ID           string
	Name         string
	Description  string
	ImageCount   int
	ThumbnailURL string
	Images       []Image
}

/*
AlbumRecord is the backend representation of an album, serialized
with the backend's snake_case field names.
*/
type AlbumRecord struct {
	AlbumID     string `json:"album_id" db:"album_id"`
	UserID      string `json:"user_id" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	ImageCount  int    `json:"image_count" db:"image_count"`
	CreatedAt   string `json:"created_at" db:"created_at"`
	UpdatedAt   string `json:"updated_at" db:"updated_at"`
}

type ThumbnailURL struct {
	ImageID     string `json:"image_id"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}

type AlbumListItem struct {
	AlbumRecord
	ThumbnailURLs []ThumbnailURL `json:"thumbnail_urls"`
}

type AlbumListResponse struct {
	Items []AlbumListItem `json:"items"`
}

type AlbumResponse struct {
	Album  AlbumRecord    `json:"album"`
	Images []ImageWithURL `json:"images"`
}

type CreateAlbumRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
