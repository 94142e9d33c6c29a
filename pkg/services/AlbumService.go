package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/models"
)

type AlbumServicer interface {
	CreateAlbum(ctx context.Context, name, description string) (models.Album, error)
	GetAlbum(ctx context.Context, albumID string) (models.Album, error)
	GetAlbums(ctx context.Context) ([]models.Album, error)
}

type AlbumServiceConfig struct {
	APIClient apiclient.Requester
}

type AlbumService struct {
	apiClient apiclient.Requester
}

func NewAlbumService(config AlbumServiceConfig) AlbumService {
	return AlbumService{
		apiClient: config.APIClient,
	}
}

func (s AlbumService) CreateAlbum(ctx context.Context, name, description string) (models.Album, error) {
	var (
		err     error
		created models.AlbumRecord
	)

	options := apiclient.CallOptions{
		Method: http.MethodPost,
		Body: models.CreateAlbumRequest{
			Name:        name,
			Description: description,
		},
	}

	if err = s.apiClient.Call(ctx, "/albums", options, &created); err != nil {
		return models.Album{}, fmt.Errorf("failed to create album: %w", err)
	}

	return models.Album{
		ID:          created.AlbumID,
		Name:        created.Name,
		Description: created.Description,
		ImageCount:  0,
		Images:      []models.Image{},
	}, nil
}

func (s AlbumService) GetAlbum(ctx context.Context, albumID string) (models.Album, error) {
	var (
		err      error
		response models.AlbumResponse
	)

	if err = s.apiClient.Call(ctx, "/albums/"+url.PathEscape(albumID), apiclient.CallOptions{}, &response); err != nil {
		return models.Album{}, fmt.Errorf("failed to fetch album %s: %w", albumID, err)
	}

	result := models.Album{
		ID:          response.Album.AlbumID,
		Name:        response.Album.Name,
		Description: response.Album.Description,
		ImageCount:  response.Album.ImageCount,
		Images:      make([]models.Image, 0, len(response.Images)),
	}

	for _, image := range response.Images {
		imageURL := image.DownloadURL

		if imageURL == "" {
			imageURL = "#"
		}

		result.Images = append(result.Images, models.Image{
			ID:          image.ImageID,
			Name:        image.Name,
			Description: image.Description,
			URL:         imageURL,
			Status:      image.Status,
		})
	}

	return result, nil
}

func (s AlbumService) GetAlbums(ctx context.Context) ([]models.Album, error) {
	var (
		err      error
		response models.AlbumListResponse
	)

	if err = s.apiClient.Call(ctx, "/albums", apiclient.CallOptions{}, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch albums: %w", err)
	}

	result := make([]models.Album, 0, len(response.Items))

	for _, item := range response.Items {
		album := models.Album{
			ID:          item.AlbumID,
			Name:        item.Name,
			Description: item.Description,
			ImageCount:  item.ImageCount,
		}

		if len(item.ThumbnailURLs) > 0 {
			album.ThumbnailURL = item.ThumbnailURLs[0].DownloadURL
		}

		result = append(result, album)
	}

	return result, nil
}
