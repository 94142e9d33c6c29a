package albums

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/apihttp"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/data"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/objectstore"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/validation"
	"github.com/adampresley/photoalbums/pkg/models"
)

const (
	maxThumbnails = 4
)

type AlbumControllerConfig struct {
	AlbumService      data.AlbumServicer
	ImageService      data.ImageServicer
	ObjectStore       objectstore.ObjectStorer
	PresignExpiration time.Duration
}

type AlbumController struct {
	albumService      data.AlbumServicer
	imageService      data.ImageServicer
	objectStore       objectstore.ObjectStorer
	presignExpiration time.Duration
}

func NewAlbumController(config AlbumControllerConfig) AlbumController {
	return AlbumController{
		albumService:      config.AlbumService,
		imageService:      config.ImageService,
		objectStore:       config.ObjectStore,
		presignExpiration: config.PresignExpiration,
	}
}

/*
GET /albums
*/
func (c AlbumController) ListAlbums(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		albums []models.AlbumRecord
		images []models.ImageRecord
	)

	userID := apihttp.GetUserIDFromContext(r)

	if albums, err = c.albumService.ListAlbums(userID); err != nil {
		slog.Error("error listing albums", "userID", userID, "error", err)
		apihttp.ServerError(w, "Failed to list albums")
		return
	}

	response := models.AlbumListResponse{
		Items: make([]models.AlbumListItem, 0, len(albums)),
	}

	for _, album := range albums {
		item := models.AlbumListItem{
			AlbumRecord:   album,
			ThumbnailURLs: []models.ThumbnailURL{},
		}

		if images, err = c.imageService.ListImages(userID, album.AlbumID, false); err != nil {
			slog.Error("error listing album images for thumbnails", "userID", userID, "albumID", album.AlbumID, "error", err)
			response.Items = append(response.Items, item)
			continue
		}

		for _, image := range images[:min(len(images), maxThumbnails)] {
			key := image.S3Key

			if image.ThumbnailKey != "" {
				key = image.ThumbnailKey
			}

			url, err := c.objectStore.PresignGet(r.Context(), key, c.presignExpiration)

			if err != nil {
				slog.Error("error presigning thumbnail", "imageID", image.ImageID, "key", key, "error", err)
				continue
			}

			item.ThumbnailURLs = append(item.ThumbnailURLs, models.ThumbnailURL{
				ImageID:     image.ImageID,
				DownloadURL: url,
				ExpiresIn:   int(c.presignExpiration.Seconds()),
			})
		}

		response.Items = append(response.Items, item)
	}

	apihttp.OK(w, response)
}

/*
POST /albums
*/
func (c AlbumController) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request models.CreateAlbumRequest
		album   models.AlbumRecord
		name    string
	)

	userID := apihttp.GetUserIDFromContext(r)

	if err = apihttp.ReadJSON(r, &request); err != nil {
		apihttp.BadRequest(w, err.Error())
		return
	}

	if name, err = validation.ValidateName(request.Name); err != nil {
		apihttp.BadRequest(w, err.Error())
		return
	}

	album, err = c.albumService.CreateAlbum(userID, name, validation.NormalizeDescription(request.Description))

	if err != nil {
		slog.Error("error creating album", "userID", userID, "name", name, "error", err)
		apihttp.ServerError(w, "Failed to create album")
		return
	}

	apihttp.Created(w, album)
}

/*
GET /albums/{albumId}
*/
func (c AlbumController) GetAlbum(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		album  models.AlbumRecord
		images []models.ImageRecord
	)

	userID := apihttp.GetUserIDFromContext(r)
	albumID := httphelpers.GetFromRequest[string](r, "albumId")

	if album, err = c.albumService.GetAlbum(userID, albumID); err != nil {
		if errors.Is(err, models.ErrAlbumNotFound) {
			apihttp.NotFound(w, "Album not found")
			return
		}

		slog.Error("error getting album", "userID", userID, "albumID", albumID, "error", err)
		apihttp.ServerError(w, "Failed to get album")
		return
	}

	if images, err = c.imageService.ListImages(userID, albumID, false); err != nil {
		slog.Error("error listing album images", "userID", userID, "albumID", albumID, "error", err)
		apihttp.ServerError(w, "Failed to get album")
		return
	}

	response := models.AlbumResponse{
		Album:  album,
		Images: make([]models.ImageWithURL, 0, len(images)),
	}

	for _, image := range images {
		url, err := c.objectStore.PresignGet(r.Context(), image.S3Key, c.presignExpiration)

		if err != nil {
			slog.Error("error presigning image download", "imageID", image.ImageID, "error", err)
			continue
		}

		response.Images = append(response.Images, models.ImageWithURL{
			ImageRecord: image,
			DownloadURL: url,
			ExpiresIn:   int(c.presignExpiration.Seconds()),
		})
	}

	apihttp.OK(w, response)
}
