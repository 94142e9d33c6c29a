package images

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/apihttp"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/data"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/objectstore"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/thumbnails"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/validation"
	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/google/uuid"
)

type ImageControllerConfig struct {
	AlbumService      data.AlbumServicer
	ImageService      data.ImageServicer
	MaxUploadBytes    int64
	ObjectStore       objectstore.ObjectStorer
	PresignExpiration time.Duration
	QuotaService      data.QuotaServicer
	ThumbnailCreator  thumbnails.ThumbnailCreator
}

type ImageController struct {
	albumService      data.AlbumServicer
	imageService      data.ImageServicer
	maxUploadBytes    int64
	objectStore       objectstore.ObjectStorer
	presignExpiration time.Duration
	quotaService      data.QuotaServicer
	thumbnailCreator  thumbnails.ThumbnailCreator
}

func NewImageController(config ImageControllerConfig) ImageController {
	return ImageController{
		albumService:      config.AlbumService,
		imageService:      config.ImageService,
		maxUploadBytes:    config.MaxUploadBytes,
		objectStore:       config.ObjectStore,
		presignExpiration: config.PresignExpiration,
		quotaService:      config.QuotaService,
		thumbnailCreator:  config.ThumbnailCreator,
	}
}

/*
ObjectKey is where the original bytes of an image are stored.
*/
func ObjectKey(userID, albumID, imageID, name string) string {
	return fmt.Sprintf("users/%s/albums/%s/%s/%s", userID, albumID, imageID, name)
}

/*
POST /albums/{albumId}/images/upload-url
*/
func (c ImageController) RequestUploadURL(w http.ResponseWriter, r *http.Request) {
	var (
		err       error
		request   models.UploadSlotRequest
		name      string
		canAdd    bool
		uploadURL string
	)

	userID := apihttp.GetUserIDFromContext(r)
	albumID := httphelpers.GetFromRequest[string](r, "albumId")

	if _, err = c.albumService.GetAlbum(userID, albumID); err != nil {
		if errors.Is(err, models.ErrAlbumNotFound) {
			apihttp.NotFound(w, "Album not found")
			return
		}

		slog.Error("error getting album for upload", "userID", userID, "albumID", albumID, "error", err)
		apihttp.ServerError(w, "Failed to generate upload URL")
		return
	}

	if err = apihttp.ReadJSON(r, &request); err != nil {
		apihttp.BadRequest(w, err.Error())
		return
	}

	if name, err = validation.ValidateName(request.Name); err != nil {
		apihttp.BadRequest(w, err.Error())
		return
	}

	if err = validation.ValidateContentType(request.ContentType); err != nil {
		apihttp.BadRequest(w, err.Error())
		return
	}

	if err = validation.ValidateSize(request.SizeBytes, c.maxUploadBytes); err != nil {
		apihttp.BadRequest(w, err.Error())
		return
	}

	if canAdd, err = c.quotaService.CanAdd(userID, request.SizeBytes); err != nil {
		slog.Error("error checking quota", "userID", userID, "error", err)
		apihttp.ServerError(w, "Failed to generate upload URL")
		return
	}

	if !canAdd {
		apihttp.BadRequest(w, "Quota exceeded")
		return
	}

	imageID := uuid.NewString()

	image := models.ImageRecord{
		ImageID:     imageID,
		AlbumID:     albumID,
		UserID:      userID,
		Name:        name,
		Description: validation.NormalizeDescription(request.Description),
		S3Key:       ObjectKey(userID, albumID, imageID, name),
		SizeBytes:   request.SizeBytes,
		ContentType: request.ContentType,
	}

	if err = c.imageService.CreatePendingImage(image); err != nil {
		slog.Error("error creating pending image", "userID", userID, "albumID", albumID, "error", err)
		apihttp.ServerError(w, "Failed to generate upload URL")
		return
	}

	if uploadURL, err = c.objectStore.PresignPut(r.Context(), image.S3Key, image.ContentType, c.presignExpiration); err != nil {
		slog.Error("error presigning upload", "imageID", imageID, "key", image.S3Key, "error", err)

		if err = c.imageService.DeleteImage(userID, albumID, imageID); err != nil {
			slog.Error("error removing pending image after presign failure", "imageID", imageID, "error", err)
		}

		apihttp.ServerError(w, "Failed to generate upload URL")
		return
	}

	apihttp.OK(w, models.UploadSlot{
		UploadURL: uploadURL,
		ImageID:   imageID,
		ExpiresIn: int(c.presignExpiration.Seconds()),
	})
}

/*
POST /albums/{albumId}/images/{imageId}/confirm
*/
func (c ImageController) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	var (
		err         error
		image       models.ImageRecord
		size        int64
		exists      bool
		downloadURL string
	)

	userID := apihttp.GetUserIDFromContext(r)
	albumID := httphelpers.GetFromRequest[string](r, "albumId")
	imageID := httphelpers.GetFromRequest[string](r, "imageId")

	notUploaded := func() {
		apihttp.NotFound(w, "Image supposed to be uploaded was not found")
	}

	if image, err = c.imageService.GetImage(userID, albumID, imageID); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			notUploaded()
			return
		}

		slog.Error("error getting image to confirm", "imageID", imageID, "error", err)
		apihttp.ServerError(w, "Failed to confirm upload")
		return
	}

	if image.Status != models.ImageStatusPending {
		notUploaded()
		return
	}

	if size, exists, err = c.objectStore.ObjectSize(r.Context(), image.S3Key); err != nil {
		slog.Error("error checking uploaded object", "imageID", imageID, "key", image.S3Key, "error", err)
		apihttp.ServerError(w, "Failed to confirm upload")
		return
	}

	if !exists || size <= 0 {
		notUploaded()
		return
	}

	if image, err = c.imageService.ActivateImage(userID, albumID, imageID, size); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			notUploaded()
			return
		}

		slog.Error("error activating image", "imageID", imageID, "error", err)
		apihttp.ServerError(w, "Failed to confirm upload")
		return
	}

	if err = c.albumService.IncrementImageCount(userID, albumID); err != nil {
		slog.Error("error incrementing album image count", "albumID", albumID, "error", err)
	}

	if err = c.quotaService.AddUsage(userID, size); err != nil {
		slog.Error("error adding quota usage", "userID", userID, "bytes", size, "error", err)
	}

	c.thumbnailCreator.Enqueue(image)

	if downloadURL, err = c.objectStore.PresignGet(r.Context(), image.S3Key, c.presignExpiration); err != nil {
		slog.Error("error presigning confirmed image", "imageID", imageID, "error", err)
		apihttp.ServerError(w, "Failed to confirm upload")
		return
	}

	apihttp.OK(w, models.ConfirmedImage{
		ImageRecord: image,
		URL:         downloadURL,
	})
}

/*
GET /albums/{albumId}/images/{imageId}/download-url
*/
func (c ImageController) RequestDownloadURL(w http.ResponseWriter, r *http.Request) {
	var (
		err         error
		image       models.ImageRecord
		downloadURL string
	)

	userID := apihttp.GetUserIDFromContext(r)
	albumID := httphelpers.GetFromRequest[string](r, "albumId")
	imageID := httphelpers.GetFromRequest[string](r, "imageId")

	if image, err = c.imageService.GetImage(userID, albumID, imageID); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			apihttp.NotFound(w, "Image not found")
			return
		}

		slog.Error("error getting image to download", "imageID", imageID, "error", err)
		apihttp.ServerError(w, "Failed to generate download URL")
		return
	}

	if image.Status != models.ImageStatusActive {
		apihttp.NotFound(w, "Image not found")
		return
	}

	if downloadURL, err = c.objectStore.PresignGet(r.Context(), image.S3Key, c.presignExpiration); err != nil {
		slog.Error("error presigning download", "imageID", imageID, "error", err)
		apihttp.ServerError(w, "Failed to generate download URL")
		return
	}

	apihttp.OK(w, models.DownloadSlot{
		DownloadURL: downloadURL,
		ExpiresIn:   int(c.presignExpiration.Seconds()),
	})
}
