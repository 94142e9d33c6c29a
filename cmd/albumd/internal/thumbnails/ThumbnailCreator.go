package thumbnails

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"path"

	"github.com/adampresley/photoalbums/cmd/albumd/internal/data"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/objectstore"
	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/alitto/pond/v2"
	"github.com/nfnt/resize"
)

const (
	DefaultMaxSize uint = 400
	Quality             = 85
)

type ThumbnailCreator interface {
	Enqueue(image models.ImageRecord)
	Stop()
}

type ThumbnailCreatorConfig struct {
	ImageService        data.ImageServicer
	MaxThumbnailWorkers int
	ObjectStore         objectstore.ObjectStorer
	ShutdownCtx         context.Context
}

type ThumbnailCreatorService struct {
	imageService data.ImageServicer
	objectStore  objectstore.ObjectStorer
	pool         pond.Pool
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) *ThumbnailCreatorService {
	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	if config.MaxThumbnailWorkers <= 0 {
		config.MaxThumbnailWorkers = 1
	}

	return &ThumbnailCreatorService{
		imageService: config.ImageService,
		objectStore:  config.ObjectStore,
		pool:         pond.NewPool(config.MaxThumbnailWorkers, pond.WithContext(config.ShutdownCtx)),
	}
}

/*
ThumbnailKey is where the thumbnail for an original object lives.
*/
func ThumbnailKey(originalKey string) string {
	return path.Join("thumbnails", originalKey) + ".jpg"
}

/*
Enqueue schedules a thumbnail for a freshly confirmed image. Failures
are logged; the image stays usable without a thumbnail.
*/
func (c *ThumbnailCreatorService) Enqueue(image models.ImageRecord) {
	c.pool.Submit(func() {
		slog.Info("creating thumbnail...", "imageID", image.ImageID, "key", image.S3Key)

		if err := c.createThumbnail(image); err != nil {
			slog.Error("error creating thumbnail", "imageID", image.ImageID, "key", image.S3Key, "error", err)
		}
	})
}

/*
Stop waits for queued thumbnails to finish.
*/
func (c *ThumbnailCreatorService) Stop() {
	_ = c.pool.Stop().Wait()
}

func (c *ThumbnailCreatorService) createThumbnail(original models.ImageRecord) error {
	var (
		err  error
		body io.ReadCloser
		img  image.Image
		buf  bytes.Buffer
	)

	if body, err = c.objectStore.Get(original.S3Key); err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", original.S3Key, err)
	}

	defer body.Close()

	if img, err = resizeReader(body, DefaultMaxSize); err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	key := ThumbnailKey(original.S3Key)

	if err = c.objectStore.Put(key, buf.Bytes()); err != nil {
		return fmt.Errorf("error uploading thumbnail: %w", err)
	}

	if err = c.imageService.SetThumbnailKey(original.ImageID, key); err != nil {
		return fmt.Errorf("error recording thumbnail key: %w", err)
	}

	return nil
}

func resizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return resizeImage(img, maxSize), nil
}

/*
resizeImage scales img so its longest edge is maxSize. Images already
smaller than that are left alone.
*/
func resizeImage(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight uint

	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
