package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/alitto/pond/v2"
	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxUploadWorkers = 4
)

type ImageServicer interface {
	DownloadImage(ctx context.Context, albumID, imageID, imageName, destDir string) (string, error)
	FetchImage(ctx context.Context, albumID, imageID, imageName string, w io.Writer) error
	UploadImages(ctx context.Context, albumID string, files []UploadFile) ([]UploadResult, error)
}

/*
UploadFile is a local file queued for upload. Open is called once,
right before the bytes are sent to storage.
*/
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

/*
UploadResult is the outcome of one file in a batch. Exactly one of
Image or Err is meaningful.
*/
type UploadResult struct {
	File  string
	Image models.Image
	Err   error
}

type ImageServiceConfig struct {
	APIClient        apiclient.Requester
	MaxUploadWorkers int
}

type ImageService struct {
	apiClient        apiclient.Requester
	maxUploadWorkers int
}

func NewImageService(config ImageServiceConfig) ImageService {
	if config.MaxUploadWorkers == 0 {
		config.MaxUploadWorkers = DefaultMaxUploadWorkers
	}

	return ImageService{
		apiClient:        config.APIClient,
		maxUploadWorkers: config.MaxUploadWorkers,
	}
}

func NewUploadFileFromPath(path string) (UploadFile, error) {
	var (
		err      error
		info     os.FileInfo
		detected *mimetype.MIME
	)

	if info, err = os.Stat(path); err != nil {
		return UploadFile{}, fmt.Errorf("error reading file info for '%s': %w", path, err)
	}

	if info.IsDir() {
		return UploadFile{}, fmt.Errorf("'%s' is a directory", path)
	}

	contentType, _, _ := strings.Cut(mime.TypeByExtension(strings.ToLower(filepath.Ext(path))), ";")

	if contentType == "" {
		if detected, err = mimetype.DetectFile(path); err != nil {
			return UploadFile{}, fmt.Errorf("error detecting content type of '%s': %w", path, err)
		}

		contentType, _, _ = strings.Cut(detected.String(), ";")
	}

	return UploadFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func NewUploadFileFromBytes(name, contentType string, content []byte) UploadFile {
	return UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

/*
UploadImages uploads every file to the album concurrently. Each file
runs its own request-slot, transfer, confirm sequence and a failure in
one never stops the others. Results are in the same order as files.
The returned error joins every per-file failure and is nil when all
files were uploaded.
*/
func (s ImageService) UploadImages(ctx context.Context, albumID string, files []UploadFile) ([]UploadResult, error) {
	results := make([]UploadResult, len(files))

	if len(files) == 0 {
		return results, nil
	}

	workers := s.maxUploadWorkers

	if workers <= 0 || workers > len(files) {
		workers = len(files)
	}

	pool := pond.NewPool(workers)
	tasks := make([]pond.Task, len(files))

	for index, file := range files {
		tasks[index] = pool.Submit(func() {
			image, err := s.uploadImage(ctx, albumID, file)
			results[index] = UploadResult{File: file.Name, Image: image, Err: err}
		})
	}

	_ = pool.Stop().Wait()

	/*
	 * A task that panicked never wrote its slot. Report it as a failed
	 * upload so every file has an outcome.
	 */
	for index, task := range tasks {
		if err := task.Wait(); err != nil {
			slog.Error("upload task failed", "file", files[index].Name, "albumID", albumID, "error", err)

			results[index] = UploadResult{
				File: files[index].Name,
				Err:  &apiclient.TransferFailure{Op: "upload", Name: files[index].Name, Err: err},
			}
		}
	}

	errs := []error{}

	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	return results, errors.Join(errs...)
}

func (s ImageService) uploadImage(ctx context.Context, albumID string, file UploadFile) (models.Image, error) {
	var (
		err     error
		slot    models.UploadSlot
		body    io.ReadCloser
		confirm models.ConfirmUploadResponse
	)

	fail := func(err error) (models.Image, error) {
		slog.Error("upload failed", "file", file.Name, "albumID", albumID, "error", err)
		return models.Image{}, &apiclient.TransferFailure{Op: "upload", Name: file.Name, Err: err}
	}

	albumPath := "/albums/" + url.PathEscape(albumID)

	/*
	 * Step 1: ask the backend for a slot. This assigns the image ID.
	 */
	slotOptions := apiclient.CallOptions{
		Method: http.MethodPost,
		Body: models.UploadSlotRequest{
			Name:        file.Name,
			Description: "",
			ContentType: file.ContentType,
			SizeBytes:   file.Size,
		},
	}

	if err = s.apiClient.Call(ctx, albumPath+"/images/upload-url", slotOptions, &slot); err != nil {
		return fail(err)
	}

	slog.Debug("got upload slot", "file", file.Name, "imageID", slot.ImageID)

	/*
	 * Step 2: send the bytes straight to storage.
	 */
	if file.Open == nil {
		return fail(fmt.Errorf("no content to upload"))
	}

	if body, err = file.Open(); err != nil {
		return fail(fmt.Errorf("error opening file: %w", err))
	}

	if body == nil {
		return fail(fmt.Errorf("no content to upload"))
	}

	err = s.apiClient.PutObject(ctx, slot.UploadURL, file.ContentType, body, file.Size)
	body.Close()

	if err != nil {
		return fail(err)
	}

	/*
	 * Step 3: tell the backend the bytes have landed.
	 */
	confirmPath := fmt.Sprintf("%s/images/%s/confirm", albumPath, url.PathEscape(slot.ImageID))

	if err = s.apiClient.Call(ctx, confirmPath, apiclient.CallOptions{Method: http.MethodPost}, &confirm); err != nil {
		return fail(err)
	}

	imageURL := confirm.URL

	if imageURL == "" {
		imageURL = "#"
	}

	slog.Info("upload confirmed", "file", file.Name, "imageID", slot.ImageID)

	return models.Image{
		ID:     slot.ImageID,
		Name:   file.Name,
		URL:    imageURL,
		Status: models.ImageStatusUploaded,
	}, nil
}

/*
FetchImage requests a download slot for the image and streams its
bytes into w.
*/
func (s ImageService) FetchImage(ctx context.Context, albumID, imageID, imageName string, w io.Writer) error {
	var (
		err  error
		slot models.DownloadSlot
		body io.ReadCloser
	)

	fail := func(err error) error {
		slog.Error("download failed", "image", imageName, "imageID", imageID, "error", err)
		return &apiclient.TransferFailure{Op: "download", Name: imageName, Err: err}
	}

	slotPath := fmt.Sprintf("/albums/%s/images/%s/download-url", url.PathEscape(albumID), url.PathEscape(imageID))

	if err = s.apiClient.Call(ctx, slotPath, apiclient.CallOptions{}, &slot); err != nil {
		return fail(err)
	}

	if body, err = s.apiClient.GetObject(ctx, slot.DownloadURL); err != nil {
		return fail(err)
	}

	defer body.Close()

	if _, err = io.Copy(w, body); err != nil {
		return fail(fmt.Errorf("error reading image: %w", err))
	}

	return nil
}

/*
DownloadImage saves the image into destDir under imageName and returns
the path of the saved file. Bytes are streamed to a temporary file
that is renamed into place once complete, so a failed download leaves
nothing behind.
*/
func (s ImageService) DownloadImage(ctx context.Context, albumID, imageID, imageName, destDir string) (string, error) {
	var (
		err  error
		temp *os.File
	)

	fileName := filepath.Base(imageName)

	if fileName == "." || fileName == string(filepath.Separator) {
		fileName = imageID
	}

	if temp, err = os.CreateTemp(destDir, "."+fileName+"-*.part"); err != nil {
		return "", &apiclient.TransferFailure{Op: "download", Name: imageName, Err: err}
	}

	cleanup := func() {
		_ = temp.Close()
		_ = os.Remove(temp.Name())
	}

	if err = s.FetchImage(ctx, albumID, imageID, imageName, temp); err != nil {
		cleanup()
		return "", err
	}

	if err = temp.Close(); err != nil {
		_ = os.Remove(temp.Name())
		return "", &apiclient.TransferFailure{Op: "download", Name: imageName, Err: err}
	}

	destPath := filepath.Join(destDir, fileName)

	if err = os.Rename(temp.Name(), destPath); err != nil {
		_ = os.Remove(temp.Name())
		return "", &apiclient.TransferFailure{Op: "download", Name: imageName, Err: err}
	}

	slog.Info("image downloaded", "image", imageName, "path", destPath)
	return destPath, nil
}
