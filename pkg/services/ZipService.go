package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adampresley/photoalbums/pkg/models"
)

type ZipServicer interface {
	DownloadAlbumZip(ctx context.Context, albumID, destPath string) (ZipResult, error)
}

type ZipServiceConfig struct {
	AlbumService AlbumServicer
	ImageService ImageServicer
}

type ZipService struct {
	albumService AlbumServicer
	imageService ImageServicer
}

type ZipResult struct {
	Path   string
	Added  []string
	Failed []string
}

func NewZipService(config ZipServiceConfig) ZipService {
	return ZipService{
		albumService: config.AlbumService,
		imageService: config.ImageService,
	}
}

/*
DownloadAlbumZip fetches every image in the album through the download
workflow and writes them into a single ZIP file at destPath. An image
that fails to download is skipped and reported in the result; the
returned error joins those failures.
*/
func (s ZipService) DownloadAlbumZip(ctx context.Context, albumID, destPath string) (ZipResult, error) {
	var (
		err   error
		album models.Album
		out   *os.File
	)

	result := ZipResult{
		Path:   destPath,
		Added:  []string{},
		Failed: []string{},
	}

	if album, err = s.albumService.GetAlbum(ctx, albumID); err != nil {
		return result, err
	}

	l := slog.With("albumID", album.ID, "zipPath", destPath)
	l.Info("starting album zip", "numImages", len(album.Images))

	if out, err = os.Create(destPath); err != nil {
		return result, fmt.Errorf("error creating zip file '%s': %w", destPath, err)
	}

	zipWriter := zip.NewWriter(out)
	used := map[string]bool{}
	errs := []error{}

	addImage := func(image models.Image) error {
		var (
			buf bytes.Buffer
		)

		/*
		 * Buffer the whole image first. A zip entry cannot be taken back once
		 * it is started, so a failed download must not leave half an entry.
		 */
		if err := s.imageService.FetchImage(ctx, album.ID, image.ID, image.Name, &buf); err != nil {
			return err
		}

		entryName := filepath.Base(image.Name)

		if used[entryName] {
			entryName = image.ID + "-" + entryName
		}

		used[entryName] = true

		dest, err := zipWriter.Create(entryName)

		if err != nil {
			return fmt.Errorf("failed to create file '%s' in zip: %w", entryName, err)
		}

		if _, err = dest.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write file '%s' to zip: %w", entryName, err)
		}

		return nil
	}

	for _, image := range album.Images {
		l.Info("adding image to zip", "image", image.Name)

		if err = addImage(image); err != nil {
			l.Error("failed to add image to zip", "error", err, "image", image.Name)
			result.Failed = append(result.Failed, image.Name)
			errs = append(errs, err)
			continue
		}

		result.Added = append(result.Added, image.Name)
	}

	if err = finishZip(zipWriter, out); err != nil {
		return result, err
	}

	l.Info("album zip completed", "added", len(result.Added), "failed", len(result.Failed))
	return result, errors.Join(errs...)
}

/*
finishZip writes the ZIP central directory and closes the underlying
file. The archive is only complete when both succeed.
*/
func finishZip(zipWriter *zip.Writer, out io.Closer) error {
	if err := zipWriter.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to close zip writer: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close zip file: %w", err)
	}

	return nil
}
