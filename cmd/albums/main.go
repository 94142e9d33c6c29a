package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adampresley/photoalbums/cmd/albums/internal/configuration"
	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/navigation"
	"github.com/adampresley/photoalbums/pkg/services"
)

var (
	Version string = "development"
	appName string = "albums"

	config configuration.Config

	/* Services */
	albumService services.AlbumServicer
	imageService services.ImageServicer
	quotaService services.QuotaServicer
	zipService   services.ZipServicer
)

func main() {
	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Debug("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("api", config.ApiBaseURL),
		slog.String("command", config.Command),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	apiClient := apiclient.NewClient(apiclient.ClientConfig{
		BaseURL: config.ApiBaseURL,
		UserID:  config.UserID,
	})

	albumService = services.NewAlbumService(services.AlbumServiceConfig{
		APIClient: apiClient,
	})

	imageService = services.NewImageService(services.ImageServiceConfig{
		APIClient:        apiClient,
		MaxUploadWorkers: config.MaxUploadWorkers,
	})

	quotaService = services.NewQuotaService(services.QuotaServiceConfig{
		APIClient:      apiClient,
		TotalStorageMB: config.TotalStorageMB,
	})

	zipService = services.NewZipService(services.ZipServiceConfig{
		AlbumService: albumService,
		ImageService: imageService,
	})

	if err := run(ctx, config.Command); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())

		if kind := apiclient.KindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "kind: %s\n", kind)
		}

		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	switch command {
	case "browse":
		return browse(ctx, config.Route)

	case "list":
		return listAlbums(ctx)

	case "album":
		return showAlbum(ctx, config.AlbumID)

	case "create":
		return createAlbum(ctx)

	case "upload":
		return uploadImages(ctx)

	case "download":
		return downloadImage(ctx)

	case "download-album":
		return downloadAlbum(ctx)

	case "quota":
		showQuota(ctx)
		return nil
	}

	return fmt.Errorf("unknown command '%s'", command)
}

/*
browse renders whatever page the route resolves to, the same way the
album pages react to a fragment change.
*/
func browse(ctx context.Context, route string) error {
	return followRoute(route, func(page navigation.Route, path string) error {
		switch page.Page {
		case navigation.PageHome:
			return listAlbums(ctx)

		case navigation.PageAlbum:
			return showAlbum(ctx, page.AlbumID)

		default:
			return fmt.Errorf("page not found: %s", path)
		}
	})
}

/*
followRoute starts a router at the root and hands it the requested
fragment, rendering from the router's change notification. A fragment
that resolves to the root never fires a change, so the root is
rendered directly.
*/
func followRoute(route string, render func(page navigation.Route, path string) error) error {
	var (
		err      error
		rendered bool
	)

	router := navigation.NewRouter("")

	unsubscribe := router.OnChange(func(path string) {
		rendered = true
		err = render(navigation.Match(path), path)
	})

	defer unsubscribe()

	router.HandleFragmentChange(route)

	if !rendered {
		path := router.CurrentPath()
		err = render(navigation.Match(path), path)
	}

	return err
}

func requireValue(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("'-%s' is required for command '%s'", name, config.Command)
	}

	return nil
}

func splitFiles(files string) []string {
	result := []string{}

	for _, f := range strings.Split(files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			result = append(result, f)
		}
	}

	return result
}

func uploadImages(ctx context.Context) error {
	var (
		err     error
		files   []services.UploadFile
		results []services.UploadResult
	)

	if err = requireValue("album", config.AlbumID); err != nil {
		return err
	}

	paths := splitFiles(config.Files)

	if len(paths) == 0 {
		return errors.New("'-files' is required for command 'upload'")
	}

	for _, path := range paths {
		file, err := services.NewUploadFileFromPath(path)

		if err != nil {
			return err
		}

		files = append(files, file)
	}

	results, err = imageService.UploadImages(ctx, config.AlbumID, files)
	printUploadResults(os.Stdout, results)

	return err
}

func downloadImage(ctx context.Context) error {
	var (
		err  error
		path string
	)

	if err = requireValue("album", config.AlbumID); err != nil {
		return err
	}

	if err = requireValue("image", config.ImageID); err != nil {
		return err
	}

	imageName := config.ImageName

	if imageName == "" {
		imageName = config.ImageID
	}

	if path, err = imageService.DownloadImage(ctx, config.AlbumID, config.ImageID, imageName, config.OutputDir); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "saved %s\n", path)
	return nil
}

func downloadAlbum(ctx context.Context) error {
	var (
		err    error
		result services.ZipResult
	)

	if err = requireValue("album", config.AlbumID); err != nil {
		return err
	}

	destPath := filepath.Join(config.OutputDir, config.AlbumID+".zip")
	result, err = zipService.DownloadAlbumZip(ctx, config.AlbumID, destPath)

	fmt.Fprintf(os.Stdout, "saved %s (%d images, %d failed)\n", result.Path, len(result.Added), len(result.Failed))
	return err
}

func listAlbums(ctx context.Context) error {
	albums, err := albumService.GetAlbums(ctx)

	if err != nil {
		return err
	}

	printAlbums(os.Stdout, albums)
	printQuota(os.Stdout, quotaService.GetStorageQuota(ctx))
	return nil
}

func showAlbum(ctx context.Context, albumID string) error {
	if err := requireValue("album", albumID); err != nil {
		return err
	}

	album, err := albumService.GetAlbum(ctx, albumID)

	if err != nil {
		return err
	}

	printAlbum(os.Stdout, album)
	return nil
}

func createAlbum(ctx context.Context) error {
	if err := requireValue("name", config.Name); err != nil {
		return err
	}

	album, err := albumService.CreateAlbum(ctx, config.Name, config.Description)

	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "created album %s (%s)\n", album.Name, album.ID)
	return nil
}

func showQuota(ctx context.Context) {
	printQuota(os.Stdout, quotaService.GetStorageQuota(ctx))
}
