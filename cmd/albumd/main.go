package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/albums"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/configuration"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/data"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/images"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/objectstore"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/quota"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/routes"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/thumbnails"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "albumd"

	config configuration.Config

	/* Services */
	albumService     data.AlbumServicer
	db               *sqlz.DB
	imageService     data.ImageServicer
	objectStore      objectstore.ObjectStorer
	quotaService     data.QuotaServicer
	thumbnailCreator *thumbnails.ThumbnailCreatorService

	/* Controllers */
	albumController albums.AlbumController
	imageController images.ImageController
	quotaController quota.QuotaController
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
		slog.String("awsBucket", config.AwsBucket),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	if db, err = data.Connect(config.DSN); err != nil {
		panic(err)
	}

	if err = data.Migrate(db); err != nil {
		panic(err)
	}

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	objectStore = objectstore.NewObjectStore(objectstore.ObjectStoreConfig{
		AwsConfig: awsConfig,
		Bucket:    config.AwsBucket,
		Region:    config.AwsRegion,
		S3Client:  s3Client,
	})

	if err = objectStore.EnsureBucket(); err != nil {
		slog.Error("error ensuring bucket exists. aborting", "bucket", config.AwsBucket, "error", err)
		panic(err)
	}

	albumService = data.NewAlbumService(data.AlbumServiceConfig{
		DB: db,
	})

	imageService = data.NewImageService(data.ImageServiceConfig{
		DB: db,
	})

	quotaService = data.NewQuotaService(data.QuotaServiceConfig{
		DB:       db,
		MaxBytes: int64(config.QuotaMaxBytes),
	})

	thumbnailCreator = thumbnails.NewThumbnailCreatorService(thumbnails.ThumbnailCreatorConfig{
		ImageService:        imageService,
		MaxThumbnailWorkers: config.MaxThumbnailWorkers,
		ObjectStore:         objectStore,
		ShutdownCtx:         shutdownCtx,
	})

	presignExpiration := time.Duration(config.PresignExpirationMinutes) * time.Minute

	/*
	 * Setup controllers
	 */
	albumController = albums.NewAlbumController(albums.AlbumControllerConfig{
		AlbumService:      albumService,
		ImageService:      imageService,
		ObjectStore:       objectStore,
		PresignExpiration: presignExpiration,
	})

	imageController = images.NewImageController(images.ImageControllerConfig{
		AlbumService:      albumService,
		ImageService:      imageService,
		MaxUploadBytes:    int64(config.MaxUploadBytes),
		ObjectStore:       objectStore,
		PresignExpiration: presignExpiration,
		QuotaService:      quotaService,
		ThumbnailCreator:  thumbnailCreator,
	})

	quotaController = quota.NewQuotaController(quota.QuotaControllerConfig{
		QuotaService: quotaService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routerConfig := mux.RouterConfig{
		Address:          config.Host,
		Debug:            Version == "development",
		HttpWriteTimeout: 60,
	}

	m := mux.SetupRouter(routerConfig, routes.Routes(routes.Controllers{
		Albums: albumController,
		Images: imageController,
		Quota:  quotaController,
	}))

	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	mux.Shutdown(httpServer)
	thumbnailCreator.Stop()
	cancel()

	slog.Info("server stopped")
}
