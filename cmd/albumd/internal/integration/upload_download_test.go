package integration

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/albums"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/data"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/images"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/quota"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/routes"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/thumbnails"
	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/adampresley/photoalbums/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
storageServer stands in for S3. Presigned URLs point at it, and the
backend reads what the client wrote through the same map.
*/
type storageServer struct {
	server *httptest.Server

	mu      sync.Mutex
	objects map[string][]byte
}

func newStorageServer(t *testing.T) *storageServer {
	t.Helper()

	s := &storageServer{objects: map[string][]byte{}}

	m := http.NewServeMux()

	m.HandleFunc("PUT /objects/{key...}", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = s.Put(r.PathValue("key"), b)
		w.WriteHeader(http.StatusOK)
	})

	m.HandleFunc("GET /objects/{key...}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		b, ok := s.objects[r.PathValue("key")]
		s.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write(b)
	})

	s.server = httptest.NewServer(m)
	t.Cleanup(s.server.Close)

	return s
}

func (s *storageServer) EnsureBucket() error { return nil }

func (s *storageServer) Get(key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.objects[key]
	if !ok {
		return nil, models.ErrImageNotFound
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *storageServer) ObjectSize(ctx context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.objects[key]
	return int64(len(b)), ok, nil
}

func (s *storageServer) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.server.URL + "/objects/" + key, nil
}

func (s *storageServer) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return s.server.URL + "/objects/" + key, nil
}

func (s *storageServer) Put(key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = body
	return nil
}

type harness struct {
	client     apiclient.Client
	albums     services.AlbumService
	images     services.ImageService
	quota      services.QuotaService
	storage    *storageServer
	thumbnails *thumbnails.ThumbnailCreatorService
}

func newRouter(r []mux.Route) http.Handler {
	m := http.NewServeMux()

	for _, route := range r {
		var handler http.Handler = http.HandlerFunc(route.HandlerFunc)

		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		m.Handle(route.Path, handler)
	}

	return m
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := data.Connect("file:" + filepath.Join(t.TempDir(), "albums.db") + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	require.NoError(t, data.Migrate(db))

	storage := newStorageServer(t)

	albumService := data.NewAlbumService(data.AlbumServiceConfig{DB: db})
	imageService := data.NewImageService(data.ImageServiceConfig{DB: db})
	quotaService := data.NewQuotaService(data.QuotaServiceConfig{DB: db})

	creator := thumbnails.NewThumbnailCreatorService(thumbnails.ThumbnailCreatorConfig{
		ImageService:        imageService,
		MaxThumbnailWorkers: 2,
		ObjectStore:         storage,
	})

	controllers := routes.Controllers{
		Albums: albums.NewAlbumController(albums.AlbumControllerConfig{
			AlbumService:      albumService,
			ImageService:      imageService,
			ObjectStore:       storage,
			PresignExpiration: 15 * time.Minute,
		}),
		Images: images.NewImageController(images.ImageControllerConfig{
			AlbumService:      albumService,
			ImageService:      imageService,
			MaxUploadBytes:    10 * 1024 * 1024,
			ObjectStore:       storage,
			PresignExpiration: 15 * time.Minute,
			QuotaService:      quotaService,
			ThumbnailCreator:  creator,
		}),
		Quota: quota.NewQuotaController(quota.QuotaControllerConfig{
			QuotaService: quotaService,
		}),
	}

	api := httptest.NewServer(newRouter(routes.Routes(controllers)))
	t.Cleanup(api.Close)

	client := apiclient.NewClient(apiclient.ClientConfig{
		BaseURL: api.URL,
		UserID:  "user-integration",
	})

	return &harness{
		client:     client,
		albums:     services.NewAlbumService(services.AlbumServiceConfig{APIClient: client}),
		images:     services.NewImageService(services.ImageServiceConfig{APIClient: client, MaxUploadWorkers: 2}),
		quota:      services.NewQuotaService(services.QuotaServiceConfig{APIClient: client}),
		storage:    storage,
		thumbnails: creator,
	}
}

func pngBytes(t *testing.T, width, height int, fill color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadThenDownload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	album, err := h.albums.CreateAlbum(ctx, "  Vacation  ", "beach week")
	require.NoError(t, err)
	assert.Equal(t, "Vacation", album.Name)
	assert.Equal(t, 0, album.ImageCount)

	first := pngBytes(t, 800, 600, color.RGBA{R: 255, A: 255})
	second := pngBytes(t, 300, 900, color.RGBA{B: 255, A: 255})

	results, err := h.images.UploadImages(ctx, album.ID, []services.UploadFile{
		services.NewUploadFileFromBytes("red.png", "image/png", first),
		services.NewUploadFileFromBytes("blue.png", "image/png", second),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, result := range results {
		require.NoError(t, result.Err)
		assert.NotEmpty(t, result.Image.ID)
		assert.Equal(t, models.ImageStatusUploaded, result.Image.Status)
		assert.True(t, strings.HasPrefix(result.Image.URL, h.storage.server.URL), result.Image.URL)
	}

	h.thumbnails.Stop()

	listed, err := h.albums.GetAlbums(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 2, listed[0].ImageCount)
	assert.Contains(t, listed[0].ThumbnailURL, "/objects/thumbnails/")

	fetched, err := h.albums.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Images, 2)

	var buf bytes.Buffer
	require.NoError(t, h.images.FetchImage(ctx, album.ID, results[0].Image.ID, "red.png", &buf))
	assert.Equal(t, first, buf.Bytes())

	saved, err := h.images.DownloadImage(ctx, album.ID, results[1].Image.ID, "blue.png", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "blue.png", filepath.Base(saved))

	usage := h.quota.GetStorageQuota(ctx)
	assert.Equal(t, 1, usage.AlbumCount)
	assert.Equal(t, services.DefaultTotalStorageMB, usage.TotalStorage)
}

func TestUploadRejectedByValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	album, err := h.albums.CreateAlbum(ctx, "Docs", "")
	require.NoError(t, err)

	results, err := h.images.UploadImages(ctx, album.ID, []services.UploadFile{
		services.NewUploadFileFromBytes("notes.txt", "text/plain", []byte("hello")),
	})
	require.Error(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, apiclient.KindBackend, apiclient.KindOf(results[0].Err))
	assert.ErrorContains(t, results[0].Err, "Content type must be one of")

	fetched, err := h.albums.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Images)
}

func TestConfirmWithoutUpload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	album, err := h.albums.CreateAlbum(ctx, "Empty", "")
	require.NoError(t, err)

	var slot models.UploadSlot

	err = h.client.Call(ctx, "/albums/"+album.ID+"/images/upload-url", apiclient.CallOptions{
		Method: http.MethodPost,
		Body: models.UploadSlotRequest{
			Name:        "ghost.png",
			ContentType: "image/png",
			SizeBytes:   10,
		},
	}, &slot)
	require.NoError(t, err)
	assert.Equal(t, 900, slot.ExpiresIn)

	err = h.client.Call(ctx, "/albums/"+album.ID+"/images/"+slot.ImageID+"/download-url", apiclient.CallOptions{}, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "Image not found", "pending images are not downloadable")

	err = h.client.Call(ctx, "/albums/"+album.ID+"/images/"+slot.ImageID+"/confirm", apiclient.CallOptions{Method: http.MethodPost}, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "Image supposed to be uploaded was not found")

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestAlbumsAreScopedToUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	album, err := h.albums.CreateAlbum(ctx, "Private", "")
	require.NoError(t, err)

	_, err = h.albums.GetAlbum(ctx, "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, apiclient.KindBackend, apiclient.KindOf(err))
	assert.ErrorContains(t, err, "Album not found")

	var response models.AlbumResponse

	err = h.client.Call(ctx, "/albums/"+album.ID, apiclient.CallOptions{
		Headers: map[string]string{"x-user-id": "someone-else"},
	}, &response)
	require.Error(t, err)
	assert.EqualError(t, err, "Album not found")
}
