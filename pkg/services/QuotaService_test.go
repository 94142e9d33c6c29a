package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestGetStorageQuota(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    models.StorageQuota
	}{
		{
			name: "bytes are rounded to megabytes",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"total_storage_bytes": 3670016, "album_count": 4}`))
			},
			want: models.StorageQuota{UsedStorage: 4, TotalStorage: 5000, AlbumCount: 4},
		},
		{
			name: "missing counts default to zero",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
			want: models.StorageQuota{UsedStorage: 0, TotalStorage: 5000, AlbumCount: 0},
		},
		{
			name: "backend rejection falls back",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": "ServerError"}`))
			},
			want: models.StorageQuota{UsedStorage: 0, TotalStorage: 5000, AlbumCount: 0},
		},
		{
			name: "garbage body falls back",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			want: models.StorageQuota{UsedStorage: 0, TotalStorage: 5000, AlbumCount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			service := NewQuotaService(QuotaServiceConfig{
				APIClient: apiclient.NewClient(apiclient.ClientConfig{BaseURL: server.URL}),
			})

			assert.Equal(t, tt.want, service.GetStorageQuota(context.Background()))
		})
	}
}

func TestGetStorageQuota_NetworkFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	service := NewQuotaService(QuotaServiceConfig{
		APIClient: apiclient.NewClient(apiclient.ClientConfig{BaseURL: baseURL}),
	})

	got := service.GetStorageQuota(context.Background())
	assert.Equal(t, 0, got.UsedStorage)
	assert.Equal(t, 5000, got.TotalStorage)
}

func TestGetStorageQuota_FallbackIgnoresConfiguredCeiling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	for _, total := range []int{0, 1000} {
		service := NewQuotaService(QuotaServiceConfig{
			APIClient:      apiclient.NewClient(apiclient.ClientConfig{BaseURL: server.URL}),
			TotalStorageMB: total,
		})

		got := service.GetStorageQuota(context.Background())
		assert.Equal(t, models.StorageQuota{UsedStorage: 0, TotalStorage: 5000, AlbumCount: 0}, got)
	}
}

func TestGetStorageQuota_ConfiguredCeilingOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_storage_bytes": 1048576, "album_count": 2}`))
	}))
	defer server.Close()

	service := NewQuotaService(QuotaServiceConfig{
		APIClient:      apiclient.NewClient(apiclient.ClientConfig{BaseURL: server.URL}),
		TotalStorageMB: 1000,
	})

	assert.Equal(t, models.StorageQuota{UsedStorage: 1, TotalStorage: 1000, AlbumCount: 2}, service.GetStorageQuota(context.Background()))
}
