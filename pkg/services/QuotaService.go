package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/models"
)

const (
	DefaultTotalStorageMB = 5000
	bytesPerMB            = 1024 * 1024
)

type QuotaServicer interface {
	GetStorageQuota(ctx context.Context) models.StorageQuota
}

type QuotaServiceConfig struct {
	APIClient      apiclient.Requester
	TotalStorageMB int
}

type QuotaService struct {
	apiClient      apiclient.Requester
	totalStorageMB int
}

func NewQuotaService(config QuotaServiceConfig) QuotaService {
	if config.TotalStorageMB <= 0 {
		config.TotalStorageMB = DefaultTotalStorageMB
	}

	return QuotaService{
		apiClient:      config.APIClient,
		totalStorageMB: config.TotalStorageMB,
	}
}

/*
GetStorageQuota never fails. When the backend cannot be reached or
rejects the request, a fallback of zero used storage out of the default
ceiling is returned. A configured ceiling only applies to answers the
backend actually gave.
*/
func (s QuotaService) GetStorageQuota(ctx context.Context) models.StorageQuota {
	var (
		err   error
		quota models.QuotaRecord
	)

	if err = s.apiClient.Call(ctx, "/quota", apiclient.CallOptions{}, &quota); err != nil {
		slog.Error("failed to fetch storage quota. using fallback", "error", err, "kind", apiclient.KindOf(err))

		return models.StorageQuota{
			UsedStorage:  0,
			TotalStorage: DefaultTotalStorageMB,
			AlbumCount:   0,
		}
	}

	return models.StorageQuota{
		UsedStorage:  int(math.Round(float64(quota.TotalStorageBytes) / bytesPerMB)),
		TotalStorage: s.totalStorageMB,
		AlbumCount:   quota.AlbumCount,
	}
}
