package quota

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/photoalbums/cmd/albumd/internal/apihttp"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/data"
)

type QuotaControllerConfig struct {
	QuotaService data.QuotaServicer
}

type QuotaController struct {
	quotaService data.QuotaServicer
}

func NewQuotaController(config QuotaControllerConfig) QuotaController {
	return QuotaController{
		quotaService: config.QuotaService,
	}
}

/*
GET /quota
*/
func (c QuotaController) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID := apihttp.GetUserIDFromContext(r)
	quota, err := c.quotaService.GetQuota(userID)

	if err != nil {
		slog.Error("error getting quota", "userID", userID, "error", err)
		apihttp.ServerError(w, "Failed to get quota")
		return
	}

	apihttp.OK(w, quota)
}
