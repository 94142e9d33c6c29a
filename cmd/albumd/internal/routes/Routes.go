package routes

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/albums"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/apihttp"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/images"
	"github.com/adampresley/photoalbums/cmd/albumd/internal/quota"
)

type Controllers struct {
	Albums albums.AlbumController
	Images images.ImageController
	Quota  quota.QuotaController
}

/*
Routes is the full backend surface. Every API route runs behind the
user middleware.
*/
func Routes(controllers Controllers) []mux.Route {
	user := []mux.MiddlewareFunc{apihttp.NewUserMiddleware()}

	return []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: Heartbeat},
		{Path: "OPTIONS /", HandlerFunc: apihttp.Preflight},
		{Path: "GET /albums", HandlerFunc: controllers.Albums.ListAlbums, Middlewares: user},
		{Path: "POST /albums", HandlerFunc: controllers.Albums.CreateAlbum, Middlewares: user},
		{Path: "GET /albums/{albumId}", HandlerFunc: controllers.Albums.GetAlbum, Middlewares: user},
		{Path: "POST /albums/{albumId}/images/upload-url", HandlerFunc: controllers.Images.RequestUploadURL, Middlewares: user},
		{Path: "POST /albums/{albumId}/images/{imageId}/confirm", HandlerFunc: controllers.Images.ConfirmUpload, Middlewares: user},
		{Path: "GET /albums/{albumId}/images/{imageId}/download-url", HandlerFunc: controllers.Images.RequestDownloadURL, Middlewares: user},
		{Path: "GET /quota", HandlerFunc: controllers.Quota.GetQuota, Middlewares: user},
	}
}

func Heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}
