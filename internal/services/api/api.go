package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mavericklabs/sparks-files/env"
	"github.com/mavericklabs/sparks-files/internal/services/api/controllers"
	"github.com/mavericklabs/sparks-files/internal/services/api/middleware"
)

type API interface {
	Start() error
	Stop(ctx context.Context) error
}

const (
	PathFiles          = "/api/v1/files"
	PathCheckDuplicate = PathFiles + "/check-duplicate"
	PathUploadURL      = PathFiles + "/pre-signed"
	PathDownloadFile   = PathFiles + "/download"
	PathUsers          = "/api/v1/users"
	PathProducts       = "/api/v1/products"
)

type api struct {
	restHost   string
	httpServer *http.Server
}

func New(
	gate *middleware.Gate,
	filesController *controllers.FilesController,
	usersController *controllers.UsersController,
	productsController *controllers.ProductsController,
) (API, error) {
	restHost, err := env.Get(env.RestHost)
	if err != nil {
		return nil, err
	}

	engine := gin.Default()

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.Auth(gate)

	engine.GET(PathFiles, auth, filesController.ListFiles)
	engine.GET(PathCheckDuplicate, auth, filesController.CheckDuplicate)
	engine.POST(PathUploadURL, auth, filesController.GetUploadURL)
	engine.POST(PathFiles, auth, filesController.CommitCreate)
	engine.PUT(PathFiles, auth, filesController.CommitReplace)
	engine.DELETE(PathFiles+"/:id", auth, filesController.DeleteFile)
	engine.GET(PathDownloadFile, auth, filesController.DownloadFile)

	engine.POST(PathUsers, auth, usersController.CreateUser)
	engine.GET(PathUsers, auth, usersController.ListUsers)
	engine.GET(PathUsers+"/:id", auth, usersController.GetUser)
	engine.PATCH(PathUsers+"/:id", auth, usersController.UpdateUser)
	engine.DELETE(PathUsers+"/:id", auth, usersController.DeleteUser)

	engine.GET(PathProducts, auth, productsController.ListProducts)
	engine.GET(PathProducts+"/filters", auth, productsController.ListFilters)

	return &api{
		restHost: restHost,
		httpServer: &http.Server{
			Addr:    restHost,
			Handler: engine,
		},
	}, nil
}

func (a *api) Start() error {
	return a.httpServer.ListenAndServe()
}

func (a *api) Stop(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}
