package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mavericklabs/sparks-files/deps"
	"github.com/mavericklabs/sparks-files/internal/services/api"
	"github.com/mavericklabs/sparks-files/internal/services/api/controllers"
	"github.com/mavericklabs/sparks-files/internal/services/api/middleware"
	"github.com/mavericklabs/sparks-files/internal/services/attachments"
	"github.com/mavericklabs/sparks-files/internal/services/cache"
	"github.com/mavericklabs/sparks-files/internal/services/catalog"
	"github.com/mavericklabs/sparks-files/internal/services/objectstore"
	"github.com/mavericklabs/sparks-files/internal/services/reconciler"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

func main() {
	_ = godotenv.Load()

	container := dig.New()

	container.Provide(deps.NewDB)
	container.Provide(deps.NewZapLogger)
	container.Provide(deps.NewS3Client)
	container.Provide(objectstore.NewS3)
	container.Provide(repository.New)
	container.Provide(cache.NewKeyLock)
	container.Provide(cache.NewListings)
	container.Provide(attachments.New)
	container.Provide(catalog.New)
	container.Provide(middleware.NewGate)
	container.Provide(controllers.NewFilesController)
	container.Provide(controllers.NewUsersController)
	container.Provide(controllers.NewProductsController)
	container.Provide(reconciler.New)
	container.Provide(api.New)

	var listener api.API
	err := container.Invoke(func(a api.API) {
		listener = a
	})
	if err != nil {
		log.Fatal(err)
	}

	err = container.Invoke(func(r *reconciler.Reconciler, logger *zap.SugaredLogger) error {
		c, err := reconciler.Schedule(r, logger)
		if err != nil {
			return err
		}
		c.Start()
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	if err = listener.Start(); err != nil {
		log.Fatal(err)
	}
}
