//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"bjd/internal"
	"bjd/internal/controllers"
	"bjd/internal/providers"
	"bjd/internal/services"
	"bjd/internal/storage"
	"bjd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewRecordStore,
		storage.NewBlobStore,
		storage.NewStorageManager,
		storage.NewScheduler,
		services.NewStateService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
