//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"tourvisto/internal"
	"tourvisto/internal/clients"
	"tourvisto/internal/controllers"
	"tourvisto/internal/providers"
	"tourvisto/internal/scheduler"
	"tourvisto/internal/services"
	"tourvisto/internal/storage"
	"tourvisto/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		storage.NewDocumentStore,

		clients.NewGenerationClient,
		clients.NewImageSearchClient,
		clients.NewIdentityClient,
		clients.NewAvatarClient,

		services.NewQueryCache,
		services.NewDashboardService,
		services.NewItineraryService,
		services.NewIdentityService,
		scheduler.NewScheduler,

		controllers.NewApiController,
		controllers.NewTripController,
		controllers.NewAuthController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
