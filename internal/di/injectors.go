//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"livenotify/internal"
	"livenotify/internal/adapters"
	"livenotify/internal/controllers"
	"livenotify/internal/notifier"
	"livenotify/internal/poller"
	"livenotify/internal/providers"
	"livenotify/internal/services"
	"livenotify/internal/storage"
	"livenotify/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewRoomCache,
		providers.NewTracingProvider,

		storage.NewCompressor,
		storage.NewFileManager,
		storage.NewSubscriptionStore,

		adapters.NewRegistry,
		notifier.NewBotAPI,
		notifier.NewDeliverer,
		notifier.NewCommandBot,

		services.NewNotificationService,
		services.NewPollService,
		services.NewSubscriptionService,
		poller.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
