//go:build wireinject
// +build wireinject

package di

import (
	"CryptoLevels/pkg/config"
	"CryptoLevels/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvidePostgresClient,
		ProvideRedisCache,
		ProvideLayeredCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Exchange access
		ProvideDeltaClient,
		ProvideCandleSource,
		ProvideMarkPriceSource,
		ProvideMarkStream,

		// Repositories
		ProvideZoneStore,
		ProvideWatchStore,
		ProvideAlertPublisher,

		// Use cases
		ProvideZonesUseCase,
		ProvideWatchUseCase,
		ProvideAlertMonitor,
		ProvideKafkaAlertsHandler,
		ProvideJobQueue,
		ProvideScheduler,

		// HTTP and application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
