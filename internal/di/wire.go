//go:build wireinject
// +build wireinject

package di

import (
	"FxSignals/pkg/config"
	"FxSignals/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient services
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Provider admission
		ProvideLimiter,
		ProvideBreakers,

		// Data sources
		ProvideQuoteBook,
		ProvideRegistry,
		ProvideStream,
		ProvideQuoteCollector,

		// Pricing
		ProvideValidator,
		ProvideMarketData,

		// Factor analyzers
		ProvideTechnicalAnalyzer,
		ProvidePatternAnalyzer,
		ProvideEconomicAnalyzer,
		ProvideSentimentAnalyzer,
		ProvideGeopoliticalAnalyzer,
		ProvideAchievementModel,

		// Messaging
		ProvideKafkaProducer,
		ProvideSignalPublisher,
		ProvideKafkaConsumer,
		ProvideSignalRequestHandler,

		// Use cases
		ProvideSignalGenerator,
		ProvideBatchEngine,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
