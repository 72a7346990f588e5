package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"FxSignals/internal/domain/models"
	"FxSignals/internal/domain/repository"
	domsvc "FxSignals/internal/domain/service"
	"FxSignals/internal/handler/api"
	mid "FxSignals/internal/middleware"
	"FxSignals/internal/provider"
	internalrepo "FxSignals/internal/repository"
	"FxSignals/internal/service/breaker"
	svcmetrics "FxSignals/internal/service/metrics"
	"FxSignals/internal/service/ratelimit"
	"FxSignals/internal/services/analytics"
	"FxSignals/internal/services/pricing"
	"FxSignals/internal/usecase"
	"FxSignals/pkg/cache"
	"FxSignals/pkg/config"
	xhttp "FxSignals/pkg/http"
	pkgkafka "FxSignals/pkg/kafka"
	applogger "FxSignals/pkg/logger"
	"FxSignals/pkg/metrics"
	"FxSignals/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Logging.Pretty {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: format,
		Output: "stdout",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideCache creates the cache backend selected by config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Strategy {
	case "memory":
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		), nil
	case "redis":
		return provideRedisCache(cfg)
	case "layered":
		rc, err := provideRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MaxEntries),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache strategy %q", cfg.Cache.Strategy)
	}
}

func provideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("cache redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("cache redis port: %w", err)
	}
	return cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.KeyPrefix),
	)
}

// ProvideLimiter creates the per-provider call limiter.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	budgets := make(map[string]ratelimit.Budget, len(cfg.Providers))
	for _, p := range cfg.Providers {
		budgets[p.Name] = ratelimit.Budget{
			CallsPerDay:    p.CallsPerDay,
			CallsPerMinute: p.CallsPerMin,
		}
	}
	return ratelimit.New(budgets)
}

// ProvideBreakers creates the circuit breaker registry.
func ProvideBreakers(cfg *config.Config, m repository.Metrics) *breaker.Registry {
	return breaker.NewRegistry(breaker.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		RecoveryTimeout:  cfg.Breaker.RecoveryTimeout,
		MaxCooldown:      cfg.Breaker.MaxCooldown,
	}, func(provider string, state breaker.State) {
		m.RecordBreakerState(provider, string(state))
	})
}

// ProvideQuoteBook creates the latest-quote store fed by the stream.
func ProvideQuoteBook() *provider.QuoteBook {
	return provider.NewQuoteBook(30 * time.Second)
}

// ProvideRegistry builds all configured provider adapters.
func ProvideRegistry(cfg *config.Config, book *provider.QuoteBook) (*provider.Registry, error) {
	return provider.Build(cfg, book)
}

// ProvideValidator creates the multi-source price validator.
func ProvideValidator(cfg *config.Config) *pricing.Validator {
	return pricing.NewValidator(cfg.Validation.MinSources, cfg.Validation.MaxVariance)
}

// ProvideMarketData creates the chained market data use case.
func ProvideMarketData(
	cfg *config.Config,
	registry *provider.Registry,
	limiter *ratelimit.Limiter,
	breakers *breaker.Registry,
	cacheSvc cache.Service,
	validator *pricing.Validator,
	log *applogger.Logger,
) *usecase.MarketData {
	return usecase.NewMarketData(cfg, registry, limiter, breakers, cacheSvc, validator, log)
}

// Factor analyzers.
func ProvideTechnicalAnalyzer() domsvc.TechnicalAnalyzer       { return analytics.NewTechnical() }
func ProvidePatternAnalyzer() domsvc.PatternAnalyzer           { return analytics.NewPatterns() }
func ProvideEconomicAnalyzer() domsvc.EconomicAnalyzer         { return analytics.NewEconomic() }
func ProvideSentimentAnalyzer() domsvc.SentimentAnalyzer       { return analytics.NewSentiment() }
func ProvideGeopoliticalAnalyzer() domsvc.GeopoliticalAnalyzer { return analytics.NewGeopolitical() }
func ProvideAchievementModel() domsvc.AchievementModel         { return analytics.NewStepAchievementModel() }

// ProvideKafkaProducer creates a Kafka producer when enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the signal publisher repository.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	if producer == nil {
		return internalrepo.NoopPublisher{}
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSignalGenerator creates the composite signal generator.
func ProvideSignalGenerator(
	cfg *config.Config,
	market *usecase.MarketData,
	technical domsvc.TechnicalAnalyzer,
	pattern domsvc.PatternAnalyzer,
	economic domsvc.EconomicAnalyzer,
	sentiment domsvc.SentimentAnalyzer,
	geopolitical domsvc.GeopoliticalAnalyzer,
	achievement domsvc.AchievementModel,
	cacheSvc cache.Service,
	publisher repository.SignalPublisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.SignalGenerator {
	return usecase.NewSignalGenerator(
		cfg, market,
		technical, pattern, economic, sentiment, geopolitical, achievement,
		cacheSvc, publisher, m, log,
	)
}

// ProvideBatchEngine creates the batch worker pool.
func ProvideBatchEngine(cfg *config.Config, gen *usecase.SignalGenerator, log *applogger.Logger) (*usecase.BatchEngine, error) {
	return usecase.NewBatchEngine(cfg, gen, log)
}

// ProvideStream creates the WebSocket quote stream client.
func ProvideStream(cfg *config.Config) *provider.StreamClient {
	return provider.NewStream(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
	)
}

// ProvideQuoteCollector builds the stream consumer with its pipeline.
func ProvideQuoteCollector(
	cfg *config.Config,
	stream *provider.StreamClient,
	book *provider.QuoteBook,
	m repository.Metrics,
) *usecase.QuoteCollector {
	pipe := mid.NewQuotePipeline(book, m,
		mid.WithMaxRPS(10),
		mid.WithBufferSize(512),
	)
	pairs := make([]models.Pair, 0, len(cfg.Pairs))
	for _, raw := range cfg.Pairs {
		if p, err := models.ParsePair(raw); err == nil {
			pairs = append(pairs, p)
		}
	}
	return usecase.NewQuoteCollector(stream, pairs, m, pipe)
}

// ProvideKafkaConsumer creates a Kafka consumer when a request topic is set.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.Consumer.RequestTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideSignalRequestHandler registers the batch request handler.
func ProvideSignalRequestHandler(cfg *config.Config, batch *usecase.BatchEngine, m repository.Metrics) pkgkafka.MessageHandler {
	if cfg.Kafka.Consumer.RequestTopic == "" {
		return nil
	}
	return usecase.NewSignalRequestHandler(cfg.Kafka.Consumer.RequestTopic, batch, m)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	log *applogger.Logger,
	gen *usecase.SignalGenerator,
	batch *usecase.BatchEngine,
	market *usecase.MarketData,
	collector *usecase.QuoteCollector,
) xhttp.Handler {
	return api.NewSignalsHandler(log, gen, batch, market, collector)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.QuoteCollector,
	batch *usecase.BatchEngine,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	publisher repository.SignalPublisher,
	httpHandler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      producer,
		})
	}
	return server.New(cfg, log, collector, batch, consumer, kh, publisher, httpHandler)
}
