package di

import (
	"context"
	"fmt"
	"time"

	"CryptoLevels/internal/domain/repository"
	"CryptoLevels/internal/handler/api"
	mid "CryptoLevels/internal/middleware"
	internalrepo "CryptoLevels/internal/repository"
	"CryptoLevels/internal/service/delta"
	"CryptoLevels/internal/usecase"
	pkgcache "CryptoLevels/pkg/cache"
	pkgch "CryptoLevels/pkg/clickhouse"
	"CryptoLevels/pkg/config"
	xhttp "CryptoLevels/pkg/http"
	pkgkafka "CryptoLevels/pkg/kafka"
	applogger "CryptoLevels/pkg/logger"
	"CryptoLevels/pkg/metrics"
	pkgpg "CryptoLevels/pkg/postgres"
	pkgqueue "CryptoLevels/pkg/queue"
	"CryptoLevels/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePostgresClient creates a PostgreSQL client.
func ProvidePostgresClient(cfg *config.Config) (*pkgpg.Client, error) {
	client, err := pkgpg.NewClient(
		pkgpg.WithDSN(cfg.Postgres.DSN),
		pkgpg.WithMaxConnections(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns),
		pkgpg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}
	return client, nil
}

// ProvideRedisCache creates the Redis cache backend.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideLayeredCache creates the two-level zones cache.
func ProvideLayeredCache(rc *pkgcache.RedisCache, cfg *config.Config) *pkgcache.LayeredCache {
	return pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
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

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
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

// ProvideDeltaClient creates the Delta Exchange REST client.
func ProvideDeltaClient(cfg *config.Config) *delta.Client {
	return delta.New(cfg.Delta.BaseURL, cfg.Delta.Timeout, float64(cfg.Delta.RateLimitRPS))
}

// ProvideCandleSource exposes the Delta client as a candle source.
func ProvideCandleSource(c *delta.Client) repository.CandleSource {
	return c
}

// ProvideMarkPriceSource exposes the Delta client as a mark-price source.
func ProvideMarkPriceSource(c *delta.Client) repository.MarkPriceSource {
	return c
}

// ProvideMarkStream creates the Delta WebSocket mark stream.
func ProvideMarkStream(cfg *config.Config) repository.MarkStream {
	return delta.NewStream(cfg.Delta.SocketURL, cfg.Delta.ReconnectDelay, cfg.Delta.PingInterval)
}

// ProvideZoneStore creates the ClickHouse zone store and ensures its schema.
func ProvideZoneStore(ch *pkgch.Client, l *applogger.Logger) (repository.ZoneStore, error) {
	store := internalrepo.NewCHZoneStore(ch)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("zone store schema: %w", err)
	}
	return store, nil
}

// ProvideWatchStore creates the Postgres watch store and ensures its schema.
func ProvideWatchStore(pg *pkgpg.Client) (repository.WatchStore, error) {
	store := internalrepo.NewPGWatchStore(pg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("watch store schema: %w", err)
	}
	return store, nil
}

// ProvideAlertPublisher creates the Kafka alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideZonesUseCase creates the zone computation use case.
func ProvideZonesUseCase(
	source repository.CandleSource,
	store repository.ZoneStore,
	cache *pkgcache.LayeredCache,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ZonesUseCase {
	return usecase.NewZonesUseCase(source, store, cache, cfg.Cache.ZonesTTL, m, l)
}

// ProvideWatchUseCase creates the watchlist use case.
func ProvideWatchUseCase(store repository.WatchStore, marks repository.MarkPriceSource) *usecase.WatchUseCase {
	return usecase.NewWatchUseCase(store, marks)
}

// ProvideAlertMonitor creates the live mark-price alert monitor.
func ProvideAlertMonitor(
	stream repository.MarkStream,
	watch repository.WatchStore,
	pub repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AlertMonitor {
	return usecase.NewAlertMonitor(stream, watch, pub, m, l,
		mid.WithMaxRPS(cfg.Monitor.MaxRPS),
		mid.WithBufferSize(cfg.Monitor.BufferSize),
	)
}

// ProvideKafkaAlertsHandler registers the handler for the alerts topic.
func ProvideKafkaAlertsHandler(store repository.ZoneStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaAlertsHandler {
	return usecase.NewKafkaAlertsHandler(cfg.Kafka.AlertsTopic, store, m)
}

// ProvideJobQueue creates the Redis job queue with the refresh and log
// archive jobs registered.
func ProvideJobQueue(
	l *applogger.Logger,
	rc *pkgcache.RedisCache,
	zones *usecase.ZonesUseCase,
	ch *pkgch.Client,
	cfg *config.Config,
) *pkgqueue.RedisQueue {
	jobs := []pkgqueue.Job{
		usecase.NewRefreshJob(zones),
		usecase.NewLogArchiveJob(ch),
	}
	qc := &pkgqueue.QueueConfig{
		Workers:    cfg.Scheduler.Workers,
		RetryLimit: 3,
		RetryDelay: 10 * time.Second,
	}
	q := pkgqueue.NewRedisQueue(l, qc, rc.Client(), pkgqueue.ModeProducerConsumer,
		pkgqueue.WithKeyPrefix(cfg.Redis.Prefix+":queue"),
	)
	q.RegisterJobs(jobs)
	return q
}

// ProvideScheduler creates the periodic refresh scheduler.
func ProvideScheduler(
	watch repository.WatchStore,
	queue *pkgqueue.RedisQueue,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.RefreshScheduler {
	return usecase.NewRefreshScheduler(cfg.Scheduler.RefreshCron, watch, queue, m, l)
}

// ProvideHTTPHandler creates the zones API handler with health checks.
func ProvideHTTPHandler(
	l *applogger.Logger,
	zones *usecase.ZonesUseCase,
	watch *usecase.WatchUseCase,
	zoneStore repository.ZoneStore,
	watchStore repository.WatchStore,
	rc *pkgcache.RedisCache,
) xhttp.Handler {
	h := api.NewZonesEchoHandler(l, zones, watch)
	h.AddHealthCheck("clickhouse", zoneStore.Health)
	h.AddHealthCheck("postgres", watchStore.Health)
	h.AddHealthCheck("redis", func(ctx context.Context) error {
		return rc.Client().Ping(ctx).Err()
	})
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	monitor *usecase.AlertMonitor,
	consumer *pkgkafka.Consumer,
	alerts *usecase.KafkaAlertsHandler,
	queue *pkgqueue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	publisher repository.Publisher,
	chClient *pkgch.Client,
	pgClient *pkgpg.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, handler, monitor, consumer, alerts, queue, scheduler, publisher, chClient, pgClient)
}
