// Package bootstrap assembles the scoring service from configuration.  Both
// the API server and the scoring worker start through it.
package bootstrap

import (
	"context"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/config"
	"github.com/turtacn/SAScore/internal/infrastructure/database/postgres"
	"github.com/turtacn/SAScore/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SAScore/internal/infrastructure/database/redis"
	"github.com/turtacn/SAScore/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/internal/infrastructure/storage/local"
	"github.com/turtacn/SAScore/internal/infrastructure/storage/minio"
	"github.com/turtacn/SAScore/internal/interfaces/http/handlers"
	"github.com/turtacn/SAScore/pkg/errors"
)

// SnapshotRetention is the number of snapshot versions kept per model name.
const SnapshotRetention = 5

// Infrastructure holds the clients opened for one process.  Disabled
// components stay nil.
type Infrastructure struct {
	Collector prom.MetricsCollector
	Metrics   *prom.ScoringMetrics

	Store    app.ModelStore
	MinIO    *minio.Client
	Redis    *redis.Client
	Postgres *postgres.Connection
	Producer *kafka.Producer

	cache  *redis.ScoreCache
	locker *redis.LockFactory
	counts *repositories.FragmentCountRepository
	events *kafka.ModelEventPublisher

	logger logging.Logger
}

// Init opens every enabled component of cfg.  On failure whatever was
// already opened is closed.  source names the process in model events.
func Init(ctx context.Context, cfg *config.Config, source string, logger logging.Logger) (*Infrastructure, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	infra := &Infrastructure{logger: logger}

	if err := infra.initMetrics(cfg.Metrics); err != nil {
		return nil, err
	}
	if err := infra.initStore(ctx, cfg); err != nil {
		infra.Close()
		return nil, err
	}
	if cfg.Redis.Enabled {
		if err := infra.initRedis(cfg.Redis); err != nil {
			infra.Close()
			return nil, err
		}
	}
	if cfg.Database.Enabled {
		if err := infra.initPostgres(ctx, cfg.Database); err != nil {
			infra.Close()
			return nil, err
		}
	}
	if cfg.Kafka.Enabled {
		if err := infra.initKafka(ctx, cfg.Kafka, source); err != nil {
			infra.Close()
			return nil, err
		}
	}

	logger.Info("infrastructure initialized",
		logging.String("model_store", cfg.Model.Store),
		logging.Bool("redis", infra.Redis != nil),
		logging.Bool("postgres", infra.Postgres != nil),
		logging.Bool("kafka", infra.Producer != nil),
		logging.Bool("metrics", cfg.Metrics.Enabled),
	)
	return infra, nil
}

func (i *Infrastructure) initMetrics(cfg config.MetricsConfig) error {
	if !cfg.Enabled {
		i.Collector = prom.NewNoopCollector()
		i.Metrics = prom.NewNoopScoringMetrics()
		return nil
	}
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{
		Namespace:            cfg.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, i.logger)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create metrics collector")
	}
	i.Collector = collector
	i.Metrics = prom.NewScoringMetrics(collector)
	return nil
}

func (i *Infrastructure) initStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Model.Store {
	case config.ModelStoreMinIO:
		client, err := minio.NewClient(ctx, cfg.MinIO, i.logger)
		if err != nil {
			return err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return err
		}
		i.MinIO = client
		i.Store = minio.NewModelStore(client, minio.WithRetention(SnapshotRetention))
	default:
		store, err := local.NewModelStore(cfg.Model.Dir, SnapshotRetention, i.logger)
		if err != nil {
			return err
		}
		i.Store = store
	}
	return nil
}

func (i *Infrastructure) initRedis(cfg config.RedisConfig) error {
	client, err := redis.NewClient(&redis.RedisConfig{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, i.logger)
	if err != nil {
		return err
	}
	i.Redis = client
	i.cache = redis.NewScoreCache(client, i.logger, redis.WithPrefix(cfg.KeyPrefix))
	i.locker = redis.NewLockFactory(client, i.logger, cfg.KeyPrefix)
	return nil
}

func (i *Infrastructure) initPostgres(ctx context.Context, cfg config.DatabaseConfig) error {
	conn, err := postgres.NewConnection(ctx, cfg, i.logger)
	if err != nil {
		return err
	}
	i.Postgres = conn
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DSN()); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to run migrations")
		}
		i.logger.Info("database migrations applied")
	}
	i.counts = repositories.NewFragmentCountRepository(conn.Pool(), i.logger)
	return nil
}

func (i *Infrastructure) initKafka(ctx context.Context, cfg config.KafkaConfig, source string) error {
	topics, err := kafka.NewTopicManager(cfg.Brokers, i.logger)
	if err != nil {
		return err
	}
	ensureErr := topics.EnsureTopics(ctx, kafka.DefaultTopics(cfg))
	_ = topics.Close()
	if ensureErr != nil {
		return ensureErr
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg), i.logger)
	if err != nil {
		return err
	}
	i.Producer = producer
	i.events = kafka.NewModelEventPublisher(producer, cfg.EventTopic, source)
	return nil
}

// ServiceOptions returns the application options backed by the enabled
// components.
func (i *Infrastructure) ServiceOptions() []app.Option {
	opts := []app.Option{
		app.WithModelStore(i.Store),
		app.WithMetrics(i.Metrics),
	}
	if i.cache != nil {
		opts = append(opts, app.WithScoreCache(i.cache))
	}
	if i.locker != nil {
		opts = append(opts, app.WithBuildLocker(i.locker))
	}
	if i.counts != nil {
		opts = append(opts, app.WithFragmentCountStore(i.counts))
	}
	if i.events != nil {
		opts = append(opts, app.WithEventPublisher(i.events))
	}
	return opts
}

// HealthCheckers returns one checker per opened remote dependency.
func (i *Infrastructure) HealthCheckers() []handlers.HealthChecker {
	var checkers []handlers.HealthChecker
	if i.Redis != nil {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: "redis", Fn: i.Redis.Ping})
	}
	if i.Postgres != nil {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: "postgres", Fn: i.Postgres.HealthCheck})
	}
	if i.MinIO != nil {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: "minio", Fn: i.MinIO.HealthCheck})
	}
	return checkers
}

// Close releases every opened component.
func (i *Infrastructure) Close() {
	if i.Producer != nil {
		if err := i.Producer.Close(); err != nil {
			i.logger.Warn("failed to close kafka producer", logging.Err(err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
	if i.Postgres != nil {
		i.Postgres.Close()
	}
}

// NewService builds the scoring service for cfg on top of i.
func NewService(cfg *config.Config, source string, i *Infrastructure, logger logging.Logger) app.Service {
	return app.NewService(app.Config{
		ModelName:  cfg.Model.Name,
		Radius:     cfg.Scoring.Radius,
		Workers:    cfg.Scoring.BuildWorkers,
		BatchLimit: cfg.Scoring.BatchLimit,
		Strict:     cfg.Scoring.StrictCorpus,
		CacheTTL:   cfg.Scoring.CacheTTL,
		Source:     source,
	}, logger, i.ServiceOptions()...)
}

// LoadInitialModel activates the configured model when LoadOnStart is set.
// A model that does not exist yet is logged, not fatal, so a fresh
// deployment can start and build its first model.
func LoadInitialModel(ctx context.Context, cfg *config.Config, svc app.Service, logger logging.Logger) error {
	if !cfg.Model.LoadOnStart {
		return nil
	}
	info, err := svc.LoadModel(ctx, cfg.Model.Name)
	if err != nil {
		if errors.IsCode(err, errors.CodeModelNotFound) {
			logger.Warn("no stored model to load", logging.String("model", cfg.Model.Name))
			return nil
		}
		return err
	}
	logger.Info("model loaded",
		logging.String("model", info.Name),
		logging.String("id", info.ID),
	)
	return nil
}

//Personal.AI order the ending
