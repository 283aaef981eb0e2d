package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort        = 8080
	DefaultServerMode        = "release"
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultMaxBodySize       = 4 << 20
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultRateBurst         = 50
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultRadius            = 2
	MaxRadius                = 6
	DefaultBuildWorkers      = 4
	DefaultBatchLimit        = 1000
	DefaultCacheTTL          = time.Hour
	ModelStoreLocal          = "local"
	ModelStoreMinIO          = "minio"
	DefaultModelDir          = "./models"
	DefaultModelName         = "default"
	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultDBName            = "sascore"
	DefaultDBMaxConns        = 10
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisKeyPrefix    = "sascore:"
	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaGroupID      = "sascore-worker"
	DefaultRequestTopic      = "sascore.requests"
	DefaultResultTopic       = "sascore.results"
	DefaultEventTopic        = "sascore.events"
	DefaultKafkaConcurrency  = 4
	DefaultMinIOEndpoint     = "localhost:9000"
	DefaultMinIOBucket       = "sascore-models"
	DefaultMetricsNamespace  = "sascore"
	DefaultMetricsPath       = "/metrics"
	DefaultKafkaWriteTimeout = 10 * time.Second
)

// registerDefaults seeds v with every known key so that SASCORE_* variables
// are honoured by Unmarshal even when no config file mentions the key.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.rate_burst", DefaultRateBurst)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.enable_caller", false)

	v.SetDefault("scoring.radius", DefaultRadius)
	v.SetDefault("scoring.build_workers", DefaultBuildWorkers)
	v.SetDefault("scoring.batch_limit", DefaultBatchLimit)
	v.SetDefault("scoring.strict_corpus", false)
	v.SetDefault("scoring.cache_ttl", DefaultCacheTTL)

	v.SetDefault("model.store", ModelStoreLocal)
	v.SetDefault("model.dir", DefaultModelDir)
	v.SetDefault("model.name", DefaultModelName)
	v.SetDefault("model.load_on_start", true)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", DefaultDBHost)
	v.SetDefault("database.port", DefaultDBPort)
	v.SetDefault("database.user", "sascore")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", DefaultDBName)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", DefaultDBMaxConns)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", DefaultRedisKeyPrefix)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)
	v.SetDefault("kafka.request_topic", DefaultRequestTopic)
	v.SetDefault("kafka.result_topic", DefaultResultTopic)
	v.SetDefault("kafka.event_topic", DefaultEventTopic)
	v.SetDefault("kafka.auto_offset_reset", "earliest")
	v.SetDefault("kafka.write_timeout", DefaultKafkaWriteTimeout)
	v.SetDefault("kafka.concurrency", DefaultKafkaConcurrency)

	v.SetDefault("minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", DefaultMinIOBucket)
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)
}

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the default.  Fields
// that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = DefaultRateBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Scoring ───────────────────────────────────────────────────────────────
	if cfg.Scoring.Radius == 0 {
		cfg.Scoring.Radius = DefaultRadius
	}
	if cfg.Scoring.BuildWorkers == 0 {
		cfg.Scoring.BuildWorkers = DefaultBuildWorkers
	}
	if cfg.Scoring.BatchLimit == 0 {
		cfg.Scoring.BatchLimit = DefaultBatchLimit
	}

	// ── Model ─────────────────────────────────────────────────────────────────
	if cfg.Model.Store == "" {
		cfg.Model.Store = ModelStoreLocal
	}
	if cfg.Model.Dir == "" {
		cfg.Model.Dir = DefaultModelDir
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModelName
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultRequestTopic
	}
	if cfg.Kafka.ResultTopic == "" {
		cfg.Kafka.ResultTopic = DefaultResultTopic
	}
	if cfg.Kafka.EventTopic == "" {
		cfg.Kafka.EventTopic = DefaultEventTopic
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}
	if cfg.Kafka.Concurrency == 0 {
		cfg.Kafka.Concurrency = DefaultKafkaConcurrency
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// Default returns a Config holding only defaults.
func Default() *Config {
	cfg := &Config{Scoring: ScoringConfig{Radius: DefaultRadius, CacheTTL: DefaultCacheTTL}}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
