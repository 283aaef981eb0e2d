package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8081
  mode: "test"
log:
  level: "debug"
  format: "console"
scoring:
  radius: 2
  build_workers: 8
  batch_limit: 50
  cache_ttl: 10m
model:
  store: "minio"
  name: "chembl"
minio:
  endpoint: "minio:9000"
  bucket: "models"
redis:
  enabled: true
  addr: "redis:6379"
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Scoring.BuildWorkers)
	assert.Equal(t, 50, cfg.Scoring.BatchLimit)
	assert.Equal(t, 10*time.Minute, cfg.Scoring.CacheTTL)
	assert.Equal(t, ModelStoreMinIO, cfg.Model.Store)
	assert.Equal(t, "models", cfg.MinIO.Bucket)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)

	// defaults for keys absent from the file
	assert.Equal(t, DefaultRequestTopic, cfg.Kafka.RequestTopic)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server:\n  port: 99999\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SASCORE_SERVER_PORT", "9191")
	t.Setenv("SASCORE_SCORING_BUILD_WORKERS", "3")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Scoring.BuildWorkers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SASCORE_SCORING_RADIUS", "3")
	t.Setenv("SASCORE_MODEL_NAME", "zinc")
	t.Setenv("SASCORE_REDIS_ENABLED", "true")
	t.Setenv("SASCORE_SCORING_CACHE_TTL", "90s")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scoring.Radius)
	assert.Equal(t, "zinc", cfg.Model.Name)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Scoring.CacheTTL)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadOrEnv(t *testing.T) {
	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, DefaultModelName, cfg.Model.Name)

	cfg, err = LoadOrEnv(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, "chembl", cfg.Model.Name)
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
	assert.NotPanics(t, func() { MustLoad(createTempConfigFile(t, validConfigYAML)) })
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "nope.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	changed := make(chan *Config, 8)

	require.NoError(t, Watch(path, func(c *Config) { changed <- c }, nil))

	updated := validConfigYAML + "\nmetrics:\n  namespace: \"reloaded\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	// the truncate and the write may arrive as separate events
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Metrics.Namespace == "reloaded" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

//Personal.AI order the ending
