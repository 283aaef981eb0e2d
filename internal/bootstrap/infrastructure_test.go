package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/config"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/internal/testutil"
)

var corpus = []string{"CCO", "c1ccccc1", "CC(=O)O", "CCN", "c1ccccc1O", "CC(C)O", "CC(=O)Nc1ccc(O)cc1"}

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Model.Store = config.ModelStoreLocal
	cfg.Model.Dir = t.TempDir()
	cfg.Model.Name = "bootstrap"
	return cfg
}

func TestInit_LocalOnly(t *testing.T) {
	cfg := localConfig(t)
	cfg.Metrics.Enabled = false

	infra, err := Init(context.Background(), cfg, "test", testutil.NewMockLogger())
	require.NoError(t, err)
	defer infra.Close()

	assert.NotNil(t, infra.Store)
	assert.NotNil(t, infra.Metrics)
	assert.Nil(t, infra.Redis)
	assert.Nil(t, infra.Postgres)
	assert.Nil(t, infra.Producer)
	assert.Empty(t, infra.HealthCheckers())
	assert.Len(t, infra.ServiceOptions(), 2)
}

func TestInit_MetricsEnabledServesRegistry(t *testing.T) {
	cfg := localConfig(t)
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "boot"

	infra, err := Init(context.Background(), cfg, "test", nil)
	require.NoError(t, err)
	defer infra.Close()

	infra.Metrics.RecordHTTPRequest("/api/v1/sascore", http.MethodPost, http.StatusOK, 0)

	rec := httptest.NewRecorder()
	infra.Collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "boot_http_requests_total")
}

func TestLoadInitialModel(t *testing.T) {
	cfg := localConfig(t)
	logger := testutil.NewMockLogger()
	ctx := context.Background()

	infra, err := Init(ctx, cfg, prom.SourceHTTP, logger)
	require.NoError(t, err)
	defer infra.Close()

	t.Run("disabled", func(t *testing.T) {
		cfg.Model.LoadOnStart = false
		svc := NewService(cfg, prom.SourceHTTP, infra, logger)
		require.NoError(t, LoadInitialModel(ctx, cfg, svc, logger))
		assert.False(t, svc.Ready())
	})

	t.Run("nothing stored yet", func(t *testing.T) {
		cfg.Model.LoadOnStart = true
		svc := NewService(cfg, prom.SourceHTTP, infra, logger)
		require.NoError(t, LoadInitialModel(ctx, cfg, svc, logger))
		assert.False(t, svc.Ready())
		assert.True(t, logger.HasMessage("warn", "no stored model to load"))
	})

	t.Run("loads the stored model", func(t *testing.T) {
		builder := NewService(cfg, prom.SourceHTTP, infra, logger)
		built, err := builder.BuildModel(ctx, &app.BuildInput{Name: cfg.Model.Name, Corpus: corpus})
		require.NoError(t, err)

		cfg.Model.LoadOnStart = true
		svc := NewService(cfg, prom.SourceHTTP, infra, logger)
		require.NoError(t, LoadInitialModel(ctx, cfg, svc, logger))
		require.True(t, svc.Ready())

		info, err := svc.ActiveModel()
		require.NoError(t, err)
		assert.Equal(t, built.Snapshot.Version(), info.ID)
	})
}

//Personal.AI order the ending
