// Command apiserver serves the synthetic accessibility scoring API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/bootstrap"
	"github.com/turtacn/SAScore/internal/config"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/SAScore/internal/interfaces/http"
	"github.com/turtacn/SAScore/internal/interfaces/http/handlers"
	"github.com/turtacn/SAScore/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	startupTimeout = 2 * time.Minute
	limiterIdleTTL = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment only when empty)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *httpPort); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if httpPort > 0 {
		cfg.Server.Port = httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting SA score API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.Int("radius", cfg.Scoring.Radius),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	infra, err := bootstrap.Init(startCtx, cfg, "sascore-api", logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	svc := bootstrap.NewService(cfg, prom.SourceHTTP, infra, logger)
	if err := bootstrap.LoadInitialModel(startCtx, cfg, svc, logger); err != nil {
		return err
	}

	checkers := append([]handlers.HealthChecker{handlers.ModelChecker(svc.Ready)}, infra.HealthCheckers()...)
	routerCfg := httpserver.RouterConfig{
		ScoreHandler:  handlers.NewScoreHandler(svc, logger, cfg.Server.MaxBodySize),
		HealthHandler: handlers.NewHealthHandler(version, checkers...),
		Logger:        logger,
		Metrics:       infra.Metrics,
		CORSOrigins:   cfg.Server.CORSOrigins,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsHandler = infra.Collector.Handler()
	}
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewKeyedLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, limiterIdleTTL)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}

	if configPath != "" {
		watchModel(configPath, cfg.Model.Name, svc, logger)
	}

	server := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received signal", logging.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// watchModel activates the stored model a rewritten config names.  Other
// settings need a restart.
func watchModel(configPath, current string, svc app.Service, logger logging.Logger) {
	var mu sync.Mutex
	err := config.Watch(configPath, func(next *config.Config) {
		mu.Lock()
		defer mu.Unlock()
		if next.Model.Name == current {
			logger.Info("configuration changed, restart to apply")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if _, err := svc.LoadModel(ctx, next.Model.Name); err != nil {
			logger.Error("failed to switch model", logging.String("model", next.Model.Name), logging.Err(err))
			return
		}
		logger.Info("switched model", logging.String("from", current), logging.String("to", next.Model.Name))
		current = next.Model.Name
	}, func(err error) {
		logger.Warn("ignoring invalid configuration change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("configuration watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
