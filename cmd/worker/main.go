// Command worker scores molecules requested over Kafka and publishes the
// results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/SAScore/internal/bootstrap"
	"github.com/turtacn/SAScore/internal/config"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/SAScore/internal/interfaces/http"
	"github.com/turtacn/SAScore/internal/interfaces/http/handlers"
	"github.com/turtacn/SAScore/internal/interfaces/worker"
	"github.com/turtacn/SAScore/pkg/errors"
)

// Build-time variables injected via ldflags.
var version = "dev"

const startupTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment only when empty)")
	healthPort := flag.Int("health-port", 0, "port of the health and metrics server (overrides server.port)")
	flag.Parse()

	if err := run(*configPath, *healthPort); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort int) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return errors.New(errors.CodeInvalidParam, "the scoring worker requires kafka.enabled")
	}
	if healthPort > 0 {
		cfg.Server.Port = healthPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting SA score worker",
		logging.String("version", version),
		logging.String("request_topic", cfg.Kafka.RequestTopic),
		logging.String("result_topic", cfg.Kafka.ResultTopic),
		logging.Int("concurrency", cfg.Kafka.Concurrency),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	defer cancelStart()

	infra, err := bootstrap.Init(startCtx, cfg, "sascore-worker", logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	svc := bootstrap.NewService(cfg, prom.SourceWorker, infra, logger)
	if err := bootstrap.LoadInitialModel(startCtx, cfg, svc, logger); err != nil {
		return err
	}

	// Probes and scrapes only; scoring arrives over Kafka.
	checkers := append([]handlers.HealthChecker{handlers.ModelChecker(svc.Ready)}, infra.HealthCheckers()...)
	routerCfg := httpserver.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(version, checkers...),
		Metrics:       infra.Metrics,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsHandler = infra.Collector.Handler()
	}
	health := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)
	go func() {
		if err := health.Start(); err != nil {
			logger.Error("health server failed", logging.Err(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := health.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown failed", logging.Err(err))
		}
	}()

	handler := worker.NewScoreHandler(svc, infra.Producer, cfg.Kafka.ResultTopic, infra.Metrics, logger)
	return worker.Run(ctx, cfg.Kafka, handler, worker.KafkaConsumerFactory(logger), logger)
}

//Personal.AI order the ending
