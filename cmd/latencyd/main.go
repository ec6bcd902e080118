// Command latencyd serves per-region latency and uptime metrics computed
// from a static JSON dataset.
//
// At startup latencyd reads the observation file once into memory; the
// dataset is immutable for the process lifetime and shared lock-free across
// requests. A missing file is tolerated (the service starts with an empty
// dataset and every region reports the zero record), but a corrupt file is
// fatal so the service never serves partial data.
//
// The HTTP API:
//   - POST / - {"regions": [...], "threshold_ms": n} -> per-region metrics
//   - GET / - informational message
//   - GET /healthz - health check endpoint
//   - GET /metrics - Prometheus metrics endpoint
//
// Usage:
//
//	latencyd -listen=:8080 -dataset=q-vercel-latency.json -cache=memory
//
// Environment variables:
//
//	LISTEN               - HTTP listen address (default :8080)
//	DATASET_PATH         - Observation file path (default q-vercel-latency.json)
//	DEFAULT_THRESHOLD_MS - Breach threshold when a query omits threshold_ms (default 180)
//	CACHE                - Result cache backend: off, memory, redis (default memory)
//	CACHE_TTL            - Result cache TTL (default 5m)
//	REDIS_ADDR           - Redis server address (default localhost:6379)
//	LOG_LEVEL            - Logging level: debug, info, warn, error (default info)
//	LOG_FORMAT           - Logging format: text, json (default text)
package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HatiCode/latencyd/cmd/latencyd/config"
	"github.com/HatiCode/latencyd/cmd/latencyd/logger"
	"github.com/HatiCode/latencyd/cmd/latencyd/metrics"
	"github.com/HatiCode/latencyd/cmd/latencyd/router"
	"github.com/HatiCode/latencyd/pkg/cache"
	"github.com/HatiCode/latencyd/pkg/dataset"
	"github.com/HatiCode/latencyd/pkg/httpx"
	"github.com/HatiCode/latencyd/pkg/tls"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	cfg := config.ParseFlags()

	logger := logger.New(cfg)
	slog.SetDefault(logger)

	logger.Info("starting latencyd",
		"version", version,
		"dataset", cfg.DatasetPath,
		"default_threshold_ms", cfg.DefaultThreshold,
	)

	ds, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	if ds.Len() == 0 {
		logger.Warn("dataset is empty, all regions will report zero metrics", "path", cfg.DatasetPath)
	} else {
		logger.Info("dataset loaded", "observations", ds.Len(), "regions", ds.Regions())
	}

	m := metrics.New()
	m.SetDatasetSize(ds.Len())

	resultCache := newCache(cfg, logger)
	if closer, ok := resultCache.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("failed to close cache", "error", err)
			}
		}()
	}

	mux := router.SetupRoutes(ds, resultCache, cfg.DefaultThreshold, m, logger)

	var handler http.Handler = mux
	handler = httpx.CORSMiddleware()(handler)
	handler = httpx.LoggingMiddleware(logger)(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)

	httpServer := httpx.NewServer(cfg.Listen, handler, logger)

	serverErr := make(chan error, 1)
	if cfg.TLS.Enabled {
		tlsConfig, err := tls.NewServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			logger.Error("failed to build TLS config", "error", err)
			os.Exit(1)
		}
		httpServer.SetTLSConfig(tlsConfig)
		go func() {
			serverErr <- httpServer.StartTLS()
		}()
	} else {
		go func() {
			serverErr <- httpServer.Start()
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	logger.Info("shutting down")

	if err := httpServer.Stop(10 * time.Second); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// newCache builds the configured result cache backend.
// Returns nil when caching is off.
func newCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	switch cfg.Cache {
	case "memory":
		return cache.NewMemoryCache(cfg.CacheTTL)
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			logger.Error("failed to connect to redis cache", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		logger.Info("using redis result cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return c
	default:
		return nil
	}
}
