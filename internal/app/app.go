package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sharepeak/config"
	"github.com/guttosm/sharepeak/internal/api"
	"github.com/guttosm/sharepeak/internal/cache"
	"github.com/guttosm/sharepeak/internal/ingestion"
	"github.com/guttosm/sharepeak/internal/logger"
	"github.com/guttosm/sharepeak/internal/service"
	"github.com/guttosm/sharepeak/internal/storage"
	"github.com/redis/go-redis/v9"
)

// redisConnector is an indirection for unit testing; defaults to cache.Connect.
var redisConnector = cache.Connect

// InitReportCache connects the report cache described by cfg.Redis.
//
// It returns cache.Noop and a nil client when REDIS_ADDR is empty or the
// server is unreachable; the caller owns a non-nil client and must close it.
func InitReportCache(cfg config.Config) (cache.ReportCache, *redis.Client) {
	if cfg.Redis.Addr == "" {
		return cache.Noop{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	client, err := redisConnector(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.L().Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("report cache disabled")
		return cache.Noop{}, nil
	}
	return cache.NewRedisCache(client, cfg.Redis.TTL), client
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Connects to Redis when REDIS_ADDR is set; falls back to no cache if unreachable.
//   - Builds repository → service → handler → router.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	closers := []func(){func() { _ = db.Close() }}
	checks := map[string]func() error{"postgres": db.Ping}

	reportCache, client := InitReportCache(cfg)
	if client != nil {
		closers = append(closers, func() { _ = client.Close() })
		checks["redis"] = func() error { return client.Ping(context.Background()).Err() }
	}

	repo := storage.NewReportsRepository(db)
	svc := service.NewReportService(repo, reportCache, ingestion.WithComma(cfg.Shares.Delimiter))
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	api.NewHealthHandler(checks).Register(router)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	return router, cleanup, nil
}
