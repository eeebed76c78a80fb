// Package main runs the analytics API server: it loads the contracts
// reference data, connects to the rollup database, and serves token metrics
// and transaction lookups over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/analytics"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/cache"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/config"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage/migrations"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage/postgres"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/web"
)

func main() {
	// Load .env if present; system env vars win.
	_ = godotenv.Load()

	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for the result cache (empty: in-memory cache)")
	redisPassword := flag.String("redis-password", os.Getenv("REDIS_PASSWORD"), "Redis password")
	redisDB := flag.Int("redis-db", 0, "Redis database number")
	contractsPath := flag.String("contracts", envOr("CONTRACTS_PATH", "contracts.json"), "Path to contracts reference data")
	historyTTL := flag.Duration("history-ttl", envDurationOr("HISTORY_TTL", 15*time.Minute), "Result cache TTL for per-day locked-value sums")
	migrate := flag.Bool("migrate", false, "Apply embedded migrations on startup")

	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "analytics-api").Logger()

	cfg := &config.Config{
		ListenAddr:    *listenAddr,
		PostgresDSN:   *postgresDSN,
		RedisAddr:     *redisAddr,
		RedisPassword: *redisPassword,
		RedisDB:       *redisDB,
		ContractsPath: *contractsPath,
		HistoryTTL:    *historyTTL,
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	contracts, err := config.LoadContracts(cfg.ContractsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load contracts")
	}
	logger.Info().
		Int("tokens", len(contracts.Tokens)).
		Int("pools", len(contracts.AMM)).
		Msg("contracts loaded")

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	var resultCache cache.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to redis")
		}
		defer rc.Close()
		resultCache = rc
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis result cache")
	} else {
		resultCache = cache.NewMemoryCache()
		logger.Info().Msg("using in-memory result cache")
	}

	engine := analytics.NewEngine(analytics.Options{
		Store:      postgres.NewAnalyticsStore(pool),
		Cache:      resultCache,
		Contracts:  contracts,
		HistoryTTL: cfg.HistoryTTL,
	})

	server := web.NewServer(engine, postgres.NewTransactionStore(pool), contracts, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("http server")
	}
}

// envOr returns the env var's value or a default when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDurationOr parses the env var as a duration, falling back on a default.
func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
