package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/api"
	"github.com/trialfit-scoring-server/internal/config"
	"github.com/trialfit-scoring-server/internal/database"
	"github.com/trialfit-scoring-server/internal/domain"
	"github.com/trialfit-scoring-server/internal/engine"
	"github.com/trialfit-scoring-server/internal/repository"
	"github.com/trialfit-scoring-server/pkg/pgxkb"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := setupLogger(cfg.Logging)

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting trial-fit scoring server")

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pharmacogenomic lookup stack
	lookup, cleanupPGx, err := buildPGxLookup(cfg, logger)
	if err != nil {
		logger.WithField("error", err).Fatal("Failed to build pharmacogenomic lookup")
	}
	defer cleanupPGx()

	// Report store: Postgres for multi-node deployments, SQLite otherwise
	reports, cleanupReports, err := buildReportStore(ctx, cfg, logger)
	if err != nil {
		logger.WithField("error", err).Fatal("Failed to build report store")
	}
	defer cleanupReports()

	// Scoring engine
	orchestrator := engine.NewGateOrchestrator(logger)
	holistic := engine.NewHolisticScorer(lookup, logger)
	batch := engine.NewBatchScorer(holistic, logger)

	handlers := api.NewHandlers(orchestrator, holistic, batch, reports, logger)
	server := api.NewServer(cfg, handlers, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithField("error", err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// setupLogger configures logrus from the logging configuration.
func setupLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(cfg.Format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if strings.ToLower(cfg.Output) == "stderr" {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger
}

// buildPGxLookup assembles the pharmacogenomic resolver: built-in table
// always, remote guideline client and Redis cache per configuration.
func buildPGxLookup(cfg *domain.Config, logger *logrus.Logger) (domain.PGxLookup, func(), error) {
	var remote *pgxkb.RemoteClient
	if cfg.PGx.RemoteEnabled {
		remote = pgxkb.NewRemoteClient(cfg.PGx)
		logger.WithField("base_url", cfg.PGx.BaseURL).Info("Remote pharmacogenomic guideline service enabled")
	}

	var redisCache *pgxkb.RedisCache
	cleanup := func() {}
	if cfg.Cache.Enabled {
		cache, err := pgxkb.NewRedisCache(cfg.Cache)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to Redis cache: %w", err)
		}
		redisCache = cache
		cleanup = func() { _ = cache.Close() }
		logger.Info("Redis assessment cache enabled")
	}

	resolver, err := pgxkb.NewResolver(cfg.PGx, remote, redisCache, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return resolver, cleanup, nil
}

// buildReportStore selects and initializes the score-report repository.
func buildReportStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (domain.ReportRepository, func(), error) {
	if !cfg.Database.Enabled {
		store, err := repository.NewSQLiteReportRepository(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening SQLite report store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	}

	db, err := database.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to Postgres: %w", err)
	}

	runner, err := database.NewMigrationRunner(postgresURL(cfg.Database), logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("preparing migrations: %w", err)
	}
	if err := runner.Up(); err != nil {
		runner.Close()
		db.Close()
		return nil, nil, fmt.Errorf("applying migrations: %w", err)
	}
	runner.Close()

	return repository.NewPostgresReportRepository(db.Pool, logger), db.Close, nil
}

func postgresURL(cfg domain.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.Username), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
}
