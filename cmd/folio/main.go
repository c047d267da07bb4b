package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	corecfg "github.com/skshmgpt/folio/internal/core/config"
	"github.com/skshmgpt/folio/internal/core/storage"
	badgerstore "github.com/skshmgpt/folio/internal/core/storage/badger"
	"github.com/skshmgpt/folio/internal/core/storage/memory"
	"github.com/skshmgpt/folio/internal/core/storage/postgres"
	"github.com/skshmgpt/folio/internal/ingestion"
	"github.com/skshmgpt/folio/internal/migrations"
	"github.com/skshmgpt/folio/internal/projection"
	"github.com/skshmgpt/folio/internal/server"
)

const rateLimiterCleanupInterval = 5 * time.Minute

func main() {
	configPath := flag.String("config", "folio.yaml", "Path to configuration file (skipped if missing)")
	envFile := flag.String("env", ".env", "Path to .env file (skipped if missing)")
	flag.Parse()

	// 0. Initialize Logger
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	path := *configPath
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Info("Config file not found, using defaults and environment", "path", path)
		path = ""
	}
	cfg, err := corecfg.Load(path, *envFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config",
		"storage_driver", cfg.Storage.Driver,
		"dedup_window", cfg.Ingestion.Window(),
		"breaker_enabled", cfg.Breaker.Enabled,
		"rate_limit_enabled", cfg.Server.RateLimit.Enabled,
	)

	// 2. Initialize Storage
	backend, err := openBackend(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	if cfg.Breaker.Enabled {
		openTimeout, interval := cfg.Breaker.Timeouts()
		backend = storage.NewGuarded(backend, storage.BreakerSettings{
			FailureThreshold: cfg.Breaker.FailureThreshold,
			Timeout:          openTimeout,
			Interval:         interval,
		})
	}

	// 3. Initialize Ingestion
	var dedup *ingestion.Deduper
	if window := cfg.Ingestion.Window(); window > 0 {
		dedup, err = ingestion.NewDeduper(window, cfg.Ingestion.DedupCapacity)
		if err != nil {
			slog.Error("Failed to initialize deduplication", "error", err)
			os.Exit(1)
		}
		defer dedup.Close()
	}
	ingestionSvc := ingestion.NewService(backend, cfg.Server.MaxBodySizeKB, dedup)

	// 4. Initialize Projection (query + export API)
	projectionSvc := projection.NewService(backend, cfg.Export.Filename)

	// 5. Initialize Server
	srv := server.New(server.Options{
		Addr:            fmtAddr(cfg.Server.Host, cfg.Server.Port),
		Mode:            cfg.Server.Mode,
		CORSOrigins:     cfg.Server.CORSOrigins,
		ShutdownTimeout: cfg.Server.ShutdownGrace(),
		Health:          backend,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	ingest := srv.Engine.Group("/")
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter := server.NewIPRateLimiter(rl.RequestsPerSecond, rl.Burst, time.Hour)
		ingest.Use(server.RateLimit(limiter))
		g.Go(func() error {
			limiter.RunCleanup(gctx, rateLimiterCleanupInterval)
			return nil
		})
	}
	ingestionSvc.RegisterRoutes(ingest)
	projectionSvc.RegisterRoutes(srv.Engine)

	// Signal handler cancels ctx, which stops the server and the cleanup loop.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// openBackend builds the configured summary store.
func openBackend(cfg *corecfg.Config) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case corecfg.DriverPostgres:
		adapter, err := postgres.NewAdapter(postgres.Options{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			RetainRawEvents: cfg.Ingestion.RetainRawEvents,
			Migrate: func(db *sql.DB) error {
				return migrations.RunMigrations(db, cfg.Database.AutoMigrate)
			},
		})
		if err != nil {
			return nil, err
		}
		return adapter, nil
	case corecfg.DriverBadger:
		store, err := badgerstore.Open(badgerstore.Options{
			Path:            cfg.Badger.Path,
			SyncWrites:      cfg.Badger.SyncWrites,
			RetainRawEvents: cfg.Ingestion.RetainRawEvents,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case corecfg.DriverMemory:
		slog.Warn("[Storage] Using in-memory store; summaries are lost on restart")
		if cfg.Ingestion.RetainRawEvents {
			slog.Warn("[Storage] Raw event retention is not supported by the memory store")
		}
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
