package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/wayward/internal/catalog"
	"github.com/playperu/wayward/internal/config"
	"github.com/playperu/wayward/internal/content"
	"github.com/playperu/wayward/internal/database"
	"github.com/playperu/wayward/internal/geo"
	"github.com/playperu/wayward/internal/handler/health"
	"github.com/playperu/wayward/internal/handler/location"
	"github.com/playperu/wayward/internal/migrations"
	"github.com/playperu/wayward/internal/progress"
	"github.com/playperu/wayward/internal/server"
)

const redisKeyPrefix = "wayward:"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	checks := map[string]health.Checker{}

	// --- Progress ---
	var backend progress.Backend
	switch cfg.ProgressBackend {
	case "redis":
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		backend = progress.NewRedisKV(rdb, redisKeyPrefix)
		checks["redis"] = redisChecker{rdb}
	default:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("connecting to sqlite: %w", err)
		}
		defer db.Close()

		if err := migrations.Run(ctx, db, logger); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath)

		backend = progress.NewSQLiteKV(db)
		checks["sqlite"] = dbChecker{db}
	}
	store := progress.NewStore(backend, logger)

	// --- Catalog ---
	cat, err := catalog.New(catalog.Options{
		Bundled:        content.Bundled(),
		Root:           cfg.HuntsDir,
		ExportDir:      cfg.ExportDir,
		MaxBundleBytes: cfg.MaxBundle,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	logger.Info("catalog loaded", "hunts", len(cat.Hunts()), "root", cat.Root())
	checks["catalog"] = health.CheckerFunc(func(context.Context) error {
		_, err := os.Stat(cat.Root())
		return err
	})

	// --- HTTP Server ---
	tracker := geo.NewTracker()
	loc := location.NewHandler(logger, tracker, cfg.LocationWait)

	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Catalog:            cat,
		Tracker:            tracker,
		Progress:           store,
		AuthorPasswordHash: cfg.AuthorPasswordHash,
		MaxUpload:          cfg.MaxUpload,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
		r.Mount("/api/location", loc.Routes())
		r.Get("/ws/location", loc.ServeWS)
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// redisChecker adapts *redis.Client to health.Checker.
type redisChecker struct{ client *redis.Client }

func (r redisChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }
