// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/engine"
	"github.com/jason-s-yu/uno/internal/handlers"
	"github.com/jason-s-yu/uno/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("could not load configuration")
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Fatal("could not parse level")
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		pool *pgxpool.Pool
		rdb  *redis.Client
	)
	if cfg.Store == config.StorePostgres {
		pool, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Fatal("could not connect to postgres")
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.WithError(err).Fatal("could not create schema")
		}
	}
	if cfg.Store == config.StoreRedis || cfg.ActionLog {
		rdb, err = cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			logger.WithError(err).Fatal("could not connect to redis")
		}
		defer rdb.Close()
	}

	opts := engine.Options{Logger: logger}
	switch cfg.Store {
	case config.StorePostgres:
		opts.Store = store.NewPostgresStore(pool)
	case config.StoreRedis:
		opts.Store = store.NewRedisStore(rdb, cfg.StateTTL)
	default:
		opts.Store = store.NewMemoryStore()
	}
	if cfg.ActionLog {
		opts.Actions = cache.NewActionLog(rdb, cfg.Historian.Queue)
	}
	e := engine.New(opts)

	gs := handlers.NewGameServer(e, logger, cfg.CORSOrigins)
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: handlers.NewAPIHandler(gs, handlers.APIOptions{
			CORSOrigins: cfg.CORSOrigins,
			AccessLog:   cfg.AccessLog,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.WithFields(logrus.Fields{"addr": srv.Addr, "store": cfg.Store}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.WithError(err).Error("server exited")
		os.Exit(1)
	}
}
