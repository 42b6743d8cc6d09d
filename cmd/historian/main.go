// cmd/historian/main.go is an asynchronous historian service that pops action records from a Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("could not load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("historian needs UNO_DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("could not connect to postgres")
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.WithError(err).Fatal("could not create schema")
	}

	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		logger.WithError(err).Fatal("could not connect to redis")
	}
	defer rdb.Close()

	svc := historian.New(
		cache.NewActionLog(rdb, cfg.Historian.Queue),
		historian.PostgresSink{Pool: pool},
		historian.Options{
			BatchSize:  cfg.Historian.BatchSize,
			FlushDelay: cfg.Historian.Flush,
			Inactivity: cfg.Historian.Inactivity,
			Logger:     logger,
		},
	)
	if err := svc.Run(ctx); err != nil {
		logger.WithError(err).Error("historian exited")
		os.Exit(1)
	}
	logger.Info("Historian shutdown complete.")
}
