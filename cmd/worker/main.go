package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/feirinha-app/feirinha-backend/internal/catalog"
	"github.com/feirinha-app/feirinha-backend/internal/classifier"
	"github.com/feirinha-app/feirinha-backend/internal/lists"
	"github.com/feirinha-app/feirinha-backend/internal/pricing"
	"github.com/feirinha-app/feirinha-backend/internal/stores"
	"github.com/feirinha-app/feirinha-backend/pkg/config"
	"github.com/feirinha-app/feirinha-backend/pkg/db"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	ruleRepo := classifier.NewRepository(conn)
	storeRepo := stores.NewRepository(conn)
	priceRepo := pricing.NewRepository(conn)
	listRepo := lists.NewRepository(conn)

	resolver, err := catalog.NewResolver(catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create resolver", err)
		os.Exit(1)
	}
	productClassifier, err := classifier.NewClassifier(ruleRepo, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create classifier", err)
		os.Exit(1)
	}

	listMetrics := metrics.NewListMetrics(prometheus.DefaultRegisterer)
	processor, err := lists.NewProcessor(listRepo, resolver, productClassifier, storeRepo, priceRepo, logg, listMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create processor", err)
		os.Exit(1)
	}
	worker, err := lists.NewWorker(listRepo, processor, cfg.Worker, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting list worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "list worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "list worker shutting down gracefully")
}
