package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/config"
	"github.com/dotapit/stats-api/internal/handlers"
	"github.com/dotapit/stats-api/internal/logic"
	"github.com/dotapit/stats-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Postgres connection failed", "error", err)
	}
	defer pg.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Dataset source: the ClickHouse archive when configured, the exported
	// JSON file otherwise.
	var source store.Source
	if cfg.ClickHouseURL != "" {
		chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			sugar.Fatalw("Invalid ClickHouse URL", "error", err)
		}
		conn, err := clickhouse.Open(chOpts)
		if err != nil {
			sugar.Fatalw("ClickHouse connection failed", "error", err)
		}
		defer conn.Close()
		source = &store.ClickHouseSource{Conn: conn}
		sugar.Infow("Using ClickHouse dataset source")
	} else {
		source = &store.FileSource{Path: cfg.DatasetPath}
		sugar.Infow("Using file dataset source", "path", cfg.DatasetPath)
	}

	dataset := store.NewStore(source, logger)
	registry := store.NewPostgresRegistry(pg)

	analysis := logic.NewAnalysisService(dataset, logger)
	draft := logic.NewDraftService(dataset, registry, cfg.DraftTrials, nil, logger)

	handler := handlers.New(handlers.Config{
		Redis:          redisClient,
		Logger:         logger,
		CacheTTL:       cfg.CacheTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		Analysis:       analysis,
		Draft:          draft,
		Registry:       registry,
		Dataset:        dataset,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Shutdown failed", "error", err)
	}
	sugar.Info("Server stopped")
}
