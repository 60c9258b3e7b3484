// The importer loads a match export into the backing stores: player names
// are upserted into the Postgres registry and every match row is archived
// to ClickHouse through the batching pool. Run it whenever a fresh export
// lands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/config"
	"github.com/dotapit/stats-api/internal/store"
	"github.com/dotapit/stats-api/internal/worker"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "", "path to the match export JSON (defaults to DATASET_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if file == "" {
		file = cfg.DatasetPath
	}
	if cfg.ClickHouseURL == "" {
		fmt.Fprintln(os.Stderr, "CLICKHOUSE_URL is required for the importer")
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	runID := uuid.New()
	sugar.Infow("Import starting", "run", runID, "file", file)

	ctx := context.Background()

	source := &store.FileSource{Path: file}
	export, err := source.Fetch(ctx)
	if err != nil {
		sugar.Fatalw("Export read failed", "run", runID, "error", err)
	}
	sugar.Infow("Export loaded",
		"run", runID,
		"matches", len(export.Matches),
		"players", len(export.PlayerStatistics),
		"heroes", len(export.HeroStatistics),
	)

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Postgres connection failed", "run", runID, "error", err)
	}
	defer pg.Close()

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("Invalid ClickHouse URL", "run", runID, "error", err)
	}
	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("ClickHouse connection failed", "run", runID, "error", err)
	}
	defer conn.Close()

	// Seed the registry with any player names the export knows that the
	// registry does not. MMR and role stay at their defaults until an admin
	// fills them in.
	seeded := 0
	for _, row := range export.PlayerStatistics {
		tag, err := pg.Exec(ctx, `
			INSERT INTO players (name, mmr, role)
			VALUES ($1, 2000, 'flex')
			ON CONFLICT (name) DO NOTHING
		`, row.PlayerName)
		if err != nil {
			sugar.Errorw("Registry upsert failed", "run", runID, "player", row.PlayerName, "error", err)
			continue
		}
		seeded += int(tag.RowsAffected())
	}
	sugar.Infow("Registry seeded", "run", runID, "newPlayers", seeded)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    conn,
		Logger:        logger,
	})
	pool.Start(ctx)

	enqueued := 0
	for _, row := range export.Matches {
		if pool.Enqueue(row) {
			enqueued++
		}
	}

	// Give the pool a flush cycle before stopping so the tail batch lands.
	time.Sleep(cfg.FlushInterval)
	pool.Stop()

	sugar.Infow("Import finished", "run", runID, "archived", enqueued)
}
