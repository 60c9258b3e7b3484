// Package worker implements the buffered worker pool that archives match
// rows into ClickHouse. It decouples the importer's read loop from database
// writes, batching inserts and guaranteeing a final flush on shutdown.

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/models"
)

// Prometheus metrics
var (
	rowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotapit_rows_ingested_total",
		Help: "Total number of match rows accepted for archiving",
	})

	rowsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotapit_rows_archived_total",
		Help: "Total number of match rows written to ClickHouse",
	})

	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotapit_rows_failed_total",
		Help: "Total number of match rows that failed archiving",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dotapit_worker_queue_depth",
		Help: "Current depth of the archive queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dotapit_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// Job is one match row queued for archiving.
type Job struct {
	Row        models.MatchRecord
	ReceivedAt time.Time
}

// PoolConfig configures the archive pool.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Pool batches match rows and writes them to the ClickHouse archive.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates an archive pool with sane defaults for unset knobs.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Archive pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop drains the queue, flushes pending batches and waits for the workers.
func (p *Pool) Stop() {
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Archive pool stopped")
}

// Enqueue queues a row for archiving. Returns false when the pool is
// shutting down.
func (p *Pool) Enqueue(row models.MatchRecord) bool {
	job := Job{Row: row, ReceivedAt: time.Now()}

	// Protect against sending on a closed channel during shutdown.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue row (pool stopped)", "game", row.GameID)
		}
	}()

	select {
	case p.jobQueue <- job:
		rowsIngested.Inc()
		return true
	case <-p.ctx.Done():
		return false
	}
}

// QueueDepth returns the current queue size.
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.insertBatch(batch); err != nil {
			p.logger.Errorw("Batch insert failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			rowsFailed.Add(float64(len(batch)))
		} else {
			rowsArchived.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			// Drain whatever made it into the queue before the cancel.
			for {
				select {
				case job, ok := <-p.jobQueue:
					if !ok {
						flush()
						return
					}
					batch = append(batch, job)
					if len(batch) >= p.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (p *Pool) insertBatch(batch []Job) error {
	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO dotapit.match_rows (
			ingested_at, game_id, player_name, hero_name, team, result,
			kills, deaths, assists, gpm, xpm, net_worth,
			item_1, item_1_time, item_2, item_2_time, item_3, item_3_time,
			item_4, item_4_time, item_5, item_5_time, item_6, item_6_time,
			position
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		row := job.Row
		if err := chBatch.Append(
			job.ReceivedAt,
			row.GameID, row.PlayerName, row.HeroName, row.Team, row.Result,
			int32(row.Kills), int32(row.Deaths), int32(row.Assists),
			int32(row.GPM), int32(row.XPM), int32(row.NetWorth),
			row.Item1, row.Item1Time, row.Item2, row.Item2Time,
			row.Item3, row.Item3Time, row.Item4, row.Item4Time,
			row.Item5, row.Item5Time, row.Item6, row.Item6Time,
			int32(row.Position),
		); err != nil {
			return err
		}
	}

	return chBatch.Send()
}
