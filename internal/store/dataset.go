// Package store owns the read-only match dataset and the player registry.
// The dataset is fetched once and treated as immutable for the process
// lifetime; every analysis function operates on the cached copy.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/models"
)

var datasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "dotapit_dataset_load_duration_seconds",
	Help:    "Duration of the one-time match dataset load",
	Buckets: prometheus.DefBuckets,
})

// Source fetches the raw dataset from wherever it lives (export file,
// ClickHouse archive).
type Source interface {
	Fetch(ctx context.Context) (*models.MatchExport, error)
}

// Dataset is the loaded, indexed form of the export. Lookup maps are keyed
// by normalized (trimmed, lowercased) names.
type Dataset struct {
	Matches []models.MatchRecord
	Players []models.PlayerStatRow
	Heroes  []models.HeroStatRow

	playersByName map[string]*models.PlayerStatRow
	heroesByName  map[string]*models.HeroStatRow
}

// NormalizeName is the single normalization used by every name lookup:
// trim surrounding whitespace and lowercase. Player names in the fixture
// data contain dots and apostrophes; those are preserved.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PlayerRow returns the precomputed aggregate row for a player name,
// case-insensitively, or nil.
func (d *Dataset) PlayerRow(name string) *models.PlayerStatRow {
	return d.playersByName[NormalizeName(name)]
}

// HeroRow returns the precomputed aggregate row for a hero name,
// case-insensitively, or nil.
func (d *Dataset) HeroRow(name string) *models.HeroStatRow {
	return d.heroesByName[NormalizeName(name)]
}

// PlayerMatches returns this player's rows in dataset (chronological) order.
func (d *Dataset) PlayerMatches(name string) []models.MatchRecord {
	key := NormalizeName(name)
	var out []models.MatchRecord
	for _, m := range d.Matches {
		if NormalizeName(m.PlayerName) == key {
			out = append(out, m)
		}
	}
	return out
}

// HeroMatches returns all rows where the given hero was played.
func (d *Dataset) HeroMatches(name string) []models.MatchRecord {
	key := NormalizeName(name)
	var out []models.MatchRecord
	for _, m := range d.Matches {
		if NormalizeName(m.HeroName) == key {
			out = append(out, m)
		}
	}
	return out
}

func index(export *models.MatchExport) *Dataset {
	ds := &Dataset{
		Matches:       export.Matches,
		Players:       export.PlayerStatistics,
		Heroes:        export.HeroStatistics,
		playersByName: make(map[string]*models.PlayerStatRow, len(export.PlayerStatistics)),
		heroesByName:  make(map[string]*models.HeroStatRow, len(export.HeroStatistics)),
	}
	for i := range ds.Players {
		ds.playersByName[NormalizeName(ds.Players[i].PlayerName)] = &ds.Players[i]
	}
	for i := range ds.Heroes {
		ds.heroesByName[NormalizeName(ds.Heroes[i].HeroName)] = &ds.Heroes[i]
	}
	return ds
}

// Store memoizes the dataset load. Load is safe for concurrent use; after
// the first successful fetch every call returns the same *Dataset without
// refetching. A failed fetch is not cached, so a later call can retry.
type Store struct {
	source Source
	logger *zap.SugaredLogger

	mu     sync.Mutex
	loaded bool
	ds     *Dataset
}

func NewStore(source Source, logger *zap.Logger) *Store {
	return &Store{source: source, logger: logger.Sugar()}
}

// Load fetches and indexes the dataset on first call, then serves the
// cached copy.
func (s *Store) Load(ctx context.Context) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.ds, nil
	}

	start := time.Now()
	export, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Errorw("Dataset load failed", "error", err)
		return nil, err
	}
	datasetLoadDuration.Observe(time.Since(start).Seconds())

	s.ds = index(export)
	s.loaded = true

	s.logger.Infow("Dataset loaded",
		"matches", len(s.ds.Matches),
		"players", len(s.ds.Players),
		"heroes", len(s.ds.Heroes),
		"duration", time.Since(start),
	)
	return s.ds, nil
}
