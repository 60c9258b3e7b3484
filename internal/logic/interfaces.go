package logic

import (
	"context"

	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

// DatasetProvider hands out the cached match dataset. Satisfied by
// *store.Store; tests substitute a fixture-backed provider.
type DatasetProvider interface {
	Load(ctx context.Context) (*store.Dataset, error)
}

// AnalysisService answers every ranking and insight query over the match
// dataset. All methods are pure reads over the cached dataset and are safe
// for concurrent use.
type AnalysisService interface {
	AnalyzePlayer(ctx context.Context, name string) (*models.PlayerAnalysis, error)
	AnalyzeHero(ctx context.Context, name string) (*models.HeroAnalysis, error)
	ItemTimings(ctx context.Context, heroName string) ([]models.ItemTiming, error)
	CounterPicks(ctx context.Context, heroName string) (*models.CounterPicks, error)
	BestTeammates(ctx context.Context, name string) ([]models.Relationship, error)
	WorstTeammates(ctx context.Context, name string) ([]models.Relationship, error)
	BestMatchups(ctx context.Context, name string) ([]models.Relationship, error)
	WorstMatchups(ctx context.Context, name string) ([]models.Relationship, error)
	Meta(ctx context.Context) (*models.MetaReport, error)
	Leaderboard(ctx context.Context, stat string, minGames int) ([]models.LeaderboardEntry, error)
	Compare(ctx context.Context, first, second string) (*models.Comparison, error)
}

// DraftService turns ten player names into five independently balanced
// team partitions.
type DraftService interface {
	GenerateDrafts(ctx context.Context, players []string) (*models.DraftBatch, error)
}
