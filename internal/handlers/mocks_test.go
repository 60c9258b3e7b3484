package handlers

import (
	"context"

	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

// mockAnalysis implements logic.AnalysisService with overridable funcs.
type mockAnalysis struct {
	AnalyzePlayerFunc func(ctx context.Context, name string) (*models.PlayerAnalysis, error)
	AnalyzeHeroFunc   func(ctx context.Context, name string) (*models.HeroAnalysis, error)
	ItemTimingsFunc   func(ctx context.Context, heroName string) ([]models.ItemTiming, error)
	CounterPicksFunc  func(ctx context.Context, heroName string) (*models.CounterPicks, error)
	LeaderboardFunc   func(ctx context.Context, stat string, minGames int) ([]models.LeaderboardEntry, error)
	CompareFunc       func(ctx context.Context, first, second string) (*models.Comparison, error)
	MetaFunc          func(ctx context.Context) (*models.MetaReport, error)
}

func (m *mockAnalysis) AnalyzePlayer(ctx context.Context, name string) (*models.PlayerAnalysis, error) {
	if m.AnalyzePlayerFunc != nil {
		return m.AnalyzePlayerFunc(ctx, name)
	}
	return &models.PlayerAnalysis{PlayerName: name}, nil
}

func (m *mockAnalysis) AnalyzeHero(ctx context.Context, name string) (*models.HeroAnalysis, error) {
	if m.AnalyzeHeroFunc != nil {
		return m.AnalyzeHeroFunc(ctx, name)
	}
	return &models.HeroAnalysis{HeroName: name}, nil
}

func (m *mockAnalysis) ItemTimings(ctx context.Context, heroName string) ([]models.ItemTiming, error) {
	if m.ItemTimingsFunc != nil {
		return m.ItemTimingsFunc(ctx, heroName)
	}
	return nil, nil
}

func (m *mockAnalysis) CounterPicks(ctx context.Context, heroName string) (*models.CounterPicks, error) {
	if m.CounterPicksFunc != nil {
		return m.CounterPicksFunc(ctx, heroName)
	}
	return &models.CounterPicks{HeroName: heroName}, nil
}

func (m *mockAnalysis) BestTeammates(ctx context.Context, name string) ([]models.Relationship, error) {
	return nil, nil
}

func (m *mockAnalysis) WorstTeammates(ctx context.Context, name string) ([]models.Relationship, error) {
	return nil, nil
}

func (m *mockAnalysis) BestMatchups(ctx context.Context, name string) ([]models.Relationship, error) {
	return nil, nil
}

func (m *mockAnalysis) WorstMatchups(ctx context.Context, name string) ([]models.Relationship, error) {
	return nil, nil
}

func (m *mockAnalysis) Meta(ctx context.Context) (*models.MetaReport, error) {
	if m.MetaFunc != nil {
		return m.MetaFunc(ctx)
	}
	return &models.MetaReport{}, nil
}

func (m *mockAnalysis) Leaderboard(ctx context.Context, stat string, minGames int) ([]models.LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx, stat, minGames)
	}
	return nil, nil
}

func (m *mockAnalysis) Compare(ctx context.Context, first, second string) (*models.Comparison, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, first, second)
	}
	return &models.Comparison{Winners: map[string]string{}}, nil
}

// mockDraft implements logic.DraftService.
type mockDraft struct {
	GenerateDraftsFunc func(ctx context.Context, players []string) (*models.DraftBatch, error)
}

func (m *mockDraft) GenerateDrafts(ctx context.Context, players []string) (*models.DraftBatch, error) {
	if m.GenerateDraftsFunc != nil {
		return m.GenerateDraftsFunc(ctx, players)
	}
	return &models.DraftBatch{}, nil
}

// mockDataset implements logic.DatasetProvider.
type mockDataset struct {
	err error
}

func (m *mockDataset) Load(ctx context.Context) (*store.Dataset, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &store.Dataset{}, nil
}
