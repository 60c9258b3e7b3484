package logic

import (
	"context"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

var analysisQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dotapit_analysis_queries_total",
	Help: "Analysis queries served, by kind",
}, []string{"kind"})

// recentFormWindow is how many trailing rows count as "recent form".
const recentFormWindow = 10

// Leaderboard defaults.
const (
	leaderboardMinGames = 10
	leaderboardSize     = 10
	metaMinPicks        = 10
)

type analysisService struct {
	data   DatasetProvider
	logger *zap.SugaredLogger
}

func NewAnalysisService(data DatasetProvider, logger *zap.Logger) AnalysisService {
	return &analysisService{data: data, logger: logger.Sugar()}
}

func (s *analysisService) dataset(ctx context.Context) (*store.Dataset, error) {
	ds, err := s.data.Load(ctx)
	if err != nil {
		s.logger.Warnw("Dataset unavailable", "error", err)
		return nil, ErrDatasetUnavailable
	}
	return ds, nil
}

// AnalyzePlayer builds the per-player report: precomputed aggregate row,
// recent form over the last 10 rows, and the hero pool.
func (s *analysisService) AnalyzePlayer(ctx context.Context, name string) (*models.PlayerAnalysis, error) {
	analysisQueries.WithLabelValues("player").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	row := ds.PlayerRow(name)
	if row == nil {
		// Callers retry unknown player names as hero lookups, so this must
		// stay a plain not-found, never a failure.
		return nil, ErrNotFound
	}

	out := &models.PlayerAnalysis{
		PlayerName:     row.PlayerName,
		GamesPlayed:    row.GamesPlayed,
		Wins:           row.Wins,
		WinRate:        row.WinRate,
		KDARatio:       row.KDARatio,
		AvgGPM:         row.AvgGPM,
		AvgXPM:         row.AvgXPM,
		MostPlayedHero: row.MostPlayedHero,
	}

	matches := ds.PlayerMatches(row.PlayerName)
	recent := matches
	if len(recent) > recentFormWindow {
		recent = recent[len(recent)-recentFormWindow:]
	}
	if len(recent) > 0 {
		wins := 0
		kdaSum := 0.0
		for _, m := range recent {
			if m.Won() {
				wins++
			}
			kdaSum += kda(m.Kills, m.Deaths, m.Assists)
		}
		out.RecentGames = len(recent)
		out.RecentWinRate = float64(wins) / float64(len(recent)) * 100
		out.RecentKDA = kdaSum / float64(len(recent))
	}

	pool := heroPool(matches)
	out.TopHeroes = pool
	out.BestHeroes = bestPerformers(pool)

	return out, nil
}

// AnalyzeHero builds the per-hero report: aggregate row, best players on
// the hero, and the popular item builds.
func (s *analysisService) AnalyzeHero(ctx context.Context, name string) (*models.HeroAnalysis, error) {
	analysisQueries.WithLabelValues("hero").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	row := ds.HeroRow(name)
	if row == nil {
		return nil, ErrNotFound
	}

	out := &models.HeroAnalysis{
		HeroName:    row.HeroName,
		TimesPicked: row.TimesPicked,
		WinRate:     row.WinRate,
		AvgKills:    row.AvgKills,
		AvgDeaths:   row.AvgDeaths,
		AvgAssists:  row.AvgAssists,
		AvgGPM:      row.AvgGPM,
		AvgXPM:      row.AvgXPM,
	}

	matches := ds.HeroMatches(row.HeroName)

	// Best players: >=3 games on the hero, ranked by win rate.
	type acc struct {
		entry  models.HeroPlayerEntry
		kdaSum float64
	}
	byPlayer := make(map[string]*acc)
	var order []string
	for _, m := range matches {
		key := store.NormalizeName(m.PlayerName)
		a, ok := byPlayer[key]
		if !ok {
			a = &acc{entry: models.HeroPlayerEntry{PlayerName: m.PlayerName}}
			byPlayer[key] = a
			order = append(order, key)
		}
		a.entry.Games++
		if m.Won() {
			a.entry.Wins++
		}
		a.kdaSum += kda(m.Kills, m.Deaths, m.Assists)
	}
	for _, key := range order {
		a := byPlayer[key]
		if a.entry.Games < minSampleGames {
			continue
		}
		a.entry.WinRate = float64(a.entry.Wins) / float64(a.entry.Games) * 100
		a.entry.AvgKDA = a.kdaSum / float64(a.entry.Games)
		out.BestPlayers = append(out.BestPlayers, a.entry)
	}
	sort.SliceStable(out.BestPlayers, func(i, j int) bool {
		if out.BestPlayers[i].WinRate != out.BestPlayers[j].WinRate {
			return out.BestPlayers[i].WinRate > out.BestPlayers[j].WinRate
		}
		return out.BestPlayers[i].PlayerName < out.BestPlayers[j].PlayerName
	})
	if len(out.BestPlayers) > 3 {
		out.BestPlayers = out.BestPlayers[:3]
	}

	// Popular items: every filled slot across every match with this hero.
	counts := make(map[string]int)
	var itemOrder []string
	for _, m := range matches {
		for _, slot := range m.Items() {
			if slot.Item == "" || slot.Item == models.NoItem {
				continue
			}
			if _, ok := counts[slot.Item]; !ok {
				itemOrder = append(itemOrder, slot.Item)
			}
			counts[slot.Item]++
		}
	}
	for _, item := range itemOrder {
		out.PopularItems = append(out.PopularItems, models.ItemPick{
			Item:     item,
			Count:    counts[item],
			PickRate: float64(counts[item]) / float64(len(matches)) * 100,
		})
	}
	sort.SliceStable(out.PopularItems, func(i, j int) bool {
		if out.PopularItems[i].Count != out.PopularItems[j].Count {
			return out.PopularItems[i].Count > out.PopularItems[j].Count
		}
		return out.PopularItems[i].Item < out.PopularItems[j].Item
	})
	if len(out.PopularItems) > 6 {
		out.PopularItems = out.PopularItems[:6]
	}

	return out, nil
}

// CounterPicks scans every game featuring the target hero for opposing-team
// rows and ranks the enemies by how often the target lost to them.
func (s *analysisService) CounterPicks(ctx context.Context, heroName string) (*models.CounterPicks, error) {
	analysisQueries.WithLabelValues("counters").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	row := ds.HeroRow(heroName)
	if row == nil {
		return nil, ErrNotFound
	}

	heroKey := store.NormalizeName(row.HeroName)
	byGame := gameIndex(ds.Matches)

	type acc struct {
		entry  models.CounterEntry
		kdaSum float64
	}
	enemies := make(map[string]*acc)
	var order []string

	for _, target := range ds.HeroMatches(row.HeroName) {
		for _, enemy := range byGame[target.GameID] {
			if enemy.Team == target.Team {
				continue
			}
			// Mirror matches never count a hero as its own counter.
			if store.NormalizeName(enemy.HeroName) == heroKey {
				continue
			}
			key := store.NormalizeName(enemy.HeroName)
			a, ok := enemies[key]
			if !ok {
				a = &acc{entry: models.CounterEntry{HeroName: enemy.HeroName}}
				enemies[key] = a
				order = append(order, key)
			}
			a.entry.GamesAgainst++
			if !target.Won() {
				// The enemy's team won, so this counts for the enemy.
				a.entry.WinsAgainst++
			}
			// Track the enemy hero's own performance, not the target's.
			a.kdaSum += kda(enemy.Kills, enemy.Deaths, enemy.Assists)
		}
	}

	out := &models.CounterPicks{HeroName: row.HeroName}
	for _, key := range order {
		a := enemies[key]
		if a.entry.GamesAgainst < minSampleGames {
			continue
		}
		a.entry.WinRate = float64(a.entry.WinsAgainst) / float64(a.entry.GamesAgainst) * 100
		a.entry.AvgKDA = a.kdaSum / float64(a.entry.GamesAgainst)
		out.AllCounters = append(out.AllCounters, a.entry)
	}
	sort.SliceStable(out.AllCounters, func(i, j int) bool {
		if out.AllCounters[i].WinRate != out.AllCounters[j].WinRate {
			return out.AllCounters[i].WinRate > out.AllCounters[j].WinRate
		}
		return out.AllCounters[i].HeroName < out.AllCounters[j].HeroName
	})

	for _, e := range out.AllCounters {
		switch {
		case e.WinRate >= 60:
			if len(out.HardCounters) < 5 {
				out.HardCounters = append(out.HardCounters, e)
			}
		case e.WinRate >= 50:
			if len(out.SoftCounters) < 5 {
				out.SoftCounters = append(out.SoftCounters, e)
			}
		}
	}

	return out, nil
}

func (s *analysisService) BestTeammates(ctx context.Context, name string) ([]models.Relationship, error) {
	analysisQueries.WithLabelValues("teammates").Inc()
	return s.relationships(ctx, name, true, true)
}

func (s *analysisService) WorstTeammates(ctx context.Context, name string) ([]models.Relationship, error) {
	analysisQueries.WithLabelValues("teammates").Inc()
	return s.relationships(ctx, name, true, false)
}

func (s *analysisService) BestMatchups(ctx context.Context, name string) ([]models.Relationship, error) {
	analysisQueries.WithLabelValues("matchups").Inc()
	return s.relationships(ctx, name, false, true)
}

func (s *analysisService) WorstMatchups(ctx context.Context, name string) ([]models.Relationship, error) {
	analysisQueries.WithLabelValues("matchups").Inc()
	return s.relationships(ctx, name, false, false)
}

// relationships does the shared teammate/opponent scan. sameTeam selects
// teammates vs opponents; best selects the sort direction. For teammates
// the averaged KDA is the partner's, for matchups it is the target
// player's own.
func (s *analysisService) relationships(ctx context.Context, name string, sameTeam, best bool) ([]models.Relationship, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	playerKey := store.NormalizeName(name)
	matches := ds.PlayerMatches(name)
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	if len(matches) < minSampleGames {
		return nil, ErrInsufficientData
	}

	byGame := gameIndex(ds.Matches)
	accs := make(map[string]*relAccumulator)
	var order []*relAccumulator

	for _, own := range matches {
		for _, other := range byGame[own.GameID] {
			otherKey := store.NormalizeName(other.PlayerName)
			if otherKey == playerKey {
				continue
			}
			if sameTeam != (other.Team == own.Team) {
				continue
			}
			a, ok := accs[otherKey]
			if !ok {
				a = &relAccumulator{name: other.PlayerName}
				accs[otherKey] = a
				order = append(order, a)
			}
			a.games++
			if own.Won() {
				a.wins++
			}
			if sameTeam {
				a.kdaSum += kda(other.Kills, other.Deaths, other.Assists)
			} else {
				a.kdaSum += kda(own.Kills, own.Deaths, own.Assists)
			}
		}
	}

	return finishRelationships(order, best), nil
}

// Meta returns two independent views of the hero meta; a hero may appear
// in both.
func (s *analysisService) Meta(ctx context.Context) (*models.MetaReport, error) {
	analysisQueries.WithLabelValues("meta").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.MetaReport{}

	for _, h := range ds.Heroes {
		if h.TimesPicked >= metaMinPicks {
			report.TopWinRate = append(report.TopWinRate, h)
		}
	}
	sort.SliceStable(report.TopWinRate, func(i, j int) bool {
		if report.TopWinRate[i].WinRate != report.TopWinRate[j].WinRate {
			return report.TopWinRate[i].WinRate > report.TopWinRate[j].WinRate
		}
		return report.TopWinRate[i].HeroName < report.TopWinRate[j].HeroName
	})
	if len(report.TopWinRate) > 5 {
		report.TopWinRate = report.TopWinRate[:5]
	}

	report.MostPicked = append(report.MostPicked, ds.Heroes...)
	sort.SliceStable(report.MostPicked, func(i, j int) bool {
		if report.MostPicked[i].TimesPicked != report.MostPicked[j].TimesPicked {
			return report.MostPicked[i].TimesPicked > report.MostPicked[j].TimesPicked
		}
		return report.MostPicked[i].HeroName < report.MostPicked[j].HeroName
	})
	if len(report.MostPicked) > 5 {
		report.MostPicked = report.MostPicked[:5]
	}

	return report, nil
}

// leaderboardStats whitelists sortable stat keys.
var leaderboardStats = map[string]func(*models.PlayerStatRow) float64{
	"winRate": func(p *models.PlayerStatRow) float64 { return p.WinRate },
	"kda":     func(p *models.PlayerStatRow) float64 { return p.KDARatio },
	"gpm":     func(p *models.PlayerStatRow) float64 { return p.AvgGPM },
	"xpm":     func(p *models.PlayerStatRow) float64 { return p.AvgXPM },
}

// Leaderboard ranks players by the requested stat among those with at
// least minGames played. An unknown stat falls back to winRate.
func (s *analysisService) Leaderboard(ctx context.Context, stat string, minGames int) ([]models.LeaderboardEntry, error) {
	analysisQueries.WithLabelValues("leaderboard").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	value, ok := leaderboardStats[stat]
	if !ok {
		stat = "winRate"
		value = leaderboardStats[stat]
	}
	if minGames <= 0 {
		minGames = leaderboardMinGames
	}

	var entries []models.LeaderboardEntry
	for i := range ds.Players {
		p := &ds.Players[i]
		if p.GamesPlayed < minGames {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			PlayerName:  p.PlayerName,
			GamesPlayed: p.GamesPlayed,
			Value:       value(p),
			WinRate:     p.WinRate,
			KDARatio:    p.KDARatio,
			AvgGPM:      p.AvgGPM,
			AvgXPM:      p.AvgXPM,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].PlayerName < entries[j].PlayerName
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Compare returns both precomputed summaries plus a per-metric winner under
// strict greater-than; ties declare no winner.
func (s *analysisService) Compare(ctx context.Context, first, second string) (*models.Comparison, error) {
	analysisQueries.WithLabelValues("compare").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	a := ds.PlayerRow(first)
	b := ds.PlayerRow(second)
	if a == nil || b == nil {
		return nil, ErrNotFound
	}

	cmp := &models.Comparison{First: *a, Second: *b, Winners: make(map[string]string)}
	metrics := []struct {
		key string
		av  float64
		bv  float64
	}{
		{"win_rate", a.WinRate, b.WinRate},
		{"kda", a.KDARatio, b.KDARatio},
		{"gpm", a.AvgGPM, b.AvgGPM},
		{"xpm", a.AvgXPM, b.AvgXPM},
	}
	for _, m := range metrics {
		if m.av > m.bv {
			cmp.Winners[m.key] = a.PlayerName
		} else if m.bv > m.av {
			cmp.Winners[m.key] = b.PlayerName
		}
	}
	return cmp, nil
}
