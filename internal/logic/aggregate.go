package logic

import (
	"sort"

	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

// minSampleGames is the minimum shared/played games before an entity may
// appear in any ranked output. Below this, small-sample noise dominates.
const minSampleGames = 3

// kda computes (kills+assists)/max(deaths,1). The deaths guard is a fixed
// contract: a deathless game scores kills+assists, never Infinity.
func kda(kills, deaths, assists int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	return float64(kills+assists) / float64(deaths)
}

// heroPool groups a player's rows by hero, preserving first-seen order
// before sorting by games descending (name ascending on ties, so output is
// deterministic).
func heroPool(matches []models.MatchRecord) []models.HeroPoolEntry {
	idx := make(map[string]int)
	var pool []models.HeroPoolEntry
	for _, m := range matches {
		key := store.NormalizeName(m.HeroName)
		i, ok := idx[key]
		if !ok {
			i = len(pool)
			idx[key] = i
			pool = append(pool, models.HeroPoolEntry{HeroName: m.HeroName})
		}
		pool[i].Games++
		if m.Won() {
			pool[i].Wins++
		}
	}
	for i := range pool {
		pool[i].WinRate = float64(pool[i].Wins) / float64(pool[i].Games) * 100
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Games != pool[j].Games {
			return pool[i].Games > pool[j].Games
		}
		return pool[i].HeroName < pool[j].HeroName
	})
	return pool
}

// bestPerformers filters a hero pool to entries with at least minSampleGames
// games and a 60%+ win rate, best first, capped at 3.
func bestPerformers(pool []models.HeroPoolEntry) []models.HeroPoolEntry {
	var best []models.HeroPoolEntry
	for _, e := range pool {
		if e.Games >= minSampleGames && e.WinRate >= 60 {
			best = append(best, e)
		}
	}
	sort.SliceStable(best, func(i, j int) bool {
		if best[i].WinRate != best[j].WinRate {
			return best[i].WinRate > best[j].WinRate
		}
		return best[i].HeroName < best[j].HeroName
	})
	if len(best) > 3 {
		best = best[:3]
	}
	return best
}

// relAccumulator collects per-partner totals while scanning shared games.
type relAccumulator struct {
	name   string
	games  int
	wins   int
	kdaSum float64
}

// finishRelationships converts accumulators into ranked Relationship
// slices: minimum sample filter, win rate, average KDA, then sort by win
// rate (descending when best, ascending when worst) capped at 5.
func finishRelationships(accs []*relAccumulator, best bool) []models.Relationship {
	var out []models.Relationship
	for _, a := range accs {
		if a.games < minSampleGames {
			continue
		}
		out = append(out, models.Relationship{
			PlayerName: a.name,
			Games:      a.games,
			Wins:       a.wins,
			WinRate:    float64(a.wins) / float64(a.games) * 100,
			AvgKDA:     a.kdaSum / float64(a.games),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			if best {
				return out[i].WinRate > out[j].WinRate
			}
			return out[i].WinRate < out[j].WinRate
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// gameIndex maps game_id to every row of that game, for same-game scans.
func gameIndex(matches []models.MatchRecord) map[string][]models.MatchRecord {
	byGame := make(map[string][]models.MatchRecord)
	for _, m := range matches {
		byGame[m.GameID] = append(byGame[m.GameID], m)
	}
	return byGame
}
