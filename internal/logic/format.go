package logic

import (
	"fmt"
	"strings"

	"github.com/dotapit/stats-api/internal/models"
)

// Text renderers for the chat-style consumers (the community bot posts
// these blocks verbatim). Structure is stable contract; wording is not.

func FormatPlayerAnalysis(a *models.PlayerAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n", a.PlayerName)
	fmt.Fprintf(&b, "Games: %d | Wins: %d (%.1f%%)\n", a.GamesPlayed, a.Wins, a.WinRate)
	fmt.Fprintf(&b, "KDA: %.2f | GPM: %.0f | XPM: %.0f\n", a.KDARatio, a.AvgGPM, a.AvgXPM)
	if a.MostPlayedHero != "" {
		fmt.Fprintf(&b, "Signature hero: %s\n", a.MostPlayedHero)
	}
	if a.RecentGames > 0 {
		fmt.Fprintf(&b, "Recent form (%d games): %.1f%% wins, %.2f KDA\n",
			a.RecentGames, a.RecentWinRate, a.RecentKDA)
	}
	if len(a.BestHeroes) > 0 {
		b.WriteString("Best heroes:\n")
		for _, h := range a.BestHeroes {
			fmt.Fprintf(&b, "  %s — %d games, %.1f%% wins\n", h.HeroName, h.Games, h.WinRate)
		}
	}
	return b.String()
}

func FormatHeroAnalysis(a *models.HeroAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚔️ %s\n", a.HeroName)
	fmt.Fprintf(&b, "Picked %d times | %.1f%% win rate\n", a.TimesPicked, a.WinRate)
	fmt.Fprintf(&b, "Avg %.1f/%.1f/%.1f | GPM %.0f | XPM %.0f\n",
		a.AvgKills, a.AvgDeaths, a.AvgAssists, a.AvgGPM, a.AvgXPM)
	if len(a.BestPlayers) > 0 {
		b.WriteString("Best players:\n")
		for _, p := range a.BestPlayers {
			fmt.Fprintf(&b, "  %s — %.1f%% over %d games (%.2f KDA)\n",
				p.PlayerName, p.WinRate, p.Games, p.AvgKDA)
		}
	}
	if len(a.PopularItems) > 0 {
		b.WriteString("Popular items:\n")
		for _, it := range a.PopularItems {
			fmt.Fprintf(&b, "  %s — %.0f%% of games\n", it.Item, it.PickRate)
		}
	}
	return b.String()
}

func FormatCounterPicks(c *models.CounterPicks) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛡️ Counters for %s\n", c.HeroName)
	if len(c.HardCounters) == 0 && len(c.SoftCounters) == 0 {
		b.WriteString("Not enough games against this hero yet.\n")
		return b.String()
	}
	if len(c.HardCounters) > 0 {
		b.WriteString("Hard counters:\n")
		for _, e := range c.HardCounters {
			fmt.Fprintf(&b, "  %s — wins %.1f%% of %d games\n", e.HeroName, e.WinRate, e.GamesAgainst)
		}
	}
	if len(c.SoftCounters) > 0 {
		b.WriteString("Soft counters:\n")
		for _, e := range c.SoftCounters {
			fmt.Fprintf(&b, "  %s — wins %.1f%% of %d games\n", e.HeroName, e.WinRate, e.GamesAgainst)
		}
	}
	return b.String()
}

func FormatItemTimings(hero string, timings []models.ItemTiming) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏱️ Item timings on %s\n", hero)
	if len(timings) == 0 {
		b.WriteString("No items with enough timed samples.\n")
		return b.String()
	}
	for _, t := range timings {
		fmt.Fprintf(&b, "  %s — avg %s (%d samples)\n", t.Item, t.AvgTiming, t.Samples)
	}
	return b.String()
}

func FormatMeta(m *models.MetaReport) string {
	var b strings.Builder
	b.WriteString("🔥 Current meta\n")
	if len(m.TopWinRate) > 0 {
		b.WriteString("Highest win rates (10+ picks):\n")
		for _, h := range m.TopWinRate {
			fmt.Fprintf(&b, "  %s — %.1f%% over %d picks\n", h.HeroName, h.WinRate, h.TimesPicked)
		}
	}
	if len(m.MostPicked) > 0 {
		b.WriteString("Most picked:\n")
		for _, h := range m.MostPicked {
			fmt.Fprintf(&b, "  %s — %d picks\n", h.HeroName, h.TimesPicked)
		}
	}
	return b.String()
}

func FormatLeaderboard(stat string, entries []models.LeaderboardEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Leaderboard — %s\n", stat)
	for _, e := range entries {
		fmt.Fprintf(&b, "  %d. %s — %.2f (%d games)\n", e.Rank, e.PlayerName, e.Value, e.GamesPlayed)
	}
	return b.String()
}

func FormatDraftBatch(batch *models.DraftBatch) string {
	var b strings.Builder
	b.WriteString("🎲 Draft options\n")
	for i, plan := range batch.Plans {
		marker := ""
		if plan.Name == "Hybrid" {
			marker = " (recommended)"
		}
		fmt.Fprintf(&b, "%d. %s%s — fairness %.0f\n", i+1, plan.Name, marker, plan.Balance.Fairness)
		fmt.Fprintf(&b, "   Team 1: %s (C), %s\n", plan.Team1.Captain, strings.Join(plan.Team1.Players, ", "))
		fmt.Fprintf(&b, "   Team 2: %s (C), %s\n", plan.Team2.Captain, strings.Join(plan.Team2.Players, ", "))
	}
	return b.String()
}
