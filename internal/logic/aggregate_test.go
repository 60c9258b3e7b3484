package logic

import (
	"math"
	"testing"

	"github.com/dotapit/stats-api/internal/models"
)

func TestKDA(t *testing.T) {
	tests := []struct {
		name     string
		kills    int
		deaths   int
		assists  int
		expected float64
	}{
		{"Normal Game", 10, 5, 5, 3.0},
		{"Deathless Game", 10, 0, 6, 16.0},
		{"Zero Everything", 0, 0, 0, 0.0},
		{"Feeding Game", 1, 12, 2, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kda(tt.kills, tt.deaths, tt.assists)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("kda(%d,%d,%d) = %v, want %v", tt.kills, tt.deaths, tt.assists, got, tt.expected)
			}
		})
	}
}

func TestHeroPool(t *testing.T) {
	matches := []models.MatchRecord{
		row("g1", "Alice", "Axe", models.TeamRadiant, models.ResultWin, 5, 2, 8),
		row("g2", "Alice", "Lina", models.TeamDire, models.ResultLoss, 3, 6, 4),
		row("g3", "Alice", "Axe", models.TeamRadiant, models.ResultLoss, 2, 7, 3),
		row("g4", "Alice", "axe", models.TeamDire, models.ResultWin, 9, 1, 6),
	}

	pool := heroPool(matches)
	if len(pool) != 2 {
		t.Fatalf("expected 2 pool entries, got %d", len(pool))
	}

	// Axe groups case-insensitively and sorts first on games played.
	if pool[0].HeroName != "Axe" || pool[0].Games != 3 || pool[0].Wins != 2 {
		t.Errorf("unexpected top entry: %+v", pool[0])
	}
	if math.Abs(pool[0].WinRate-200.0/3) > 0.01 {
		t.Errorf("unexpected win rate: %v", pool[0].WinRate)
	}
	if pool[1].HeroName != "Lina" || pool[1].Games != 1 {
		t.Errorf("unexpected second entry: %+v", pool[1])
	}
}

func TestHeroPoolTieBreaksOnName(t *testing.T) {
	matches := []models.MatchRecord{
		row("g1", "Alice", "Zeus", models.TeamRadiant, models.ResultWin, 5, 2, 8),
		row("g2", "Alice", "Axe", models.TeamRadiant, models.ResultWin, 5, 2, 8),
	}

	pool := heroPool(matches)
	if pool[0].HeroName != "Axe" || pool[1].HeroName != "Zeus" {
		t.Errorf("expected name tie-break, got %v then %v", pool[0].HeroName, pool[1].HeroName)
	}
}

func TestBestPerformers(t *testing.T) {
	pool := []models.HeroPoolEntry{
		{HeroName: "Axe", Games: 5, Wins: 4, WinRate: 80},
		{HeroName: "Lina", Games: 2, Wins: 2, WinRate: 100}, // too few games
		{HeroName: "Zeus", Games: 10, Wins: 5, WinRate: 50}, // below 60%
		{HeroName: "Sniper", Games: 3, Wins: 2, WinRate: 66.7},
		{HeroName: "Pudge", Games: 4, Wins: 3, WinRate: 75},
		{HeroName: "Io", Games: 6, Wins: 4, WinRate: 66.7},
	}

	best := bestPerformers(pool)
	if len(best) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(best))
	}
	if best[0].HeroName != "Axe" {
		t.Errorf("expected Axe first, got %s", best[0].HeroName)
	}
	// Io and Sniper tie at 66.7, name ascending.
	if best[1].HeroName != "Pudge" || best[2].HeroName != "Io" {
		t.Errorf("unexpected order: %v, %v", best[1].HeroName, best[2].HeroName)
	}
}

func TestFinishRelationships(t *testing.T) {
	accs := []*relAccumulator{
		{name: "Bob", games: 4, wins: 3, kdaSum: 12},
		{name: "Cara", games: 2, wins: 2, kdaSum: 8}, // below sample floor
		{name: "Dan", games: 5, wins: 1, kdaSum: 5},
	}

	best := finishRelationships(accs, true)
	if len(best) != 2 {
		t.Fatalf("expected 2 relationships, got %d", len(best))
	}
	if best[0].PlayerName != "Bob" || best[1].PlayerName != "Dan" {
		t.Errorf("unexpected best order: %v, %v", best[0].PlayerName, best[1].PlayerName)
	}
	if math.Abs(best[0].AvgKDA-3.0) > 1e-9 {
		t.Errorf("unexpected avg KDA: %v", best[0].AvgKDA)
	}

	worst := finishRelationships(accs, false)
	if worst[0].PlayerName != "Dan" {
		t.Errorf("expected Dan first when ranking worst, got %v", worst[0].PlayerName)
	}
}
