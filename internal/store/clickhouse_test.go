package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dotapit/stats-api/internal/testutils"
)

func archiveRow(game, player, hero, team, result string, kills, deaths, assists int32) []interface{} {
	return []interface{}{
		game, player, hero, team, result,
		kills, deaths, assists, int32(500), int32(550), int32(12000),
		"blink", "6:00", "null", "null", "null", "null",
		"null", "null", "null", "null", "null", "null",
		int32(3),
	}
}

func TestClickHouseSourceFetch(t *testing.T) {
	conn := &testutils.MockClickHouseConn{
		RowSets: [][][]interface{}{{
			archiveRow("g1", "Alice", "Axe", "radiant", "win", 8, 2, 6),
			archiveRow("g1", "Bob", "Lina", "dire", "loss", 3, 7, 4),
			archiveRow("g2", "Alice", "Axe", "radiant", "loss", 4, 6, 5),
		}},
	}

	export, err := (&ClickHouseSource{Conn: conn}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(export.Matches) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(export.Matches))
	}
	if export.Matches[0].Kills != 8 || export.Matches[0].Item1 != "blink" {
		t.Errorf("unexpected first row: %+v", export.Matches[0])
	}

	// The source rebuilds the aggregate bundles from raw rows.
	if len(export.PlayerStatistics) != 2 {
		t.Fatalf("expected 2 player aggregates, got %d", len(export.PlayerStatistics))
	}
	alice := export.PlayerStatistics[0]
	if alice.PlayerName != "Alice" || alice.GamesPlayed != 2 || alice.Wins != 1 {
		t.Errorf("unexpected Alice aggregate: %+v", alice)
	}
	if alice.WinRate != 50 || alice.MostPlayedHero != "Axe" {
		t.Errorf("unexpected Alice derived stats: %+v", alice)
	}
	// KDA over both games: (8+6+4+5)/(2+6) = 2.875.
	if alice.KDARatio != 2.875 {
		t.Errorf("unexpected Alice KDA: %v", alice.KDARatio)
	}

	if len(export.HeroStatistics) != 2 {
		t.Fatalf("expected 2 hero aggregates, got %d", len(export.HeroStatistics))
	}
	axe := export.HeroStatistics[0]
	if axe.HeroName != "Axe" || axe.TimesPicked != 2 || axe.WinRate != 50 {
		t.Errorf("unexpected Axe aggregate: %+v", axe)
	}
}

func TestClickHouseSourceRowsError(t *testing.T) {
	// A stream failure after some rows were read must not hand callers a
	// truncated export they would then cache.
	conn := &testutils.MockClickHouseConn{
		RowSets: [][][]interface{}{{
			archiveRow("g1", "Alice", "Axe", "radiant", "win", 8, 2, 6),
		}},
		RowsErr: errors.New("read: connection reset by peer"),
	}

	export, err := (&ClickHouseSource{Conn: conn}).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected iteration error to propagate")
	}
	if export != nil {
		t.Fatalf("expected nil export on iteration error, got %+v", export)
	}
}

func TestClickHouseSourceQueryError(t *testing.T) {
	conn := &testutils.MockClickHouseConn{QueryErr: errors.New("connection refused")}

	if _, err := (&ClickHouseSource{Conn: conn}).Fetch(context.Background()); err == nil {
		t.Fatal("expected query error to propagate")
	}
}
