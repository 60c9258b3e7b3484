package logic

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		seconds int
		ok      bool
	}{
		{"5:00", 300, true},
		{"0:45", 45, true},
		{"12:34", 754, true},
		{" 7:05 ", 425, true},
		{"5:60", 0, false},
		{"-1:30", 0, false},
		{"500", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseClock(tt.input)
			if ok != tt.ok || got != tt.seconds {
				t.Errorf("parseClock(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.seconds, tt.ok)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{360, "6:00"},
		{45, "0:45"},
		{754, "12:34"},
		{0, "0:00"},
	}

	for _, tt := range tests {
		if got := formatClock(tt.seconds); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func timingRow(game, timing1, timing2 string) models.MatchRecord {
	m := row(game, "Alice", "Axe", models.TeamRadiant, models.ResultWin, 5, 2, 5)
	m.Item1 = "blink"
	m.Item1Time = timing1
	m.Item2 = "vanguard"
	m.Item2Time = timing2
	m.Item3 = models.NoItem
	m.Item3Time = models.NoItem
	return m
}

func TestItemTimings(t *testing.T) {
	export := &models.MatchExport{
		Matches: []models.MatchRecord{
			timingRow("g1", "5:00", "8:00"),
			timingRow("g2", "7:00", "9:30"),
			timingRow("g3", "6:00", "bad-clock"),
		},
		HeroStatistics: []models.HeroStatRow{heroRow("Axe", 3, 100)},
	}
	svc := NewAnalysisService(provider(export), zap.NewNop())

	timings, err := svc.ItemTimings(context.Background(), "axe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// blink has 3 valid samples averaging 6:00; vanguard's bad clock in g3
	// leaves only 2, below the floor. The "null" slot never counts.
	if len(timings) != 1 {
		t.Fatalf("expected 1 timing, got %d: %+v", len(timings), timings)
	}
	got := timings[0]
	if got.Item != "blink" || got.AvgTiming != "6:00" || got.AvgSeconds != 360 || got.Samples != 3 {
		t.Errorf("unexpected timing: %+v", got)
	}
}

func TestItemTimingsSortedByClock(t *testing.T) {
	early := timingRow("g1", "4:00", "10:00")
	mid := timingRow("g2", "4:30", "11:00")
	late := timingRow("g3", "5:00", "12:00")

	export := &models.MatchExport{
		Matches:        []models.MatchRecord{early, mid, late},
		HeroStatistics: []models.HeroStatRow{heroRow("Axe", 3, 100)},
	}
	svc := NewAnalysisService(provider(export), zap.NewNop())

	timings, err := svc.ItemTimings(context.Background(), "Axe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timings) != 2 {
		t.Fatalf("expected 2 timings, got %d", len(timings))
	}
	if timings[0].Item != "blink" || timings[1].Item != "vanguard" {
		t.Errorf("expected earliest item first: %+v", timings)
	}
}

func TestItemTimingsUnknownHero(t *testing.T) {
	svc := NewAnalysisService(provider(&models.MatchExport{}), zap.NewNop())

	if _, err := svc.ItemTimings(context.Background(), "Techies"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
