package logic

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dotapit/stats-api/internal/models"
)

// parseClock converts an "M:SS" timing string to total seconds. The export
// format has no hours component.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0, false
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0, false
	}
	return mins*60 + secs, true
}

// formatClock renders total seconds back to "M:SS", zero-padding seconds.
func formatClock(total int) string {
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ItemTimings averages each item's acquisition time across every match with
// the hero, earliest-acquired items first. Items with fewer than 3 timed
// samples are excluded.
func (s *analysisService) ItemTimings(ctx context.Context, heroName string) ([]models.ItemTiming, error) {
	analysisQueries.WithLabelValues("timings").Inc()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	row := ds.HeroRow(heroName)
	if row == nil {
		return nil, ErrNotFound
	}

	type acc struct {
		totalSeconds int
		samples      int
	}
	byItem := make(map[string]*acc)
	var order []string

	for _, m := range ds.HeroMatches(row.HeroName) {
		for _, slot := range m.Items() {
			if slot.Item == "" || slot.Item == models.NoItem || slot.Timing == "" {
				continue
			}
			seconds, ok := parseClock(slot.Timing)
			if !ok {
				continue
			}
			a, exists := byItem[slot.Item]
			if !exists {
				a = &acc{}
				byItem[slot.Item] = a
				order = append(order, slot.Item)
			}
			a.totalSeconds += seconds
			a.samples++
		}
	}

	var out []models.ItemTiming
	for _, item := range order {
		a := byItem[item]
		if a.samples < minSampleGames {
			continue
		}
		avg := a.totalSeconds / a.samples
		out = append(out, models.ItemTiming{
			Item:       item,
			AvgTiming:  formatClock(avg),
			AvgSeconds: avg,
			Samples:    a.samples,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgSeconds != out[j].AvgSeconds {
			return out[i].AvgSeconds < out[j].AvgSeconds
		}
		return out[i].Item < out[j].Item
	})
	return out, nil
}
