package store

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dotapit/stats-api/internal/models"
)

// ClickHouseSource reads archived match rows from the analytics store and
// rebuilds the aggregate bundles the exporter would normally precompute.
// Used when CLICKHOUSE_URL is configured; the importer keeps the archive in
// sync with the Firebase dump.
type ClickHouseSource struct {
	Conn driver.Conn
}

func (c *ClickHouseSource) Fetch(ctx context.Context) (*models.MatchExport, error) {
	rows, err := c.Conn.Query(ctx, `
		SELECT
			game_id, player_name, hero_name, team, result,
			kills, deaths, assists, gpm, xpm, net_worth,
			item_1, item_1_time, item_2, item_2_time, item_3, item_3_time,
			item_4, item_4_time, item_5, item_5_time, item_6, item_6_time,
			position
		FROM dotapit.match_rows
		ORDER BY ingested_at, game_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query match archive: %w", err)
	}
	defer rows.Close()

	var matches []models.MatchRecord
	for rows.Next() {
		var m models.MatchRecord
		var kills, deaths, assists, gpm, xpm, netWorth, position int32
		if err := rows.Scan(
			&m.GameID, &m.PlayerName, &m.HeroName, &m.Team, &m.Result,
			&kills, &deaths, &assists, &gpm, &xpm, &netWorth,
			&m.Item1, &m.Item1Time, &m.Item2, &m.Item2Time, &m.Item3, &m.Item3Time,
			&m.Item4, &m.Item4Time, &m.Item5, &m.Item5Time, &m.Item6, &m.Item6Time,
			&position,
		); err != nil {
			continue
		}
		m.Kills = int(kills)
		m.Deaths = int(deaths)
		m.Assists = int(assists)
		m.GPM = int(gpm)
		m.XPM = int(xpm)
		m.NetWorth = int(netWorth)
		m.Position = int(position)
		matches = append(matches, m)
	}
	// A stream that dies mid-query must surface as a failed load, never as
	// a silently truncated dataset.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan match archive: %w", err)
	}

	return &models.MatchExport{
		Matches:          matches,
		PlayerStatistics: buildPlayerBundle(matches),
		HeroStatistics:   buildHeroBundle(matches),
	}, nil
}

// buildPlayerBundle recomputes the player_statistics aggregate from raw
// rows, matching the exporter's field semantics.
func buildPlayerBundle(matches []models.MatchRecord) []models.PlayerStatRow {
	type acc struct {
		row       models.PlayerStatRow
		kills     int
		deaths    int
		assists   int
		gpm       int
		xpm       int
		heroGames map[string]int
	}

	byName := make(map[string]*acc)
	var order []string
	for _, m := range matches {
		key := NormalizeName(m.PlayerName)
		a, ok := byName[key]
		if !ok {
			a = &acc{heroGames: make(map[string]int)}
			a.row.PlayerName = m.PlayerName
			byName[key] = a
			order = append(order, key)
		}
		a.row.GamesPlayed++
		if m.Won() {
			a.row.Wins++
		}
		a.kills += m.Kills
		a.deaths += m.Deaths
		a.assists += m.Assists
		a.gpm += m.GPM
		a.xpm += m.XPM
		a.heroGames[m.HeroName]++
	}

	out := make([]models.PlayerStatRow, 0, len(order))
	for _, key := range order {
		a := byName[key]
		games := a.row.GamesPlayed
		a.row.WinRate = float64(a.row.Wins) / float64(games) * 100
		deaths := a.deaths
		if deaths == 0 {
			deaths = 1
		}
		a.row.KDARatio = float64(a.kills+a.assists) / float64(deaths)
		a.row.AvgGPM = float64(a.gpm) / float64(games)
		a.row.AvgXPM = float64(a.xpm) / float64(games)

		best := 0
		for hero, n := range a.heroGames {
			if n > best || (n == best && hero < a.row.MostPlayedHero) {
				best = n
				a.row.MostPlayedHero = hero
			}
		}
		out = append(out, a.row)
	}
	return out
}

// buildHeroBundle recomputes the hero_statistics aggregate from raw rows.
func buildHeroBundle(matches []models.MatchRecord) []models.HeroStatRow {
	type acc struct {
		row     models.HeroStatRow
		kills   int
		deaths  int
		assists int
		gpm     int
		xpm     int
	}

	byName := make(map[string]*acc)
	var order []string
	for _, m := range matches {
		key := NormalizeName(m.HeroName)
		a, ok := byName[key]
		if !ok {
			a = &acc{}
			a.row.HeroName = m.HeroName
			byName[key] = a
			order = append(order, key)
		}
		a.row.TimesPicked++
		if m.Won() {
			a.row.WinRate++ // wins for now, converted below
		}
		a.kills += m.Kills
		a.deaths += m.Deaths
		a.assists += m.Assists
		a.gpm += m.GPM
		a.xpm += m.XPM
	}

	out := make([]models.HeroStatRow, 0, len(order))
	for _, key := range order {
		a := byName[key]
		picks := float64(a.row.TimesPicked)
		a.row.WinRate = a.row.WinRate / picks * 100
		a.row.AvgKills = float64(a.kills) / picks
		a.row.AvgDeaths = float64(a.deaths) / picks
		a.row.AvgAssists = float64(a.assists) / picks
		a.row.AvgGPM = float64(a.gpm) / picks
		a.row.AvgXPM = float64(a.xpm) / picks
		out = append(out, a.row)
	}
	return out
}
