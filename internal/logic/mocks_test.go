package logic

import (
	"context"

	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"

	"go.uber.org/zap"
)

// exportSource implements store.Source over an in-memory export.
type exportSource struct {
	export *models.MatchExport
	err    error
}

func (s *exportSource) Fetch(_ context.Context) (*models.MatchExport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.export, nil
}

func provider(export *models.MatchExport) DatasetProvider {
	return store.NewStore(&exportSource{export: export}, zap.NewNop())
}

func failingProvider(err error) DatasetProvider {
	return store.NewStore(&exportSource{err: err}, zap.NewNop())
}

// row builds one match row with the stats the ranked outputs care about.
func row(game, player, hero, team, result string, kills, deaths, assists int) models.MatchRecord {
	return models.MatchRecord{
		GameID:     game,
		PlayerName: player,
		HeroName:   hero,
		Team:       team,
		Result:     result,
		Kills:      kills,
		Deaths:     deaths,
		Assists:    assists,
		GPM:        500,
		XPM:        550,
	}
}

func playerRow(name string, games, wins int, winRate, kdaRatio, gpm, xpm float64, hero string) models.PlayerStatRow {
	return models.PlayerStatRow{
		PlayerName:     name,
		GamesPlayed:    games,
		Wins:           wins,
		WinRate:        winRate,
		KDARatio:       kdaRatio,
		AvgGPM:         gpm,
		AvgXPM:         xpm,
		MostPlayedHero: hero,
	}
}

func heroRow(name string, picks int, winRate float64) models.HeroStatRow {
	return models.HeroStatRow{
		HeroName:    name,
		TimesPicked: picks,
		WinRate:     winRate,
		AvgKills:    8,
		AvgDeaths:   4,
		AvgAssists:  10,
		AvgGPM:      520,
		AvgXPM:      580,
	}
}
