package models

import "github.com/google/uuid"

// RegistryEntry is one registered community member, keyed by display name.
// The registry seeds MMR and preferred role for draft balancing; players
// absent from it draft with zeroed terms, never an error.
type RegistryEntry struct {
	Name   string `json:"name"`
	MMR    int    `json:"mmr"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// SkillProfile is the per-candidate input to the draft balancer, built
// fresh for every generation call.
type SkillProfile struct {
	Name        string  `json:"name"`
	MMR         int     `json:"mmr"`
	WinRate     float64 `json:"win_rate"`
	KDA         float64 `json:"kda"`
	GamesPlayed int     `json:"games_played"`
	Role        string  `json:"role"`
	AvgGPM      float64 `json:"avg_gpm"`
	AvgXPM      float64 `json:"avg_xpm"`
	SkillScore  float64 `json:"skill_score"`
}

// DraftTeam is one side of a plan: a captain plus four players.
type DraftTeam struct {
	Captain string   `json:"captain"`
	Players []string `json:"players"`
	Total   float64  `json:"total"` // sum of the strategy's compared metric
}

// DraftBalance describes how close a plan's two sides are.
type DraftBalance struct {
	Diff     float64 `json:"diff"`
	Fairness float64 `json:"fairness"` // 0-100, 100 when both sides are equal
}

// DraftPlan is one balancing strategy's output.
type DraftPlan struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Team1       DraftTeam    `json:"team1"`
	Team2       DraftTeam    `json:"team2"`
	Balance     DraftBalance `json:"balance"`
}

// DraftBatch is the result of one generation call: five plans in fixed
// strategy order. Callers display the hybrid plan as recommended by
// convention.
type DraftBatch struct {
	ID    uuid.UUID   `json:"id"`
	Plans []DraftPlan `json:"plans"`
}

// DraftRequest is the POST body for draft generation.
type DraftRequest struct {
	Players []string `json:"players" validate:"omitempty,len=10,unique"`
}
