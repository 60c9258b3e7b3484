package models

// Team values as exported by the community dataset.
const (
	TeamRadiant = "radiant"
	TeamDire    = "dire"
)

// Result values for a single MatchRecord row.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// NoItem is the sentinel the exporter writes for an empty item slot.
const NoItem = "null"

// MatchRecord is one row per player per match, as exported from the
// community's Firebase dump. Field names and snake_case casing are a fixed
// contract with the exporter and must not change.
type MatchRecord struct {
	GameID     string `json:"game_id"`
	PlayerName string `json:"player_name"`
	HeroName   string `json:"hero_name"`
	Team       string `json:"team"`
	Result     string `json:"result"`

	Kills    int `json:"kills"`
	Deaths   int `json:"deaths"`
	Assists  int `json:"assists"`
	GPM      int `json:"gpm"`
	XPM      int `json:"xpm"`
	NetWorth int `json:"net_worth"`

	// Up to six item slots with their acquisition timings ("M:SS").
	// Empty slots carry the string "null".
	Item1     string `json:"item_1"`
	Item1Time string `json:"item_1_time"`
	Item2     string `json:"item_2"`
	Item2Time string `json:"item_2_time"`
	Item3     string `json:"item_3"`
	Item3Time string `json:"item_3_time"`
	Item4     string `json:"item_4"`
	Item4Time string `json:"item_4_time"`
	Item5     string `json:"item_5"`
	Item5Time string `json:"item_5_time"`
	Item6     string `json:"item_6"`
	Item6Time string `json:"item_6_time"`

	// Lane role 1-5, 0 when unknown.
	Position int `json:"position"`
}

// ItemSlot pairs an item with its acquisition timing string.
type ItemSlot struct {
	Item   string
	Timing string
}

// Won reports whether this row's player won the game.
func (m *MatchRecord) Won() bool {
	return m.Result == ResultWin
}

// Items returns the six item slots in order, including empty ones.
func (m *MatchRecord) Items() [6]ItemSlot {
	return [6]ItemSlot{
		{m.Item1, m.Item1Time},
		{m.Item2, m.Item2Time},
		{m.Item3, m.Item3Time},
		{m.Item4, m.Item4Time},
		{m.Item5, m.Item5Time},
		{m.Item6, m.Item6Time},
	}
}

// PlayerStatRow is one entry of the precomputed player_statistics bundle.
type PlayerStatRow struct {
	PlayerName     string  `json:"player_name"`
	GamesPlayed    int     `json:"games_played"`
	Wins           int     `json:"wins"`
	WinRate        float64 `json:"win_rate"`
	KDARatio       float64 `json:"kda_ratio"`
	AvgGPM         float64 `json:"avg_gpm"`
	AvgXPM         float64 `json:"avg_xpm"`
	MostPlayedHero string  `json:"most_played_hero"`
}

// HeroStatRow is one entry of the precomputed hero_statistics bundle.
type HeroStatRow struct {
	HeroName    string  `json:"hero_name"`
	TimesPicked int     `json:"times_picked"`
	WinRate     float64 `json:"win_rate"`
	AvgKills    float64 `json:"avg_kills"`
	AvgDeaths   float64 `json:"avg_deaths"`
	AvgAssists  float64 `json:"avg_assists"`
	AvgGPM      float64 `json:"avg_gpm"`
	AvgXPM      float64 `json:"avg_xpm"`
}

// MatchExport is the top-level shape of the exported dataset file.
type MatchExport struct {
	Matches          []MatchRecord   `json:"matches"`
	PlayerStatistics []PlayerStatRow `json:"player_statistics"`
	HeroStatistics   []HeroStatRow   `json:"hero_statistics"`
}
