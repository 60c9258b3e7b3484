package models

// HeroPoolEntry is one hero in a player's pool.
type HeroPoolEntry struct {
	HeroName string  `json:"hero_name"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"win_rate"`
}

// PlayerAnalysis is the full per-player report.
type PlayerAnalysis struct {
	PlayerName     string  `json:"player_name"`
	GamesPlayed    int     `json:"games_played"`
	Wins           int     `json:"wins"`
	WinRate        float64 `json:"win_rate"`
	KDARatio       float64 `json:"kda_ratio"`
	AvgGPM         float64 `json:"avg_gpm"`
	AvgXPM         float64 `json:"avg_xpm"`
	MostPlayedHero string  `json:"most_played_hero"`

	// Recent form: the last 10 chronological rows for this player.
	RecentGames   int     `json:"recent_games"`
	RecentWinRate float64 `json:"recent_win_rate"`
	RecentKDA     float64 `json:"recent_kda"`

	// Hero pool sorted by games played descending.
	TopHeroes []HeroPoolEntry `json:"top_heroes"`
	// Heroes with >=3 games and >=60% win rate, best first, capped at 3.
	BestHeroes []HeroPoolEntry `json:"best_heroes"`
}

// HeroPlayerEntry is one player on a hero's best-players list.
type HeroPlayerEntry struct {
	PlayerName string  `json:"player_name"`
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	AvgKDA     float64 `json:"avg_kda"`
}

// ItemPick is one item in a hero's popular-builds list.
type ItemPick struct {
	Item     string  `json:"item"`
	Count    int     `json:"count"`
	PickRate float64 `json:"pick_rate"`
}

// HeroAnalysis is the full per-hero report.
type HeroAnalysis struct {
	HeroName    string  `json:"hero_name"`
	TimesPicked int     `json:"times_picked"`
	WinRate     float64 `json:"win_rate"`
	AvgKills    float64 `json:"avg_kills"`
	AvgDeaths   float64 `json:"avg_deaths"`
	AvgAssists  float64 `json:"avg_assists"`
	AvgGPM      float64 `json:"avg_gpm"`
	AvgXPM      float64 `json:"avg_xpm"`

	BestPlayers  []HeroPlayerEntry `json:"best_players"`
	PopularItems []ItemPick        `json:"popular_items"`
}

// ItemTiming is the average acquisition timing of one item on a hero.
type ItemTiming struct {
	Item       string `json:"item"`
	AvgTiming  string `json:"avg_timing"` // "M:SS"
	AvgSeconds int    `json:"avg_seconds"`
	Samples    int    `json:"samples"`
}

// CounterEntry is one enemy hero in a counter-pick report.
type CounterEntry struct {
	HeroName     string  `json:"hero_name"`
	GamesAgainst int     `json:"games_against"`
	WinsAgainst  int     `json:"wins_against"`
	WinRate      float64 `json:"win_rate"`
	AvgKDA       float64 `json:"avg_kda"` // the enemy hero's own KDA in those games
}

// CounterPicks groups a hero's counters by severity.
type CounterPicks struct {
	HeroName     string         `json:"hero_name"`
	HardCounters []CounterEntry `json:"hard_counters"` // >=60% win rate against, top 5
	SoftCounters []CounterEntry `json:"soft_counters"` // 50-60%, top 5
	AllCounters  []CounterEntry `json:"all_counters"`
}

// Relationship is one teammate or opponent of a player.
type Relationship struct {
	PlayerName string  `json:"player_name"`
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	AvgKDA     float64 `json:"avg_kda"`
}

// MetaReport holds the two independent meta views.
type MetaReport struct {
	// Top 5 by win rate among heroes with >=10 picks.
	TopWinRate []HeroStatRow `json:"top_win_rate"`
	// Top 5 by pick count, no minimum.
	MostPicked []HeroStatRow `json:"most_picked"`
}

// LeaderboardEntry is one ranked player for a requested stat.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	PlayerName  string  `json:"player_name"`
	GamesPlayed int     `json:"games_played"`
	Value       float64 `json:"value"`

	WinRate  float64 `json:"win_rate"`
	KDARatio float64 `json:"kda_ratio"`
	AvgGPM   float64 `json:"avg_gpm"`
	AvgXPM   float64 `json:"avg_xpm"`
}

// Comparison is a head-to-head between two players. Winners maps each
// compared metric to the name of the strictly better player; tied metrics
// are absent.
type Comparison struct {
	First   PlayerStatRow     `json:"first"`
	Second  PlayerStatRow     `json:"second"`
	Winners map[string]string `json:"winners"`
}

// PlayerProfile bundles everything the profile endpoint returns.
type PlayerProfile struct {
	Analysis       *PlayerAnalysis `json:"analysis"`
	BestTeammates  []Relationship  `json:"best_teammates"`
	WorstTeammates []Relationship  `json:"worst_teammates"`
	BestMatchups   []Relationship  `json:"best_matchups"`
	WorstMatchups  []Relationship  `json:"worst_matchups"`
}
