package models

// League identifies one of the supported competitions.
type League string

const (
	LeagueEuroleague League = "euroleague"
	LeagueNBA        League = "nba"
)

// LeagueDescriptor is the static metadata served by GET /api/leagues.
type LeagueDescriptor struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Logo    string        `json:"logo"`
	Country LeagueCountry `json:"country"`
}

type LeagueCountry struct {
	Name string  `json:"name"`
	Flag *string `json:"flag"`
}

// Player is a roster member. The identifier is provider-specific
// (Euroleague player code or NBA person ID).
type Player struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Jersey   string `json:"jersey,omitempty"`
	Position string `json:"position,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Team is a club with its roster. Populated once at startup per league and
// immutable until the cache is cleared externally.
type Team struct {
	TeamID  string   `json:"teamId"`
	Name    string   `json:"name"`
	Tricode string   `json:"tricode,omitempty"`
	Logo    string   `json:"logo,omitempty"`
	Roster  []Player `json:"roster"`
}

// ScheduledGame is one game inside a round. Home/away teams are referenced by
// display name and code, not enforced foreign keys. Scores stay nil until the
// game has been played.
type ScheduledGame struct {
	GameCode  string `json:"gamecode"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	Played    bool   `json:"played"`
	HomeTeam  string `json:"hometeam"`
	AwayTeam  string `json:"awayteam"`
	HomeCode  string `json:"homecode"`
	AwayCode  string `json:"awaycode"`
	HomeLogo  string `json:"homeLogo,omitempty"`
	AwayLogo  string `json:"awayLogo,omitempty"`
	HomeScore *int   `json:"homescore"`
	AwayScore *int   `json:"awayscore"`
	Venue     string `json:"venue,omitempty"`
}

// GameRound groups games sharing a round key. Euroleague keys are round
// numbers in string form ("1".."38"), NBA keys are calendar dates
// ("2025-11-04"). Games are never re-ordered once cached.
type GameRound struct {
	Gameday string          `json:"gameday"`
	Group   string          `json:"group,omitempty"`
	Games   []ScheduledGame `json:"games"`
}

// PlayerStatLine is a single player's line inside a box score. Min is nil
// while the player has not recorded playing time yet.
type PlayerStatLine struct {
	Min       *string `json:"min"`
	Points    int     `json:"pts"`
	Rebounds  int     `json:"reb"`
	Assists   int     `json:"ast"`
	Steals    int     `json:"stl"`
	Blocks    int     `json:"blk"`
	Turnovers int     `json:"to"`
	FGM       int     `json:"fgm"`
	FGA       int     `json:"fga"`
	FG3M      int     `json:"fg3m"`
	FG3A      int     `json:"fg3a"`
	FTM       int     `json:"ftm"`
	FTA       int     `json:"fta"`
	PlusMinus float64 `json:"plusMinus"`
}

type PlayerLine struct {
	Name     string         `json:"name"`
	Position string         `json:"position,omitempty"`
	Stats    PlayerStatLine `json:"stats"`
}

type BoxScoreTeam struct {
	TeamID   string       `json:"teamId"`
	TeamName string       `json:"teamName"`
	Logo     string       `json:"logo,omitempty"`
	Players  []PlayerLine `json:"players"`
}

// BoxScore is the per-game, per-player record for both teams. Once every
// player carries a recorded minutes value it is final and never re-fetched.
type BoxScore struct {
	GameCode string       `json:"gamecode"`
	Local    BoxScoreTeam `json:"local"`
	Road     BoxScoreTeam `json:"road"`
}

// Complete reports whether at least one player on either side has a recorded
// playing-time value. Incomplete box scores are refreshed on the next request.
func (b *BoxScore) Complete() bool {
	for _, side := range [][]PlayerLine{b.Local.Players, b.Road.Players} {
		for _, p := range side {
			if p.Stats.Min != nil {
				return true
			}
		}
	}
	return false
}

// StandingsEntry is one team's ranked record for a round or season-to-date.
// Euroleague fills the points columns, the NBA fills the conference and
// record-string columns.
type StandingsEntry struct {
	Position         int    `json:"position"`
	TeamID           string `json:"teamId,omitempty"`
	Name             string `json:"name"`
	Tricode          string `json:"tricode,omitempty"`
	Logo             string `json:"logo,omitempty"`
	Conference       string `json:"conference,omitempty"`
	GamesPlayed      int    `json:"gamesPlayed"`
	GamesWon         int    `json:"gamesWon"`
	GamesLost        int    `json:"gamesLost"`
	PointsFor        int    `json:"pointsFor,omitempty"`
	PointsAgainst    int    `json:"pointsAgainst,omitempty"`
	PointsDifference int    `json:"pointsDifference,omitempty"`
	WinPercentage    string `json:"winPercentage"`
	GamesBehind      string `json:"gamesBehind,omitempty"`
	HomeRecord       string `json:"homeRecord,omitempty"`
	RoadRecord       string `json:"roadRecord,omitempty"`
	Last10           string `json:"last10,omitempty"`
	Streak           string `json:"streak,omitempty"`
	Qualified        bool   `json:"qualified,omitempty"`
}

// PlayerSeasonStats holds a player's per-game averages across the season,
// with a league-wide rank.
type PlayerSeasonStats struct {
	PlayerID      string  `json:"playerId"`
	Name          string  `json:"name"`
	Team          string  `json:"team"`
	Rank          int     `json:"rank"`
	GamesPlayed   int     `json:"gamesPlayed"`
	Minutes       float64 `json:"min"`
	Points        float64 `json:"pts"`
	Rebounds      float64 `json:"reb"`
	Assists       float64 `json:"ast"`
	Steals        float64 `json:"stl"`
	Blocks        float64 `json:"blk"`
	Turnovers     float64 `json:"to"`
	FieldGoalPct  string  `json:"fgPct,omitempty"`
	ThreePointPct string  `json:"fg3Pct,omitempty"`
	FreeThrowPct  string  `json:"ftPct,omitempty"`
	Efficiency    float64 `json:"eff"`
}
