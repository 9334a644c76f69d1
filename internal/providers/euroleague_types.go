package providers

import "encoding/xml"

// Euroleague v1 endpoints speak XML. Repeated <club>/<player>/<item>/<game>
// elements decode into slices natively, singleton or not.

type elClubsXML struct {
	XMLName xml.Name    `xml:"clubs"`
	Clubs   []elClubXML `xml:"club"`
}

type elClubXML struct {
	Code   string      `xml:"code,attr"`
	Name   string      `xml:"name,attr"`
	Roster elRosterXML `xml:"roster"`
}

type elRosterXML struct {
	Players []elPlayerXML `xml:"player"`
}

type elPlayerXML struct {
	Code     string `xml:"code,attr"`
	Name     string `xml:"name,attr"`
	Dorsal   string `xml:"dorsal,attr"`
	Position string `xml:"position,attr"`
	Country  string `xml:"countryname,attr"`
}

type elScheduleXML struct {
	XMLName xml.Name            `xml:"schedule"`
	Items   []elScheduleItemXML `xml:"item"`
}

type elScheduleItemXML struct {
	Gameday   int    `xml:"gameday"`
	Group     string `xml:"group"`
	Date      string `xml:"date"`
	StartTime string `xml:"startime"`
	GameCode  string `xml:"gamecode"`
	HomeTeam  string `xml:"hometeam"`
	HomeCode  string `xml:"homecode"`
	AwayTeam  string `xml:"awayteam"`
	AwayCode  string `xml:"awaycode"`
	ArenaName string `xml:"arenaname"`
}

type elResultsXML struct {
	XMLName xml.Name          `xml:"results"`
	Games   []elGameResultXML `xml:"game"`
}

type elGameResultXML struct {
	GameCode  string `xml:"gamecode"`
	HomeScore int    `xml:"homescore"`
	AwayScore int    `xml:"awayscore"`
}

// Cached schedule shape: one entry per round, normalized from the per-round
// v1 responses at population time.
type elScheduleRound struct {
	Gameday int                 `json:"gameday"`
	Group   string              `json:"group"`
	Items   []elScheduleItemXML `json:"items"`
}

type elGameResult struct {
	GameCode  string `json:"gamecode"`
	HomeScore int    `json:"homescore"`
	AwayScore int    `json:"awayscore"`
}

// v2 clubs metadata (JSON), the source of crest logos.

type elClubsResponse struct {
	Data []elClubData `json:"data"`
}

type elClubData struct {
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Images elClubImages `json:"images"`
}

type elClubImages struct {
	Crest string `json:"crest"`
}

// v3 season player statistics (JSON).

type elPlayerStatsResponse struct {
	Total   int                `json:"total"`
	Players []elPlayerSeasonEl `json:"players"`
}

type elPlayerSeasonEl struct {
	Player        elPlayerRef `json:"player"`
	GamesPlayed   int         `json:"gamesPlayed"`
	MinutesPlayed float64     `json:"minutesPlayed"`
	PointsScored  float64     `json:"pointsScored"`
	TotalRebounds float64     `json:"totalRebounds"`
	Assists       float64     `json:"assists"`
	Steals        float64     `json:"steals"`
	Blocks        float64     `json:"blocks"`
	Turnovers     float64     `json:"turnovers"`
	TwoPointPct   string      `json:"twoPointersPercentage"`
	ThreePointPct string      `json:"threePointersPercentage"`
	FreeThrowPct  string      `json:"freeThrowsPercentage"`
	PIR           float64     `json:"pir"`
}

type elPlayerRef struct {
	Code string    `json:"code"`
	Name string    `json:"name"`
	Team elTeamRef `json:"team"`
}

type elTeamRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// v2 per-round standings (JSON): an array of groups, one of which carries
// the standings list.

type elStandingsGroup struct {
	Name      string             `json:"name"`
	Standings []elStandingsEntry `json:"standings"`
}

type elStandingsEntry struct {
	Club elStandingsClub `json:"club"`
	Data elStandingsData `json:"data"`
}

type elStandingsClub struct {
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	AbbreviatedName string       `json:"abbreviatedName"`
	Images          elClubImages `json:"images"`
}

type elStandingsData struct {
	Position      int  `json:"position"`
	GamesPlayed   int  `json:"gamesPlayed"`
	GamesWon      int  `json:"gamesWon"`
	GamesLost     int  `json:"gamesLost"`
	PointsFavour  int  `json:"pointsFavour"`
	PointsAgainst int  `json:"pointsAgainst"`
	Qualified     bool `json:"qualified"`
}

// v2 per-game stats (JSON), the box-score source.

type elGameStatsResponse struct {
	LocalClub elGameStatsClub `json:"localClub"`
	RoadClub  elGameStatsClub `json:"roadClub"`
}

type elGameStatsClub struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	PlayerStats []elPlayerStats `json:"playerStats"`
}

type elPlayerStats struct {
	Player               elGamePlayerRef `json:"player"`
	Minutes              string          `json:"minutes"`
	Points               int             `json:"points"`
	TotalRebounds        int             `json:"totalRebounds"`
	Assistances          int             `json:"assistances"`
	Steals               int             `json:"steals"`
	BlocksFavour         int             `json:"blocksFavour"`
	Turnovers            int             `json:"turnovers"`
	FieldGoalsMade2      int             `json:"fieldGoalsMade2"`
	FieldGoalsAttempted2 int             `json:"fieldGoalsAttempted2"`
	FieldGoalsMade3      int             `json:"fieldGoalsMade3"`
	FieldGoalsAttempted3 int             `json:"fieldGoalsAttempted3"`
	FreeThrowsMade       int             `json:"freeThrowsMade"`
	FreeThrowsAttempted  int             `json:"freeThrowsAttempted"`
	Valuation            int             `json:"valuation"`
}

type elGamePlayerRef struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position string `json:"position"`
}
