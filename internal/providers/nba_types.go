package providers

// stats.nba.com responses are tabular: a header array plus row arrays that
// have to be zipped into records before anything can be read by name.

type nbaStatsResponse struct {
	ResultSets []nbaResultSet `json:"resultSets"`
}

type nbaResultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// nbaRow is one zipped record, keyed by header name.
type nbaRow map[string]interface{}

func (rs nbaResultSet) rows() []nbaRow {
	out := make([]nbaRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		row := make(nbaRow, len(rs.Headers))
		for i, h := range rs.Headers {
			if i < len(raw) {
				row[h] = raw[i]
			}
		}
		out = append(out, row)
	}
	return out
}

// Cell accessors are tolerant of the JSON number/string mix the tabular
// format produces; a missing or mistyped cell yields the zero value.

func (r nbaRow) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (r nbaRow) float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (r nbaRow) int(key string) int {
	return int(r.float(key))
}

// CDN schedule (scheduleLeagueV2.json). No authentication required.

type nbaScheduleResponse struct {
	LeagueSchedule nbaLeagueSchedule `json:"leagueSchedule"`
}

type nbaLeagueSchedule struct {
	GameDates []nbaGameDate `json:"gameDates"`
}

type nbaGameDate struct {
	Games []nbaGame `json:"games"`
}

type nbaGame struct {
	GameID          string      `json:"gameId"`
	GameDateTimeUTC string      `json:"gameDateTimeUTC"`
	GameStatus      int         `json:"gameStatus"`
	ArenaName       string      `json:"arenaName"`
	HomeTeam        nbaGameTeam `json:"homeTeam"`
	AwayTeam        nbaGameTeam `json:"awayTeam"`
}

type nbaGameTeam struct {
	TeamID      int    `json:"teamId"`
	TeamCity    string `json:"teamCity"`
	TeamName    string `json:"teamName"`
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
}

// Cached schedule shape: games grouped by the calendar-date prefix of their
// UTC timestamp, groups sorted ascending by date string.
type nbaScheduleDay struct {
	Gameday string    `json:"gameday"`
	Games   []nbaGame `json:"games"`
}

// CDN live box score (boxscore_<gameId>.json).

type nbaBoxScoreResponse struct {
	Game *nbaBoxScoreGame `json:"game"`
}

type nbaBoxScoreGame struct {
	GameID   string          `json:"gameId"`
	HomeTeam nbaBoxScoreTeam `json:"homeTeam"`
	AwayTeam nbaBoxScoreTeam `json:"awayTeam"`
}

type nbaBoxScoreTeam struct {
	TeamID   int                 `json:"teamId"`
	TeamCity string              `json:"teamCity"`
	TeamName string              `json:"teamName"`
	Players  []nbaBoxScorePlayer `json:"players"`
}

type nbaBoxScorePlayer struct {
	FirstName  string        `json:"firstName"`
	FamilyName string        `json:"familyName"`
	Position   string        `json:"position"`
	Statistics nbaPlayerStat `json:"statistics"`
}

type nbaPlayerStat struct {
	Minutes                string  `json:"minutes"` // ISO 8601 duration, "PT22M46.00S"
	Points                 int     `json:"points"`
	ReboundsTotal          int     `json:"reboundsTotal"`
	Assists                int     `json:"assists"`
	Steals                 int     `json:"steals"`
	Blocks                 int     `json:"blocks"`
	Turnovers              int     `json:"turnovers"`
	FieldGoalsMade         int     `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int     `json:"fieldGoalsAttempted"`
	ThreePointersMade      int     `json:"threePointersMade"`
	ThreePointersAttempted int     `json:"threePointersAttempted"`
	FreeThrowsMade         int     `json:"freeThrowsMade"`
	FreeThrowsAttempted    int     `json:"freeThrowsAttempted"`
	PlusMinusPoints        float64 `json:"plusMinusPoints"`
}
