package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nikola411/score-tracker/internal/cache"
	"github.com/nikola411/score-tracker/internal/models"
)

const (
	nbaStatsEndpoint = "https://stats.nba.com/stats"
	nbaCDNEndpoint   = "https://cdn.nba.com/static/json"
	nbaSeason        = "2025-26"

	breakerNBAStats = "nba-stats"
	breakerNBACDN   = "nba-cdn"

	// gameStatus code meaning the game has completed.
	nbaStatusFinal = 3
)

// stats.nba.com rejects requests without browser-like headers.
var nbaStatsHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Referer":            "https://www.nba.com/",
	"Origin":             "https://www.nba.com",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
	"Connection":         "keep-alive",
}

var nbaDurationPattern = regexp.MustCompile(`PT(\d+)M([\d.]+)S`)

// NBAClient adapts the NBA upstreams: the authenticated-by-header statistics
// API for rosters, season stats and standings, and the open CDN for the
// season schedule and live box scores. Rounds are calendar-date strings.
type NBAClient struct {
	statsBaseURL string
	cdnBaseURL   string
	statsClient  *http.Client
	cdnClient    *http.Client
	store        cache.Store
	breaker      Breaker
	logger       *logrus.Logger
}

// NewNBAClient creates a new NBA API client. statsTimeout bounds calls to the
// slow statistics endpoints; zero selects the 60s default. The CDN is fast
// and keeps a fixed 30s timeout.
func NewNBAClient(store cache.Store, breaker Breaker, logger *logrus.Logger, statsTimeout time.Duration) *NBAClient {
	if statsTimeout <= 0 {
		statsTimeout = 60 * time.Second
	}
	return &NBAClient{
		statsBaseURL: nbaStatsEndpoint,
		cdnBaseURL:   nbaCDNEndpoint,
		statsClient:  &http.Client{Timeout: statsTimeout},
		cdnClient:    &http.Client{Timeout: 30 * time.Second},
		store:        store,
		breaker:      breaker,
		logger:       logger,
	}
}

func (c *NBAClient) League() models.League {
	return models.LeagueNBA
}

func (c *NBAClient) key(resource string) string {
	return cache.Key(string(models.LeagueNBA), resource)
}

func nbaTeamLogoURL(teamID int) string {
	return fmt.Sprintf("https://cdn.nba.com/logos/nba/%d/primary/L/logo.svg", teamID)
}

// Populate runs the startup population sequence: rosters, season player
// stats, full season schedule. Write-if-absent, independent failure
// boundaries.
func (c *NBAClient) Populate(ctx context.Context) {
	steps := []populationStep{
		{"rosters", c.initRosters},
		{"player_stats", c.initPlayerStats},
		{"schedule", c.initSchedule},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			c.logger.WithField("league", "nba").WithError(err).
				Errorf("Population step %s failed", step.name)
		}
	}
}

// initRosters derives Team records by grouping the all-players listing by
// team identifier; players without a team are skipped.
func (c *NBAClient) initRosters(ctx context.Context) error {
	var teams []models.Team
	found, err := c.store.Read(ctx, c.key("rosters"), &teams)
	if err != nil || found {
		return err
	}

	path := fmt.Sprintf("/commonallplayers?LeagueID=00&Season=%s&IsOnlyCurrentSeason=1", nbaSeason)
	var resp nbaStatsResponse
	if err := c.getStatsJSON(ctx, path, &resp); err != nil {
		return fmt.Errorf("failed to fetch rosters: %w", err)
	}
	if len(resp.ResultSets) == 0 {
		return fmt.Errorf("rosters response carries no result sets")
	}

	byTeam := make(map[int]*models.Team)
	var order []int
	for _, row := range resp.ResultSets[0].rows() {
		teamID := row.int("TEAM_ID")
		if teamID == 0 {
			continue
		}
		team, ok := byTeam[teamID]
		if !ok {
			team = &models.Team{
				TeamID:  strconv.Itoa(teamID),
				Name:    strings.TrimSpace(row.str("TEAM_CITY") + " " + row.str("TEAM_NAME")),
				Tricode: row.str("TEAM_ABBREVIATION"),
				Logo:    nbaTeamLogoURL(teamID),
			}
			byTeam[teamID] = team
			order = append(order, teamID)
		}
		team.Roster = append(team.Roster, models.Player{
			PlayerID: strconv.Itoa(row.int("PERSON_ID")),
			Name:     row.str("DISPLAY_FIRST_LAST"),
		})
	}

	teams = make([]models.Team, 0, len(order))
	for _, id := range order {
		teams = append(teams, *byTeam[id])
	}
	return c.store.Write(ctx, c.key("rosters"), teams)
}

func (c *NBAClient) initPlayerStats(ctx context.Context) error {
	var stats []models.PlayerSeasonStats
	found, err := c.store.Read(ctx, c.key("player_stats"), &stats)
	if err != nil || found {
		return err
	}

	path := fmt.Sprintf("/leaguedashplayerstats?Season=%s&SeasonType=Regular+Season&PerMode=PerGame&MeasureType=Base&LeagueID=00", nbaSeason)
	var resp nbaStatsResponse
	if err := c.getStatsJSON(ctx, path, &resp); err != nil {
		return fmt.Errorf("failed to fetch player stats: %w", err)
	}
	if len(resp.ResultSets) == 0 {
		return fmt.Errorf("player stats response carries no result sets")
	}

	rows := resp.ResultSets[0].rows()
	stats = make([]models.PlayerSeasonStats, 0, len(rows))
	for i, row := range rows {
		rank := row.int("PTS_RANK")
		if rank == 0 {
			rank = i + 1
		}
		stats = append(stats, models.PlayerSeasonStats{
			PlayerID:      strconv.Itoa(row.int("PLAYER_ID")),
			Name:          row.str("PLAYER_NAME"),
			Team:          row.str("TEAM_ABBREVIATION"),
			Rank:          rank,
			GamesPlayed:   row.int("GP"),
			Minutes:       row.float("MIN"),
			Points:        row.float("PTS"),
			Rebounds:      row.float("REB"),
			Assists:       row.float("AST"),
			Steals:        row.float("STL"),
			Blocks:        row.float("BLK"),
			Turnovers:     row.float("TOV"),
			FieldGoalPct:  formatPct(row.float("FG_PCT")),
			ThreePointPct: formatPct(row.float("FG3_PCT")),
			FreeThrowPct:  formatPct(row.float("FT_PCT")),
			Efficiency:    row.float("PLUS_MINUS"),
		})
	}
	return c.store.Write(ctx, c.key("player_stats"), stats)
}

// initSchedule fetches the full season schedule in one CDN call and groups
// games by the calendar-date portion of their UTC timestamp.
func (c *NBAClient) initSchedule(ctx context.Context) error {
	var days []nbaScheduleDay
	found, err := c.store.Read(ctx, c.key("schedule"), &days)
	if err != nil || found {
		return err
	}

	var resp nbaScheduleResponse
	if err := c.getCDNJSON(ctx, "/staticData/scheduleLeagueV2.json", &resp); err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}

	byDate := make(map[string]*nbaScheduleDay)
	for _, dateEntry := range resp.LeagueSchedule.GameDates {
		for _, game := range dateEntry.Games {
			dateKey, _, _ := strings.Cut(game.GameDateTimeUTC, "T")
			day, ok := byDate[dateKey]
			if !ok {
				day = &nbaScheduleDay{Gameday: dateKey}
				byDate[dateKey] = day
			}
			day.Games = append(day.Games, game)
		}
	}

	days = make([]nbaScheduleDay, 0, len(byDate))
	for _, day := range byDate {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Gameday < days[j].Gameday
	})
	return c.store.Write(ctx, c.key("schedule"), days)
}

func (c *NBAClient) Rosters(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	found, err := c.store.Read(ctx, c.key("rosters"), &teams)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnavailable
	}
	return teams, nil
}

func (c *NBAClient) PlayerStats(ctx context.Context) ([]models.PlayerSeasonStats, error) {
	var stats []models.PlayerSeasonStats
	found, err := c.store.Read(ctx, c.key("player_stats"), &stats)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnavailable
	}
	return stats, nil
}

// Schedule maps the cached date groups into canonical rounds. A game counts
// as played only with the "completed" status code; unplayed games carry nil
// scores.
func (c *NBAClient) Schedule(ctx context.Context) ([]models.GameRound, error) {
	var days []nbaScheduleDay
	found, err := c.store.Read(ctx, c.key("schedule"), &days)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnavailable
	}

	out := make([]models.GameRound, 0, len(days))
	for _, day := range days {
		gr := models.GameRound{
			Gameday: day.Gameday,
			Games:   make([]models.ScheduledGame, 0, len(day.Games)),
		}
		for _, g := range day.Games {
			played := g.GameStatus == nbaStatusFinal
			game := models.ScheduledGame{
				GameCode: g.GameID,
				Date:     g.GameDateTimeUTC,
				Played:   played,
				HomeTeam: strings.TrimSpace(g.HomeTeam.TeamCity + " " + g.HomeTeam.TeamName),
				AwayTeam: strings.TrimSpace(g.AwayTeam.TeamCity + " " + g.AwayTeam.TeamName),
				HomeCode: g.HomeTeam.TeamTricode,
				AwayCode: g.AwayTeam.TeamTricode,
				HomeLogo: nbaTeamLogoURL(g.HomeTeam.TeamID),
				AwayLogo: nbaTeamLogoURL(g.AwayTeam.TeamID),
				Venue:    g.ArenaName,
			}
			if played {
				home, away := g.HomeTeam.Score, g.AwayTeam.Score
				game.HomeScore = &home
				game.AwayScore = &away
			}
			gr.Games = append(gr.Games, game)
		}
		out = append(out, gr)
	}
	return out, nil
}

// BoxScore serves a cached box score only when it is complete: a cached
// entry whose players all lack a minutes value is a partially populated live
// snapshot and must be refreshed from the CDN.
func (c *NBAClient) BoxScore(ctx context.Context, gameID string) (*models.BoxScore, error) {
	var games []models.BoxScore
	if _, err := c.store.Read(ctx, c.key("box_score"), &games); err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].GameCode == gameID && games[i].Complete() {
			return &games[i], nil
		}
	}

	var resp nbaBoxScoreResponse
	if err := c.getCDNJSON(ctx, "/liveData/boxscore/boxscore_"+gameID+".json", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch box score for %s: %w", gameID, err)
	}
	if resp.Game == nil {
		c.logger.WithField("game_id", gameID).Warn("No game data in CDN box score response")
		return nil, ErrUnavailable
	}

	box := models.BoxScore{
		GameCode: gameID,
		Local:    nbaBoxScoreSection(resp.Game.HomeTeam),
		Road:     nbaBoxScoreSection(resp.Game.AwayTeam),
	}
	if err := c.store.Append(ctx, c.key("box_score"), box); err != nil {
		return nil, err
	}
	return &box, nil
}

func nbaBoxScoreSection(team nbaBoxScoreTeam) models.BoxScoreTeam {
	section := models.BoxScoreTeam{
		TeamID:   strconv.Itoa(team.TeamID),
		TeamName: strings.TrimSpace(team.TeamCity + " " + team.TeamName),
		Logo:     nbaTeamLogoURL(team.TeamID),
		Players:  make([]models.PlayerLine, 0, len(team.Players)),
	}
	for _, p := range team.Players {
		line := models.PlayerLine{
			Name:     strings.TrimSpace(p.FirstName + " " + p.FamilyName),
			Position: p.Position,
			Stats: models.PlayerStatLine{
				Min:       parseISODuration(p.Statistics.Minutes),
				Points:    p.Statistics.Points,
				Rebounds:  p.Statistics.ReboundsTotal,
				Assists:   p.Statistics.Assists,
				Steals:    p.Statistics.Steals,
				Blocks:    p.Statistics.Blocks,
				Turnovers: p.Statistics.Turnovers,
				FGM:       p.Statistics.FieldGoalsMade,
				FGA:       p.Statistics.FieldGoalsAttempted,
				FG3M:      p.Statistics.ThreePointersMade,
				FG3A:      p.Statistics.ThreePointersAttempted,
				FTM:       p.Statistics.FreeThrowsMade,
				FTA:       p.Statistics.FreeThrowsAttempted,
				PlusMinus: p.Statistics.PlusMinusPoints,
			},
		}
		section.Players = append(section.Players, line)
	}
	return section
}

// parseISODuration converts "PT22M46.00S" into the display form "22:46",
// seconds floored and zero-padded, minutes unpadded. Returns nil for empty
// or unrecognized input.
func parseISODuration(iso string) *string {
	if iso == "" {
		return nil
	}
	m := nbaDurationPattern.FindStringSubmatch(iso)
	if m == nil {
		return nil
	}
	seconds, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	display := fmt.Sprintf("%s:%02d", m[1], int(math.Floor(seconds)))
	return &display
}

// LatestPlayedRound returns the date string of the last day where a strict
// majority of that day's games are final.
func (c *NBAClient) LatestPlayedRound(ctx context.Context) (string, error) {
	var days []nbaScheduleDay
	found, err := c.store.Read(ctx, c.key("schedule"), &days)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrUnavailable
	}

	latest := ""
	for _, day := range days {
		played := 0
		for _, g := range day.Games {
			if g.GameStatus == nbaStatusFinal {
				played++
			}
		}
		if played*2 > len(day.Games) {
			latest = day.Gameday
		}
	}
	if latest == "" {
		return "", ErrUnavailable
	}
	return latest, nil
}

// Standings caches under the literal key "current" when no round is given;
// the upstream only serves season-to-date standings.
func (c *NBAClient) Standings(ctx context.Context, round string) ([]models.StandingsEntry, error) {
	key := round
	if key == "" {
		key = "current"
	}

	byRound := make(map[string][]models.StandingsEntry)
	if _, err := c.store.Read(ctx, c.key("standings"), &byRound); err != nil {
		return nil, err
	}
	if standings, ok := byRound[key]; ok {
		return standings, nil
	}

	path := fmt.Sprintf("/leaguestandingsv3?LeagueID=00&Season=%s&SeasonType=Regular+Season", nbaSeason)
	var resp nbaStatsResponse
	if err := c.getStatsJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch standings: %w", err)
	}
	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("standings response carries no result sets")
	}

	rows := resp.ResultSets[0].rows()
	standings := make([]models.StandingsEntry, 0, len(rows))
	for _, row := range rows {
		wins, losses := row.int("WINS"), row.int("LOSSES")
		teamID := row.int("TeamID")
		standings = append(standings, models.StandingsEntry{
			Position:      row.int("PlayoffRank"),
			TeamID:        strconv.Itoa(teamID),
			Name:          strings.TrimSpace(row.str("TeamCity") + " " + row.str("TeamName")),
			Tricode:       row.str("TeamSlug"),
			Logo:          nbaTeamLogoURL(teamID),
			Conference:    row.str("Conference"),
			GamesPlayed:   wins + losses,
			GamesWon:      wins,
			GamesLost:     losses,
			WinPercentage: winPercentage(wins, wins+losses),
			GamesBehind:   row.str("ConferenceGamesBack"),
			HomeRecord:    row.str("HOME"),
			RoadRecord:    row.str("ROAD"),
			Last10:        row.str("L10"),
			Streak:        row.str("strCurrentStreak"),
		})
	}

	byRound[key] = standings
	if err := c.store.Write(ctx, c.key("standings"), byRound); err != nil {
		return nil, err
	}
	return standings, nil
}

func formatPct(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func (c *NBAClient) getStatsJSON(ctx context.Context, path string, dest interface{}) error {
	url := c.statsBaseURL + path
	result, err := c.breaker.Execute(breakerNBAStats, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range nbaStatsHeaders {
			req.Header.Set(k, v)
		}
		return drainResponse(c.statsClient, req, url)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.([]byte), dest); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func (c *NBAClient) getCDNJSON(ctx context.Context, path string, dest interface{}) error {
	url := c.cdnBaseURL + path
	result, err := c.breaker.Execute(breakerNBACDN, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		return drainResponse(c.cdnClient, req, url)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.([]byte), dest); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func drainResponse(client *http.Client, req *http.Request, url string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
