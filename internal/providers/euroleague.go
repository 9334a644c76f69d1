package providers

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nikola411/score-tracker/internal/cache"
	"github.com/nikola411/score-tracker/internal/models"
)

const (
	elEndpoint = "https://api-live.euroleague.net"
	elSeason   = "E2025"
	elRounds   = 38

	elTeamsPath       = "/v1/teams?seasonCode=" + elSeason
	elClubsPath       = "/v2/clubs"
	elPlayerStatsPath = "/v3/competitions/E/statistics/players/traditional?SeasonMode=Single&SeasonCode=" + elSeason + "&limit=324"
	elSchedulePath    = "/v1/schedules?seasonCode=" + elSeason + "&gameNumber="
	elResultsPath     = "/v1/results?seasonCode=" + elSeason + "&gameNumber="
	elGameStatsPath   = "/v2/competitions/E/seasons/" + elSeason + "/games/"
	elStandingsPath   = "/v2/competitions/E/seasons/" + elSeason + "/rounds/"

	elScheduleDateLayout = "Jan 2, 2006"

	breakerEuroleague = "euroleague"
)

// EuroleagueClient adapts the Euroleague API: XML for the v1 schedule/results,
// JSON for clubs, standings, game and player statistics. Rounds are explicit
// round numbers 1..38.
type EuroleagueClient struct {
	baseURL    string
	httpClient *http.Client
	store      cache.Store
	breaker    Breaker
	logger     *logrus.Logger
	limiter    *rate.Limiter
	rounds     int
	now        func() time.Time
}

// NewEuroleagueClient creates a new Euroleague API client. Per-round calls
// are paced by roundDelay to respect upstream rate limits.
func NewEuroleagueClient(store cache.Store, breaker Breaker, logger *logrus.Logger, roundDelay time.Duration) *EuroleagueClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if roundDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(roundDelay), 1)
	}
	return &EuroleagueClient{
		baseURL: elEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		store:   store,
		breaker: breaker,
		logger:  logger,
		limiter: limiter,
		rounds:  elRounds,
		now:     time.Now,
	}
}

func (c *EuroleagueClient) League() models.League {
	return models.LeagueEuroleague
}

func (c *EuroleagueClient) key(resource string) string {
	return cache.Key(string(models.LeagueEuroleague), resource)
}

// Populate runs the startup population sequence. Each step writes its cache
// key only when absent, so re-running after a restart is a no-op for keys
// that already exist.
func (c *EuroleagueClient) Populate(ctx context.Context) {
	steps := []populationStep{
		{"rosters", c.initRosters},
		{"clubs", c.initClubs},
		{"player_stats", c.initPlayerStats},
		{"schedule", c.initSchedule},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			c.logger.WithField("league", breakerEuroleague).WithError(err).
				Errorf("Population step %s failed", step.name)
		}
	}
}

func (c *EuroleagueClient) initRosters(ctx context.Context) error {
	var teams []models.Team
	found, err := c.store.Read(ctx, c.key("rosters"), &teams)
	if err != nil {
		return err
	}
	if !found {
		var clubs elClubsXML
		if err := c.getXML(ctx, elTeamsPath, &clubs); err != nil {
			return fmt.Errorf("failed to fetch rosters: %w", err)
		}
		teams = make([]models.Team, 0, len(clubs.Clubs))
		for _, club := range clubs.Clubs {
			team := models.Team{
				TeamID: club.Code,
				Name:   club.Name,
				Roster: make([]models.Player, 0, len(club.Roster.Players)),
			}
			for _, p := range club.Roster.Players {
				team.Roster = append(team.Roster, models.Player{
					PlayerID: p.Code,
					Name:     p.Name,
					Jersey:   p.Dorsal,
					Position: p.Position,
					Country:  p.Country,
				})
			}
			teams = append(teams, team)
		}
		if err := c.store.Write(ctx, c.key("rosters"), teams); err != nil {
			return err
		}
	}

	var names []string
	found, err = c.store.Read(ctx, c.key("teams"), &names)
	if err != nil {
		return err
	}
	if !found {
		names = make([]string, 0, len(teams))
		for _, t := range teams {
			names = append(names, t.Name)
		}
		return c.store.Write(ctx, c.key("teams"), names)
	}
	return nil
}

func (c *EuroleagueClient) initClubs(ctx context.Context) error {
	var clubs []elClubData
	found, err := c.store.Read(ctx, c.key("clubs_data"), &clubs)
	if err != nil || found {
		return err
	}
	var resp elClubsResponse
	if err := c.getJSON(ctx, elClubsPath, &resp); err != nil {
		return fmt.Errorf("failed to fetch clubs: %w", err)
	}
	return c.store.Write(ctx, c.key("clubs_data"), resp.Data)
}

func (c *EuroleagueClient) initPlayerStats(ctx context.Context) error {
	var stats []models.PlayerSeasonStats
	found, err := c.store.Read(ctx, c.key("player_stats"), &stats)
	if err != nil || found {
		return err
	}
	var resp elPlayerStatsResponse
	if err := c.getJSON(ctx, elPlayerStatsPath, &resp); err != nil {
		return fmt.Errorf("failed to fetch player stats: %w", err)
	}
	stats = make([]models.PlayerSeasonStats, 0, len(resp.Players))
	for i, p := range resp.Players {
		stats = append(stats, models.PlayerSeasonStats{
			PlayerID:      p.Player.Code,
			Name:          p.Player.Name,
			Team:          p.Player.Team.Name,
			Rank:          i + 1, // upstream orders by efficiency
			GamesPlayed:   p.GamesPlayed,
			Minutes:       p.MinutesPlayed,
			Points:        p.PointsScored,
			Rebounds:      p.TotalRebounds,
			Assists:       p.Assists,
			Steals:        p.Steals,
			Blocks:        p.Blocks,
			Turnovers:     p.Turnovers,
			FieldGoalPct:  p.TwoPointPct,
			ThreePointPct: p.ThreePointPct,
			FreeThrowPct:  p.FreeThrowPct,
			Efficiency:    p.PIR,
		})
	}
	return c.store.Write(ctx, c.key("player_stats"), stats)
}

// initSchedule pages through all rounds twice, once for the schedule and once
// for results, strictly sequentially with the limiter enforcing the fixed
// inter-call delay.
func (c *EuroleagueClient) initSchedule(ctx context.Context) error {
	var rounds []elScheduleRound
	found, err := c.store.Read(ctx, c.key("schedule"), &rounds)
	if err != nil {
		return err
	}
	if !found {
		rounds = make([]elScheduleRound, 0, c.rounds)
		for i := 1; i <= c.rounds; i++ {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			var sched elScheduleXML
			if err := c.getXML(ctx, elSchedulePath+strconv.Itoa(i), &sched); err != nil {
				return fmt.Errorf("failed to fetch schedule round %d: %w", i, err)
			}
			round := elScheduleRound{Gameday: i, Items: sched.Items}
			if len(sched.Items) > 0 {
				round.Gameday = sched.Items[0].Gameday
				round.Group = sched.Items[0].Group
			}
			rounds = append(rounds, round)
		}
		if err := c.store.Write(ctx, c.key("schedule"), rounds); err != nil {
			return err
		}
	}

	var results []elGameResult
	found, err = c.store.Read(ctx, c.key("results"), &results)
	if err != nil || found {
		return err
	}
	results = make([]elGameResult, 0)
	for i := 1; i <= c.rounds; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var res elResultsXML
		if err := c.getXML(ctx, elResultsPath+strconv.Itoa(i), &res); err != nil {
			return fmt.Errorf("failed to fetch results round %d: %w", i, err)
		}
		for _, g := range res.Games {
			results = append(results, elGameResult{
				GameCode:  g.GameCode,
				HomeScore: g.HomeScore,
				AwayScore: g.AwayScore,
			})
		}
	}
	return c.store.Write(ctx, c.key("results"), results)
}

// Rosters returns the cached team list with club crests attached.
func (c *EuroleagueClient) Rosters(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	found, err := c.store.Read(ctx, c.key("rosters"), &teams)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnavailable
	}
	crests := c.clubCrests(ctx)
	for i := range teams {
		if crest, ok := crests[teams[i].TeamID]; ok {
			teams[i].Logo = crest
		}
	}
	return teams, nil
}

func (c *EuroleagueClient) PlayerStats(ctx context.Context) ([]models.PlayerSeasonStats, error) {
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

// Schedule joins the cached per-round schedule with club metadata (logos by
// home/away code) and results (scores by game code).
func (c *EuroleagueClient) Schedule(ctx context.Context) ([]models.GameRound, error) {
	var rounds []elScheduleRound
	found, err := c.store.Read(ctx, c.key("schedule"), &rounds)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnavailable
	}

	crests := c.clubCrests(ctx)

	var results []elGameResult
	if _, err := c.store.Read(ctx, c.key("results"), &results); err != nil {
		return nil, err
	}
	resultMap := make(map[string]elGameResult, len(results))
	for _, r := range results {
		resultMap[r.GameCode] = r
	}

	out := make([]models.GameRound, 0, len(rounds))
	for _, round := range rounds {
		gr := models.GameRound{
			Gameday: strconv.Itoa(round.Gameday),
			Group:   round.Group,
			Games:   make([]models.ScheduledGame, 0, len(round.Items)),
		}
		for _, item := range round.Items {
			game := models.ScheduledGame{
				GameCode: item.GameCode,
				Date:     item.Date,
				Time:     item.StartTime,
				HomeTeam: item.HomeTeam,
				AwayTeam: item.AwayTeam,
				HomeCode: item.HomeCode,
				AwayCode: item.AwayCode,
				HomeLogo: crests[item.HomeCode],
				AwayLogo: crests[item.AwayCode],
				Venue:    item.ArenaName,
			}
			if result, ok := resultMap[item.GameCode]; ok {
				home, away := result.HomeScore, result.AwayScore
				game.Played = true
				game.HomeScore = &home
				game.AwayScore = &away
			}
			gr.Games = append(gr.Games, game)
		}
		out = append(out, gr)
	}
	return out, nil
}

// BoxScore returns the cached box score for gameCode unconditionally if one
// exists; otherwise it fetches the per-game stats using the numeric segment
// of the composite game code, tags the result with the original code and
// appends it to the cache.
func (c *EuroleagueClient) BoxScore(ctx context.Context, gameCode string) (*models.BoxScore, error) {
	var games []models.BoxScore
	if _, err := c.store.Read(ctx, c.key("box_score"), &games); err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].GameCode == gameCode {
			return &games[i], nil
		}
	}

	parts := strings.Split(gameCode, "_")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid game code %q", gameCode)
	}
	gameNumber := parts[1]

	var resp elGameStatsResponse
	if err := c.getJSON(ctx, elGameStatsPath+gameNumber+"/stats", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch box score for %s: %w", gameCode, err)
	}

	crests := c.clubCrests(ctx)
	box := models.BoxScore{
		GameCode: gameCode,
		Local:    elBoxScoreTeam(resp.LocalClub, crests),
		Road:     elBoxScoreTeam(resp.RoadClub, crests),
	}
	if err := c.store.Append(ctx, c.key("box_score"), box); err != nil {
		return nil, err
	}
	return &box, nil
}

func elBoxScoreTeam(club elGameStatsClub, crests map[string]string) models.BoxScoreTeam {
	team := models.BoxScoreTeam{
		TeamID:   club.Code,
		TeamName: club.Name,
		Logo:     crests[club.Code],
		Players:  make([]models.PlayerLine, 0, len(club.PlayerStats)),
	}
	for _, p := range club.PlayerStats {
		line := models.PlayerLine{
			Name:     p.Player.Name,
			Position: p.Player.Position,
			Stats: models.PlayerStatLine{
				Points:    p.Points,
				Rebounds:  p.TotalRebounds,
				Assists:   p.Assistances,
				Steals:    p.Steals,
				Blocks:    p.BlocksFavour,
				Turnovers: p.Turnovers,
				FGM:       p.FieldGoalsMade2 + p.FieldGoalsMade3,
				FGA:       p.FieldGoalsAttempted2 + p.FieldGoalsAttempted3,
				FG3M:      p.FieldGoalsMade3,
				FG3A:      p.FieldGoalsAttempted3,
				FTM:       p.FreeThrowsMade,
				FTA:       p.FreeThrowsAttempted,
				PlusMinus: float64(p.Valuation),
			},
		}
		if min := strings.TrimSpace(p.Minutes); min != "" && min != "DNP" {
			line.Stats.Min = &min
		}
		team.Players = append(team.Players, line)
	}
	return team
}

// LatestPlayedRound returns the highest round number with any game scheduled
// on or before the end of today, defaulting to round 1.
func (c *EuroleagueClient) LatestPlayedRound(ctx context.Context) (string, error) {
	var rounds []elScheduleRound
	found, err := c.store.Read(ctx, c.key("schedule"), &rounds)
	if err != nil {
		return "", err
	}
	if !found {
		return "1", nil
	}

	now := c.now()
	y, m, d := now.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())

	latest := 1
	for _, round := range rounds {
		for _, item := range round.Items {
			date, err := time.ParseInLocation(elScheduleDateLayout, item.Date, now.Location())
			if err != nil {
				continue
			}
			if !date.After(endOfDay) {
				latest = round.Gameday
				break
			}
		}
	}
	return strconv.Itoa(latest), nil
}

// Standings returns the standings for the given round, defaulting to the
// latest played round. Per-round entries are immutable once written.
func (c *EuroleagueClient) Standings(ctx context.Context, round string) ([]models.StandingsEntry, error) {
	if round == "" {
		latest, err := c.LatestPlayedRound(ctx)
		if err != nil {
			return nil, err
		}
		round = latest
	}

	byRound := make(map[string]json.RawMessage)
	if _, err := c.store.Read(ctx, c.key("standings"), &byRound); err != nil {
		return nil, err
	}
	if raw, ok := byRound[round]; ok {
		return unwrapStandings(raw)
	}

	var groups []elStandingsGroup
	if err := c.getJSON(ctx, elStandingsPath+round+"/standings", &groups); err != nil {
		return nil, fmt.Errorf("failed to fetch standings for round %s: %w", round, err)
	}
	var raw []elStandingsEntry
	for _, g := range groups {
		if len(g.Standings) > 0 {
			raw = g.Standings
			break
		}
	}

	standings := make([]models.StandingsEntry, 0, len(raw))
	for _, entry := range raw {
		standings = append(standings, models.StandingsEntry{
			Position:         entry.Data.Position,
			TeamID:           entry.Club.Code,
			Name:             entry.Club.Name,
			Tricode:          entry.Club.AbbreviatedName,
			Logo:             entry.Club.Images.Crest,
			GamesPlayed:      entry.Data.GamesPlayed,
			GamesWon:         entry.Data.GamesWon,
			GamesLost:        entry.Data.GamesLost,
			PointsFor:        entry.Data.PointsFavour,
			PointsAgainst:    entry.Data.PointsAgainst,
			PointsDifference: entry.Data.PointsFavour - entry.Data.PointsAgainst,
			WinPercentage:    winPercentage(entry.Data.GamesWon, entry.Data.GamesPlayed),
			Qualified:        entry.Data.Qualified,
		})
	}

	encoded, err := json.Marshal(standings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal standings: %w", err)
	}
	byRound[round] = encoded
	if err := c.store.Write(ctx, c.key("standings"), byRound); err != nil {
		return nil, err
	}
	return standings, nil
}

// unwrapStandings handles an older cached shape where the round entry was an
// object wrapping the list in a "teams" field instead of a bare array.
func unwrapStandings(raw json.RawMessage) ([]models.StandingsEntry, error) {
	var standings []models.StandingsEntry
	if err := json.Unmarshal(raw, &standings); err == nil {
		return standings, nil
	}
	var wrapped struct {
		Teams []models.StandingsEntry `json:"teams"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unreadable cached standings entry: %w", err)
	}
	return wrapped.Teams, nil
}

// clubCrests maps club code to crest URL from the cached clubs metadata.
// Best-effort: joins silently degrade to empty logos when the metadata was
// never populated.
func (c *EuroleagueClient) clubCrests(ctx context.Context) map[string]string {
	var clubs []elClubData
	if _, err := c.store.Read(ctx, c.key("clubs_data"), &clubs); err != nil {
		c.logger.WithError(err).Warn("Failed to read clubs metadata")
		return nil
	}
	crests := make(map[string]string, len(clubs))
	for _, club := range clubs {
		crests[club.Code] = club.Images.Crest
	}
	return crests
}

func (c *EuroleagueClient) fetch(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	result, err := c.breaker.Execute(breakerEuroleague, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *EuroleagueClient) getXML(ctx context.Context, path string, dest interface{}) error {
	body, err := c.fetch(ctx, path)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse XML response: %w", err)
	}
	return nil
}

func (c *EuroleagueClient) getJSON(ctx context.Context, path string, dest interface{}) error {
	body, err := c.fetch(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
