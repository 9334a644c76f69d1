package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikola411/score-tracker/internal/cache"
	"github.com/nikola411/score-tracker/internal/models"
)

func newTestEuroleagueClient(t *testing.T, baseURL string) (*EuroleagueClient, cache.Store) {
	t.Helper()
	store := newTestStore(t)
	c := NewEuroleagueClient(store, passBreaker{}, testLogger(), 0)
	c.baseURL = baseURL
	return c, store
}

// euroleagueStub mimics the upstream API: XML for v1 schedule/results/teams,
// JSON for clubs, standings and game stats. Two rounds, two clubs, one
// played game.
func euroleagueStub(t *testing.T, requests *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(requests, 1)
		switch {
		case r.URL.Path == "/v1/teams":
			fmt.Fprint(w, `<clubs>
				<club code="PAN" name="Panathinaikos">
					<roster>
						<player code="P001" name="NUNN, KENDRICK" dorsal="25" position="Guard" countryname="USA"/>
						<player code="P002" name="SLOUKAS, KOSTAS" dorsal="11" position="Guard" countryname="Greece"/>
					</roster>
				</club>
				<club code="MAD" name="Real Madrid">
					<roster>
						<player code="P003" name="CAMPAZZO, FACUNDO" dorsal="7" position="Guard" countryname="Argentina"/>
					</roster>
				</club>
			</clubs>`)
		case r.URL.Path == "/v2/clubs":
			fmt.Fprint(w, `{"data":[
				{"code":"PAN","name":"Panathinaikos","images":{"crest":"https://img.example/pan.png"}},
				{"code":"MAD","name":"Real Madrid","images":{"crest":"https://img.example/mad.png"}}
			]}`)
		case strings.HasPrefix(r.URL.Path, "/v3/competitions/E/statistics/players/traditional"):
			fmt.Fprint(w, `{"total":2,"players":[
				{"player":{"code":"P001","name":"Nunn, Kendrick","team":{"code":"PAN","name":"Panathinaikos"}},
				 "gamesPlayed":10,"minutesPlayed":28.5,"pointsScored":19.2,"totalRebounds":3.1,
				 "assists":2.8,"steals":0.9,"blocks":0.2,"turnovers":1.7,
				 "twoPointersPercentage":"55.2%","threePointersPercentage":"39.1%","freeThrowsPercentage":"88.0%","pir":18.4},
				{"player":{"code":"P003","name":"Campazzo, Facundo","team":{"code":"MAD","name":"Real Madrid"}},
				 "gamesPlayed":9,"minutesPlayed":24.0,"pointsScored":10.5,"totalRebounds":2.0,
				 "assists":6.1,"steals":1.4,"blocks":0.1,"turnovers":2.2,
				 "twoPointersPercentage":"48.0%","threePointersPercentage":"35.5%","freeThrowsPercentage":"78.9%","pir":14.0}
			]}`)
		case r.URL.Path == "/v1/schedules":
			round := r.URL.Query().Get("gameNumber")
			fmt.Fprintf(w, `<schedule>
				<item>
					<gameday>%s</gameday>
					<group>Regular Season</group>
					<date>Oct 1, 2025</date>
					<startime>20:00</startime>
					<gamecode>E2025_%s</gamecode>
					<hometeam>Panathinaikos</hometeam>
					<homecode>PAN</homecode>
					<awayteam>Real Madrid</awayteam>
					<awaycode>MAD</awaycode>
					<arenaname>OAKA</arenaname>
				</item>
			</schedule>`, round, round)
		case r.URL.Path == "/v1/results":
			if r.URL.Query().Get("gameNumber") == "1" {
				fmt.Fprint(w, `<results>
					<game>
						<gamecode>E2025_1</gamecode>
						<homescore>87</homescore>
						<awayscore>80</awayscore>
					</game>
				</results>`)
				return
			}
			fmt.Fprint(w, `<results></results>`)
		case strings.HasSuffix(r.URL.Path, "/standings"):
			fmt.Fprint(w, `[{"name":"Regular Season","standings":[
				{"club":{"code":"PAN","name":"Panathinaikos","abbreviatedName":"PAO","images":{"crest":"https://img.example/pan.png"}},
				 "data":{"position":1,"gamesPlayed":10,"gamesWon":8,"gamesLost":2,"pointsFavour":850,"pointsAgainst":790,"qualified":true}},
				{"club":{"code":"MAD","name":"Real Madrid","abbreviatedName":"RMB","images":{"crest":"https://img.example/mad.png"}},
				 "data":{"position":2,"gamesPlayed":10,"gamesWon":7,"gamesLost":3,"pointsFavour":830,"pointsAgainst":800,"qualified":true}}
			]}]`)
		case strings.HasSuffix(r.URL.Path, "/stats"):
			fmt.Fprint(w, `{
				"localClub":{"code":"PAN","name":"Panathinaikos","playerStats":[
					{"player":{"code":"P001","name":"Nunn, Kendrick","position":"Guard"},
					 "minutes":"32:10","points":24,"totalRebounds":4,"assistances":3,"steals":1,"blocksFavour":0,
					 "turnovers":2,"fieldGoalsMade2":6,"fieldGoalsAttempted2":10,"fieldGoalsMade3":3,"fieldGoalsAttempted3":7,
					 "freeThrowsMade":3,"freeThrowsAttempted":4,"valuation":26},
					{"player":{"code":"P002","name":"Sloukas, Kostas","position":"Guard"},
					 "minutes":"DNP","points":0,"totalRebounds":0,"assistances":0,"steals":0,"blocksFavour":0,
					 "turnovers":0,"fieldGoalsMade2":0,"fieldGoalsAttempted2":0,"fieldGoalsMade3":0,"fieldGoalsAttempted3":0,
					 "freeThrowsMade":0,"freeThrowsAttempted":0,"valuation":0}
				]},
				"roadClub":{"code":"MAD","name":"Real Madrid","playerStats":[
					{"player":{"code":"P003","name":"Campazzo, Facundo","position":"Guard"},
					 "minutes":"28:45","points":12,"totalRebounds":2,"assistances":8,"steals":2,"blocksFavour":0,
					 "turnovers":3,"fieldGoalsMade2":3,"fieldGoalsAttempted2":6,"fieldGoalsMade3":2,"fieldGoalsAttempted3":5,
					 "freeThrowsMade":0,"freeThrowsAttempted":0,"valuation":15}
				]}
			}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestEuroleaguePopulateAndSchedule(t *testing.T) {
	var requests int64
	srv := euroleagueStub(t, &requests)
	defer srv.Close()

	c, store := newTestEuroleagueClient(t, srv.URL)
	c.rounds = 3
	ctx := context.Background()

	c.Populate(ctx)

	// The derived team-name listing gets written alongside the rosters.
	var names []string
	found, err := store.Read(ctx, "euroleague:teams", &names)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Panathinaikos", "Real Madrid"}, names)

	rounds, err := c.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	assert.Equal(t, "1", rounds[0].Gameday)
	assert.Equal(t, "Regular Season", rounds[0].Group)
	require.Len(t, rounds[0].Games, 1)

	played := rounds[0].Games[0]
	assert.Equal(t, "E2025_1", played.GameCode)
	assert.True(t, played.Played)
	require.NotNil(t, played.HomeScore)
	require.NotNil(t, played.AwayScore)
	assert.Equal(t, 87, *played.HomeScore)
	assert.Equal(t, 80, *played.AwayScore)
	assert.Equal(t, "https://img.example/pan.png", played.HomeLogo)
	assert.Equal(t, "https://img.example/mad.png", played.AwayLogo)

	// Only round 1 appears in the results payload; the rest stay unplayed.
	for _, round := range rounds[1:] {
		upcoming := round.Games[0]
		assert.False(t, upcoming.Played)
		assert.Nil(t, upcoming.HomeScore)
		assert.Nil(t, upcoming.AwayScore)
	}
}

func TestEuroleaguePopulateIsWriteIfAbsent(t *testing.T) {
	var requests int64
	srv := euroleagueStub(t, &requests)
	defer srv.Close()

	c, _ := newTestEuroleagueClient(t, srv.URL)
	c.rounds = 2
	ctx := context.Background()

	c.Populate(ctx)
	afterFirst := atomic.LoadInt64(&requests)

	c.Populate(ctx)
	assert.Equal(t, afterFirst, atomic.LoadInt64(&requests), "second population must not re-fetch existing keys")
}

func TestEuroleagueRostersJoinCrests(t *testing.T) {
	var requests int64
	srv := euroleagueStub(t, &requests)
	defer srv.Close()

	c, _ := newTestEuroleagueClient(t, srv.URL)
	c.rounds = 2
	ctx := context.Background()

	c.Populate(ctx)

	teams, err := c.Rosters(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "PAN", teams[0].TeamID)
	assert.Equal(t, "https://img.example/pan.png", teams[0].Logo)
	require.Len(t, teams[0].Roster, 2)
	assert.Equal(t, "NUNN, KENDRICK", teams[0].Roster[0].Name)
	assert.Equal(t, "25", teams[0].Roster[0].Jersey)
}

func TestEuroleagueRostersAbsent(t *testing.T) {
	c, _ := newTestEuroleagueClient(t, "http://unused.invalid")

	_, err := c.Rosters(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEuroleaguePlayerStats(t *testing.T) {
	var requests int64
	srv := euroleagueStub(t, &requests)
	defer srv.Close()

	c, _ := newTestEuroleagueClient(t, srv.URL)
	c.rounds = 2
	ctx := context.Background()

	c.Populate(ctx)

	stats, err := c.PlayerStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].Rank)
	assert.Equal(t, "Nunn, Kendrick", stats[0].Name)
	assert.Equal(t, "Panathinaikos", stats[0].Team)
	assert.Equal(t, 19.2, stats[0].Points)
	assert.Equal(t, "55.2%", stats[0].FieldGoalPct)
	assert.Equal(t, 2, stats[1].Rank)
}

func TestEuroleagueBoxScoreCachedAfterFirstFetch(t *testing.T) {
	var requests int64
	srv := euroleagueStub(t, &requests)
	defer srv.Close()

	c, store := newTestEuroleagueClient(t, srv.URL)
	ctx := context.Background()

	box, err := c.BoxScore(ctx, "E2025_10")
	require.NoError(t, err)
	assert.Equal(t, "E2025_10", box.GameCode)
	assert.Equal(t, "Panathinaikos", box.Local.TeamName)

	require.Len(t, box.Local.Players, 2)
	nunn := box.Local.Players[0]
	require.NotNil(t, nunn.Stats.Min)
	assert.Equal(t, "32:10", *nunn.Stats.Min)
	assert.Equal(t, 24, nunn.Stats.Points)
	// Made field goals combine twos and threes.
	assert.Equal(t, 9, nunn.Stats.FGM)
	assert.Equal(t, 17, nunn.Stats.FGA)
	assert.Equal(t, float64(26), nunn.Stats.PlusMinus)
	// DNP players carry no minutes value.
	assert.Nil(t, box.Local.Players[1].Stats.Min)

	fetched := atomic.LoadInt64(&requests)
	again, err := c.BoxScore(ctx, "E2025_10")
	require.NoError(t, err)
	assert.Equal(t, box.GameCode, again.GameCode)
	assert.Equal(t, fetched, atomic.LoadInt64(&requests), "cached box score must not re-fetch")

	var cached []models.BoxScore
	found, err := store.Read(ctx, "euroleague:box_score", &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, cached, 1)
}

func TestEuroleagueBoxScoreInvalidGameCode(t *testing.T) {
	c, _ := newTestEuroleagueClient(t, "http://unused.invalid")

	_, err := c.BoxScore(context.Background(), "nounderscore")
	assert.Error(t, err)
}

func TestEuroleagueStandingsCachedPerRound(t *testing.T) {
	var requests int64
	srv := euroleagueStub(t, &requests)
	defer srv.Close()

	c, _ := newTestEuroleagueClient(t, srv.URL)
	ctx := context.Background()

	standings, err := c.Standings(ctx, "5")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, 1, standings[0].Position)
	assert.Equal(t, "PAN", standings[0].TeamID)
	assert.Equal(t, "PAO", standings[0].Tricode)
	assert.Equal(t, 60, standings[0].PointsDifference)
	assert.Equal(t, "80%", standings[0].WinPercentage)
	assert.True(t, standings[0].Qualified)

	fetched := atomic.LoadInt64(&requests)
	again, err := c.Standings(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, standings, again)
	assert.Equal(t, fetched, atomic.LoadInt64(&requests), "cached round must not re-fetch")

	// A different round is fetched on demand and cached separately.
	_, err = c.Standings(ctx, "6")
	require.NoError(t, err)
	assert.Greater(t, atomic.LoadInt64(&requests), fetched)
}

func TestEuroleagueStandingsLegacyWrappedShape(t *testing.T) {
	c, store := newTestEuroleagueClient(t, "http://unused.invalid")
	ctx := context.Background()

	legacy := map[string]json.RawMessage{
		"3": json.RawMessage(`{"teams":[{"position":1,"name":"Panathinaikos","gamesPlayed":3,"gamesWon":3,"gamesLost":0,"winPercentage":"100%"}]}`),
	}
	require.NoError(t, store.Write(ctx, "euroleague:standings", legacy))

	standings, err := c.Standings(ctx, "3")
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, "Panathinaikos", standings[0].Name)
	assert.Equal(t, "100%", standings[0].WinPercentage)
}

func TestEuroleagueLatestPlayedRound(t *testing.T) {
	c, store := newTestEuroleagueClient(t, "http://unused.invalid")
	ctx := context.Background()

	rounds := []elScheduleRound{
		{Gameday: 1, Items: []elScheduleItemXML{{Gameday: 1, Date: "Oct 1, 2025"}}},
		{Gameday: 2, Items: []elScheduleItemXML{{Gameday: 2, Date: "Oct 8, 2025"}}},
		{Gameday: 3, Items: []elScheduleItemXML{{Gameday: 3, Date: "Oct 15, 2025"}}},
	}
	require.NoError(t, store.Write(ctx, "euroleague:schedule", rounds))

	c.now = func() time.Time {
		return time.Date(2025, time.October, 9, 12, 0, 0, 0, time.UTC)
	}
	latest, err := c.LatestPlayedRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", latest)

	// A round counts as reached on its own calendar day.
	c.now = func() time.Time {
		return time.Date(2025, time.October, 8, 9, 0, 0, 0, time.UTC)
	}
	latest, err = c.LatestPlayedRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", latest)
}

func TestEuroleagueLatestPlayedRoundDefaults(t *testing.T) {
	c, _ := newTestEuroleagueClient(t, "http://unused.invalid")

	latest, err := c.LatestPlayedRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", latest)
}
