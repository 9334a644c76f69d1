package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikola411/score-tracker/internal/models"
	"github.com/nikola411/score-tracker/internal/providers"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeProvider returns canned values, or err from every operation when set.
type fakeProvider struct {
	league    models.League
	err       error
	schedule  []models.GameRound
	populated int
}

func (f *fakeProvider) League() models.League { return f.league }

func (f *fakeProvider) Populate(ctx context.Context) { f.populated++ }

func (f *fakeProvider) Rosters(ctx context.Context) ([]models.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Team{{TeamID: "T1"}}, nil
}

func (f *fakeProvider) PlayerStats(ctx context.Context) ([]models.PlayerSeasonStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.PlayerSeasonStats{{PlayerID: "P1"}}, nil
}

func (f *fakeProvider) Schedule(ctx context.Context) ([]models.GameRound, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

func (f *fakeProvider) BoxScore(ctx context.Context, gameCode string) (*models.BoxScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.BoxScore{GameCode: gameCode}, nil
}

func (f *fakeProvider) Standings(ctx context.Context, round string) ([]models.StandingsEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.StandingsEntry{{Position: 1}}, nil
}

func (f *fakeProvider) LatestPlayedRound(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "7", nil
}

func TestAggregatorRoutesByLeague(t *testing.T) {
	el := &fakeProvider{league: models.LeagueEuroleague, schedule: []models.GameRound{{Gameday: "1"}}}
	nba := &fakeProvider{league: models.LeagueNBA, schedule: []models.GameRound{{Gameday: "2025-11-04"}}}
	agg := NewStatsAggregator(testLogger(), el, nba)
	ctx := context.Background()

	rounds, err := agg.Schedule(ctx, "euroleague")
	require.NoError(t, err)
	assert.Equal(t, "1", rounds[0].Gameday)

	rounds, err = agg.Schedule(ctx, "nba")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-04", rounds[0].Gameday)
}

func TestAggregatorUnknownLeague(t *testing.T) {
	agg := NewStatsAggregator(testLogger(), &fakeProvider{league: models.LeagueNBA})

	_, err := agg.Schedule(context.Background(), "nhl")
	assert.ErrorIs(t, err, ErrUnknownLeague)

	_, err = agg.BoxScore(context.Background(), "", "001")
	assert.ErrorIs(t, err, ErrUnknownLeague)
}

func TestAggregatorTranslatesAdapterFailures(t *testing.T) {
	broken := &fakeProvider{league: models.LeagueNBA, err: errors.New("connection refused")}
	agg := NewStatsAggregator(testLogger(), broken)
	ctx := context.Background()

	_, err := agg.Rosters(ctx, "nba")
	assert.ErrorIs(t, err, providers.ErrUnavailable)

	_, err = agg.Standings(ctx, "nba", "")
	assert.ErrorIs(t, err, providers.ErrUnavailable)

	_, err = agg.LatestPlayedRound(ctx, "nba")
	assert.ErrorIs(t, err, providers.ErrUnavailable)
}

func TestAggregatorPassesThroughUnavailable(t *testing.T) {
	empty := &fakeProvider{league: models.LeagueEuroleague, err: providers.ErrUnavailable}
	agg := NewStatsAggregator(testLogger(), empty)

	_, err := agg.PlayerStats(context.Background(), "euroleague")
	assert.ErrorIs(t, err, providers.ErrUnavailable)
}

func TestDataFetcherPopulatesAllAdapters(t *testing.T) {
	el := &fakeProvider{league: models.LeagueEuroleague}
	nba := &fakeProvider{league: models.LeagueNBA}
	fetcher := NewDataFetcherService([]providers.StatsProvider{el, nba}, testLogger(), "0 5 * * *")

	fetcher.PopulateAll(context.Background())
	assert.Equal(t, 1, el.populated)
	assert.Equal(t, 1, nba.populated)
}

func TestDataFetcherStartStop(t *testing.T) {
	fetcher := NewDataFetcherService(nil, testLogger(), "0 5 * * *")

	require.NoError(t, fetcher.Start())
	assert.Error(t, fetcher.Start(), "second start must be rejected")
	fetcher.Stop()
	fetcher.Stop() // idempotent
}

func TestDataFetcherRejectsBadSchedule(t *testing.T) {
	fetcher := NewDataFetcherService(nil, testLogger(), "not a cron expression")
	assert.Error(t, fetcher.Start())
}
