package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nikola411/score-tracker/internal/models"
	"github.com/nikola411/score-tracker/internal/providers"
)

// ErrUnknownLeague reports a league discriminator no adapter is registered
// for.
var ErrUnknownLeague = errors.New("unknown league")

// StatsAggregator is the uniform query surface over the per-league adapters.
// It routes by league discriminator, performs no cross-league joins, and
// surfaces adapter failures as absent-data results after logging the failure
// context.
type StatsAggregator struct {
	providers map[models.League]providers.StatsProvider
	logger    *logrus.Logger
}

func NewStatsAggregator(logger *logrus.Logger, adapters ...providers.StatsProvider) *StatsAggregator {
	byLeague := make(map[models.League]providers.StatsProvider, len(adapters))
	for _, p := range adapters {
		byLeague[p.League()] = p
	}
	return &StatsAggregator{
		providers: byLeague,
		logger:    logger,
	}
}

// Providers returns the registered adapters, for startup population.
func (a *StatsAggregator) Providers() []providers.StatsProvider {
	out := make([]providers.StatsProvider, 0, len(a.providers))
	for _, p := range a.providers {
		out = append(out, p)
	}
	return out
}

func (a *StatsAggregator) provider(league string) (providers.StatsProvider, error) {
	p, ok := a.providers[models.League(league)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeague, league)
	}
	return p, nil
}

// translate collapses adapter failures into ErrUnavailable after logging.
// ErrUnavailable itself passes through untouched.
func (a *StatsAggregator) translate(league, operation string, err error) error {
	if err == nil || errors.Is(err, providers.ErrUnavailable) {
		return err
	}
	a.logger.WithFields(logrus.Fields{
		"league":    league,
		"operation": operation,
	}).WithError(err).Error("Adapter call failed")
	return providers.ErrUnavailable
}

func (a *StatsAggregator) Rosters(ctx context.Context, league string) ([]models.Team, error) {
	p, err := a.provider(league)
	if err != nil {
		return nil, err
	}
	teams, err := p.Rosters(ctx)
	return teams, a.translate(league, "rosters", err)
}

func (a *StatsAggregator) PlayerStats(ctx context.Context, league string) ([]models.PlayerSeasonStats, error) {
	p, err := a.provider(league)
	if err != nil {
		return nil, err
	}
	stats, err := p.PlayerStats(ctx)
	return stats, a.translate(league, "player_stats", err)
}

func (a *StatsAggregator) Schedule(ctx context.Context, league string) ([]models.GameRound, error) {
	p, err := a.provider(league)
	if err != nil {
		return nil, err
	}
	rounds, err := p.Schedule(ctx)
	return rounds, a.translate(league, "schedule", err)
}

func (a *StatsAggregator) BoxScore(ctx context.Context, league, gameCode string) (*models.BoxScore, error) {
	p, err := a.provider(league)
	if err != nil {
		return nil, err
	}
	box, err := p.BoxScore(ctx, gameCode)
	return box, a.translate(league, "box_score", err)
}

func (a *StatsAggregator) Standings(ctx context.Context, league, round string) ([]models.StandingsEntry, error) {
	p, err := a.provider(league)
	if err != nil {
		return nil, err
	}
	standings, err := p.Standings(ctx, round)
	return standings, a.translate(league, "standings", err)
}

func (a *StatsAggregator) LatestPlayedRound(ctx context.Context, league string) (string, error) {
	p, err := a.provider(league)
	if err != nil {
		return "", err
	}
	round, err := p.LatestPlayedRound(ctx)
	return round, a.translate(league, "latest_round", err)
}
