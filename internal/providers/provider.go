// Package providers contains the per-league upstream adapters. Each adapter
// fetches from its vendor API, parses the vendor wire format and normalizes
// into the canonical shapes in internal/models, going through the cache store
// for every externally visible read.
package providers

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/nikola411/score-tracker/internal/models"
)

// ErrUnavailable signals absent data: a resource that was never populated or
// that the upstream has no record of. The HTTP layer translates it to 404.
var ErrUnavailable = errors.New("data not available")

// StatsProvider is the uniform call surface both league adapters implement.
// Round keys are strings: Euroleague round numbers in decimal form, NBA
// calendar dates ("2025-11-04").
type StatsProvider interface {
	League() models.League

	// Populate runs the one-time startup population, writing each cache key
	// only if it is currently absent. Best-effort: a failing step is logged
	// and never aborts sibling steps.
	Populate(ctx context.Context)

	Rosters(ctx context.Context) ([]models.Team, error)
	PlayerStats(ctx context.Context) ([]models.PlayerSeasonStats, error)
	Schedule(ctx context.Context) ([]models.GameRound, error)
	BoxScore(ctx context.Context, gameCode string) (*models.BoxScore, error)
	Standings(ctx context.Context, round string) ([]models.StandingsEntry, error)
	LatestPlayedRound(ctx context.Context) (string, error)
}

// Breaker wraps upstream calls with circuit-breaker protection, keyed by
// upstream name. Satisfied by services.CircuitBreakerService.
type Breaker interface {
	Execute(service string, fn func() (interface{}, error)) (interface{}, error)
}

// populationStep is one write-if-absent unit of startup population with its
// own failure boundary.
type populationStep struct {
	name string
	fn   func(context.Context) error
}

// winPercentage formats won/played as a whole-number percentage string,
// with a literal "0%" when no games have been played.
func winPercentage(won, played int) string {
	if played == 0 {
		return "0%"
	}
	pct := int(math.Round(float64(won) / float64(played) * 100))
	return strconv.Itoa(pct) + "%"
}
