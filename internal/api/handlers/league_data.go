package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nikola411/score-tracker/internal/providers"
	"github.com/nikola411/score-tracker/internal/services"
	"github.com/nikola411/score-tracker/pkg/utils"
)

// LeagueDataHandler exposes the per-league aggregation surface: rosters,
// player stats, schedule, standings and box scores.
type LeagueDataHandler struct {
	aggregator *services.StatsAggregator
}

func NewLeagueDataHandler(aggregator *services.StatsAggregator) *LeagueDataHandler {
	return &LeagueDataHandler{
		aggregator: aggregator,
	}
}

// sendDataError maps aggregator failures to HTTP: absent data and unknown
// leagues are 404, anything else 500.
func sendDataError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, providers.ErrUnavailable), errors.Is(err, services.ErrUnknownLeague):
		utils.SendNotFound(c, message)
	default:
		utils.SendInternalError(c, err.Error())
	}
}

func (h *LeagueDataHandler) GetPlayerStats(c *gin.Context) {
	stats, err := h.aggregator.PlayerStats(c.Request.Context(), c.Param("league"))
	if err != nil {
		sendDataError(c, err, "Player stats not available")
		return
	}
	utils.SendSuccess(c, stats)
}

func (h *LeagueDataHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.aggregator.Schedule(c.Request.Context(), c.Param("league"))
	if err != nil {
		sendDataError(c, err, "Schedule not available")
		return
	}
	utils.SendSuccess(c, schedule)
}

func (h *LeagueDataHandler) GetStandings(c *gin.Context) {
	standings, err := h.aggregator.Standings(c.Request.Context(), c.Param("league"), c.Query("round"))
	if err != nil {
		sendDataError(c, err, "Standings not available")
		return
	}
	utils.SendSuccess(c, standings)
}

func (h *LeagueDataHandler) GetRosters(c *gin.Context) {
	rosters, err := h.aggregator.Rosters(c.Request.Context(), c.Param("league"))
	if err != nil {
		sendDataError(c, err, "Rosters not available")
		return
	}
	utils.SendSuccess(c, rosters)
}

func (h *LeagueDataHandler) GetBoxScore(c *gin.Context) {
	gameID := c.Param("gameId")
	if gameID == "" {
		utils.SendValidationError(c, "Missing game ID", "")
		return
	}
	box, err := h.aggregator.BoxScore(c.Request.Context(), c.Param("league"), gameID)
	if err != nil {
		sendDataError(c, err, "Box score not available")
		return
	}
	utils.SendSuccess(c, box)
}
