package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nikola411/score-tracker/internal/api/handlers"
	"github.com/nikola411/score-tracker/internal/services"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, aggregator *services.StatsAggregator) {
	leaguesHandler := handlers.NewLeaguesHandler()
	dataHandler := handlers.NewLeagueDataHandler(aggregator)

	// League catalog
	group.GET("/leagues", leaguesHandler.GetLeagues)

	// Per-league data endpoints
	group.GET("/:league/player-stats", dataHandler.GetPlayerStats)
	group.GET("/:league/schedule", dataHandler.GetSchedule)
	group.GET("/:league/standings", dataHandler.GetStandings)
	group.GET("/:league/rosters", dataHandler.GetRosters)
	group.GET("/:league/boxscore/:gameId", dataHandler.GetBoxScore)
}
