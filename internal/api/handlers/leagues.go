package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nikola411/score-tracker/internal/models"
	"github.com/nikola411/score-tracker/pkg/utils"
)

// leaguesBySport is the static league catalog served by GET /api/leagues.
var leaguesBySport = map[string][]models.LeagueDescriptor{
	"BASKETBALL": {
		{
			ID:      120,
			Name:    "Euroleague",
			Type:    "cup",
			Logo:    "https://media.api-sports.io/basketball/leagues/120.png",
			Country: models.LeagueCountry{Name: "Europe"},
		},
		{
			ID:      12,
			Name:    "NBA",
			Type:    "League",
			Logo:    "https://media.api-sports.io/basketball/leagues/12.png",
			Country: models.LeagueCountry{Name: "USA"},
		},
	},
	"FOOTBALL": {},
}

type LeaguesHandler struct{}

func NewLeaguesHandler() *LeaguesHandler {
	return &LeaguesHandler{}
}

// GetLeagues returns the league descriptors for a sport, defaulting to
// basketball. An unknown sport yields an empty list, not an error.
func (h *LeaguesHandler) GetLeagues(c *gin.Context) {
	sport := strings.ToUpper(c.DefaultQuery("sport", "BASKETBALL"))
	leagues, ok := leaguesBySport[sport]
	if !ok {
		leagues = []models.LeagueDescriptor{}
	}
	utils.SendSuccess(c, leagues)
}
