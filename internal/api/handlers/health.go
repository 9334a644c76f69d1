package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nikola411/score-tracker/internal/services"
)

type HealthHandler struct {
	fetcher *services.DataFetcherService
}

func NewHealthHandler(fetcher *services.DataFetcherService) *HealthHandler {
	return &HealthHandler{
		fetcher: fetcher,
	}
}

// GetHealth reports liveness.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "score-tracker",
		"time":    time.Now().UTC(),
	})
}

// GetReady reports readiness: the scheduled fetcher must be running. Cached
// data may still be filling in, which is fine; reads of absent keys are 404s,
// not failures.
func (h *HealthHandler) GetReady(c *gin.Context) {
	if h.fetcher != nil && h.fetcher.IsRunning() {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
}
