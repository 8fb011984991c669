package handlers

import (
	"net/http"

	"hoopstats/api/filters"
	"hoopstats/pkg/advanced"

	"github.com/gin-gonic/gin"
)

// MetricsHandler evaluates the advanced metrics on posted totals.
type MetricsHandler struct{}

// NewMetricsHandler creates a new instance of the metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// PostAdvanced computes the advanced metrics of the player and team totals in the body.
func (h *MetricsHandler) PostAdvanced(c *gin.Context) {
	var body filters.AdvancedMetricsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": advanced.Compute(*body.Player, *body.Team)})
}
