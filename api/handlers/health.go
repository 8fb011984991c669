package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports the state of the API dependencies.
type HealthHandler struct {
	checks map[string]HealthCheck
}

type HealthHandlerDependencies struct {
	Checks map[string]HealthCheck
}

// NewHealthHandler creates a new instance of the health handler.
func NewHealthHandler(deps *HealthHandlerDependencies) *HealthHandler {
	return &HealthHandler{checks: deps.Checks}
}

// GetHealth runs every check, any failure answers 503.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	code := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			code = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}

	if code != http.StatusOK {
		c.JSON(code, gin.H{"error": result})
		return
	}

	c.JSON(code, gin.H{"result": result})
}
