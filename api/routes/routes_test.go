package routes

import (
	"net/http"
	"testing"

	"hoopstats/api/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *Router {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	return NewRouter(engine)
}

func TestNewRouter(t *testing.T) {
	router := setupTestRouter()

	assert.NotNil(t, router)
	assert.NotNil(t, router.Engine)
	assert.NotNil(t, router.api)
}

func TestSetupRoutes(t *testing.T) {
	router := setupTestRouter()

	profileHandler := &handlers.ProfileHandler{}
	metricsHandler := &handlers.MetricsHandler{}
	healthHandler := &handlers.HealthHandler{}

	// Unknown handlers are ignored.
	router.SetupRoutes(profileHandler, metricsHandler, healthHandler, "unknown")

	registered := make(map[string]string)
	for _, route := range router.Engine.Routes() {
		registered[route.Path] = route.Method
	}

	assert.Equal(t, map[string]string{
		"/api/v1/players/:playerId/profile":       http.MethodGet,
		"/api/v1/players/:playerId/shotchart.svg": http.MethodGet,
		"/api/v1/metrics/advanced":                http.MethodPost,
		"/health":                                 http.MethodGet,
	}, registered)
}
