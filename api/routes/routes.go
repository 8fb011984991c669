package routes

import (
	"hoopstats/api/handlers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	Engine *gin.Engine
	api    *gin.RouterGroup
}

func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		api:    engine.Group("/api/v1"),
		Engine: engine,
	}
}

func (r *Router) SetupRoutes(handlerList ...any) {
	for _, h := range handlerList {
		switch handler := h.(type) {
		case *handlers.ProfileHandler:
			r.registerProfileHandler(handler)
		case *handlers.MetricsHandler:
			r.registerMetricsHandler(handler)
		case *handlers.HealthHandler:
			r.registerHealthHandler(handler)
		}
	}
}

// Register the player profile handler.
func (r *Router) registerProfileHandler(handler *handlers.ProfileHandler) {
	players := r.api.Group("/players/:playerId")
	{
		players.GET("/profile", handler.GetProfile)
		players.GET("/shotchart.svg", handler.GetShotChart)
	}
}

// Register the metrics calculator.
func (r *Router) registerMetricsHandler(handler *handlers.MetricsHandler) {
	metrics := r.api.Group("/metrics")
	{
		metrics.POST("/advanced", handler.PostAdvanced)
	}
}

// The health check lives outside the versioned group.
func (r *Router) registerHealthHandler(handler *handlers.HealthHandler) {
	r.Engine.GET("/health", handler.GetHealth)
}

// Start the router.
func (r *Router) Run(addr string) error {
	return r.Engine.Run(addr)
}
