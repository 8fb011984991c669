package modules

import (
	"time"

	"hoopstats/api/cache"
	"hoopstats/api/handlers"
	"hoopstats/pkg/config"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

// ModuleDependencies are the shared clients every handler is built from.
type ModuleDependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.RedisClient
	GrpcClient grpc.ClientConnInterface
	Logger     logrus.FieldLogger

	profileMemCache *cache.MemCache[*profile.Profile]
}

// Module containing the necessary handlers.
type Module struct {
	Router         *gin.Engine
	ProfileHandler *handlers.ProfileHandler
	MetricsHandler *handlers.MetricsHandler
	HealthHandler  *handlers.HealthHandler

	deps *ModuleDependencies
}

// Create a new module with all the necessary handlers initialized.
func NewModule(deps *ModuleDependencies) *Module {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))

	deps.profileMemCache = cache.NewMemCache[*profile.Profile](deps.Config.Cache.MemoryTTL)

	return &Module{
		Router:         router,
		ProfileHandler: initializeProfileHandler(deps),
		MetricsHandler: handlers.NewMetricsHandler(),
		HealthHandler:  initializeHealthHandler(deps),
		deps:           deps,
	}
}

// Close stops the background workers of the module.
func (m *Module) Close() {
	m.deps.profileMemCache.Close()
}

// requestLogger writes a structured line per request.
func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}
