package modules

import (
	"context"

	"hoopstats/api/handlers"
)

func initializeHealthHandler(deps *ModuleDependencies) *handlers.HealthHandler {
	checks := map[string]handlers.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		},
	}

	return handlers.NewHealthHandler(&handlers.HealthHandlerDependencies{Checks: checks})
}
