package modules

import (
	"time"

	"hoopstats/api/cache"
	grpcclient "hoopstats/api/grpc"
	"hoopstats/api/handlers"
	repositories "hoopstats/api/repositories/profile"
	profileservice "hoopstats/api/services/profile"
)

func initializeProfileHandler(deps *ModuleDependencies) *handlers.ProfileHandler {
	cfg := deps.Config

	// A force fetch runs several provider requests, each bounded by the stats timeout.
	fetchTimeout := cfg.Stats.Timeout * 4

	profileDeps := &profileservice.ProfileServiceDeps{
		Cache:             cache.NewProfileCache(deps.Redis, cfg.Cache.ProfileTTL),
		MemCache:          deps.profileMemCache,
		Repository:        repositories.NewProfileRepository(deps.DB),
		GrpcClient:        grpcclient.NewProfileGRPCClient(deps.GrpcClient, fetchTimeout),
		Logger:            deps.Logger,
		DefaultSeason:     cfg.Stats.DefaultSeason,
		DefaultSeasonType: cfg.Stats.DefaultSeasonType,
		MemoryTTL:         cfg.Cache.MemoryTTL,
		LockTTL:           cfg.Cache.LockTTL,
		LoadTimeout:       fetchTimeout + 10*time.Second,
	}

	profileHandlerDeps := &handlers.ProfileHandlerDependencies{
		ProfileService: profileservice.NewProfileService(profileDeps),
	}

	return handlers.NewProfileHandler(profileHandlerDeps)
}
