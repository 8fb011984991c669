package profileservice

import (
	"testing"
	"time"

	"hoopstats/api/cache"
	"hoopstats/api/services/testutil"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotzones"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

const (
	testSeason     = "2023-24"
	testSeasonType = "Regular Season"
	curryID        = 201939
)

var (
	curryKey       = profile.CacheKey(curryID, testSeason, testSeasonType)
	curryFetchedAt = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
)

// Helper to initialize the mocks.
func setupTestService(t *testing.T) (
	*ProfileService,
	*testutil.MockProfileCache,
	*testutil.MockProfileRepository,
	*testutil.MockProfileGRPCClient,
) {
	t.Helper()

	mockCache := new(testutil.MockProfileCache)
	mockRepo := new(testutil.MockProfileRepository)
	mockGRPC := new(testutil.MockProfileGRPCClient)

	memCache := cache.NewMemCache[*profile.Profile](time.Minute)
	t.Cleanup(memCache.Close)

	log, _ := logtest.NewNullLogger()

	service := NewProfileService(&ProfileServiceDeps{
		Cache:             mockCache,
		MemCache:          memCache,
		Repository:        mockRepo,
		GrpcClient:        mockGRPC,
		Logger:            log,
		DefaultSeason:     testSeason,
		DefaultSeasonType: testSeasonType,
		MemoryTTL:         time.Minute,
		LockTTL:           30 * time.Second,
	})

	return service, mockCache, mockRepo, mockGRPC
}

func curryProfile() *profile.Profile {
	return &profile.Profile{
		TeamID:      1610612744,
		PlayerID:    curryID,
		PlayerName:  "Stephen Curry",
		FGA:         1445,
		FTA:         315,
		GamesPlayed: 74,
		Season:      testSeason,
		SeasonType:  testSeasonType,
		ShotChart: map[string]shotzones.ZoneStats{
			"Restricted Area":       {Attempts: 2, FGPct: 0.5, EFGPct: 0.5},
			"Above the Break 3":     {Attempts: 2, FGPct: 0.5, EFGPct: 0.75},
			shotzones.FreeThrowZone: {Attempts: 315, FGPct: 0.923, EFGPct: 0.923},
		},
		FetchedAt: curryFetchedAt,
	}
}
