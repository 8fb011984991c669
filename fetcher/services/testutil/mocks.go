package testutil

import (
	"context"
	"testing"

	playerfetcher "hoopstats/fetcher/data/player"
	teamfetcher "hoopstats/fetcher/data/team"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotzones"

	"github.com/stretchr/testify/mock"
)

// Assert the expectations of all mocks.
func VerifyAllMocks(t *testing.T, mocks ...any) {
	t.Helper()

	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(mock.TestingT) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

// ============================================================================
// Mock implementations of the stats sources.
// ============================================================================

type MockPlayerSource struct {
	mock.Mock
}

func (m *MockPlayerSource) GetBio(ctx context.Context, playerID int, onDemand bool) (*profile.Bio, bool, error) {
	args := m.Called(ctx, playerID, onDemand)
	bio, _ := args.Get(0).(*profile.Bio)
	return bio, args.Bool(1), args.Error(2)
}

func (m *MockPlayerSource) GetLeagueStats(ctx context.Context, season string, seasonType string, perMode string, onDemand bool) (playerfetcher.PlayerStats, error) {
	args := m.Called(ctx, season, seasonType, perMode, onDemand)
	stats, _ := args.Get(0).(playerfetcher.PlayerStats)
	return stats, args.Error(1)
}

type MockTeamSource struct {
	mock.Mock
}

func (m *MockTeamSource) GetLeagueStats(ctx context.Context, season string, seasonType string, perMode string, onDemand bool) (teamfetcher.TeamStats, error) {
	args := m.Called(ctx, season, seasonType, perMode, onDemand)
	stats, _ := args.Get(0).(teamfetcher.TeamStats)
	return stats, args.Error(1)
}

type MockShotSource struct {
	mock.Mock
}

func (m *MockShotSource) GetShotChart(ctx context.Context, playerID int, teamID int, season string, seasonType string, onDemand bool) ([]shotzones.Shot, error) {
	args := m.Called(ctx, playerID, teamID, season, seasonType, onDemand)
	shots, _ := args.Get(0).([]shotzones.Shot)
	return shots, args.Error(1)
}

// ============================================================================
// Mock implementations of the repositories.
// ============================================================================

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) UpsertProfile(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetProfile(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
