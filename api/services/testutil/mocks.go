package testutil

import (
	"context"
	"testing"
	"time"

	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/profile"

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
// Mock implementations for the cache.
// ============================================================================

type MockProfileCache struct {
	mock.Mock
}

func (m *MockProfileCache) GetProfile(ctx context.Context, key string) (*profile.Profile, error) {
	args := m.Called(ctx, key)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *MockProfileCache) SetProfile(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileCache) AcquireFetchLock(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *MockProfileCache) ReleaseFetchLock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ============================================================================
// Mock implementations for the repositories.
// ============================================================================

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, playerID int, season string, seasonType string) (*profile.Profile, error) {
	args := m.Called(ctx, playerID, season, seasonType)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepository) TrackPlayer(ctx context.Context, playerID int, season string, seasonType string, refreshedAt time.Time) error {
	args := m.Called(ctx, playerID, season, seasonType, refreshedAt)
	return args.Error(0)
}

// ============================================================================
// Mock implementations for the gRPC client.
// ============================================================================

type MockProfileGRPCClient struct {
	mock.Mock
}

func (m *MockProfileGRPCClient) FetchPlayerProfile(ctx context.Context, req pb.ProfileRequest) (*profile.Profile, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}
