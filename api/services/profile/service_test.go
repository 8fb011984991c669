package profileservice

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hoopstats/api/filters"
	"hoopstats/api/services/testutil"
	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var curryRequest = pb.ProfileRequest{PlayerID: curryID, Season: testSeason, SeasonType: testSeasonType, OnDemand: true}

func curryFilter() *filters.ProfileFilter {
	return &filters.ProfileFilter{PlayerID: curryID, Season: testSeason, SeasonType: testSeasonType}
}

func TestNormalize(t *testing.T) {
	service, _, _, _ := setupTestService(t)

	tests := []struct {
		name    string
		filter  *filters.ProfileFilter
		want    *filters.ProfileFilter
		wantErr bool
	}{
		{
			name:   "defaults",
			filter: &filters.ProfileFilter{PlayerID: curryID},
			want:   curryFilter(),
		},
		{
			name:   "explicit playoffs",
			filter: &filters.ProfileFilter{PlayerID: curryID, Season: "2021-22", SeasonType: "Playoffs"},
			want:   &filters.ProfileFilter{PlayerID: curryID, Season: "2021-22", SeasonType: "Playoffs"},
		},
		{name: "nil filter", filter: nil, wantErr: true},
		{name: "zero player", filter: &filters.ProfileFilter{}, wantErr: true},
		{name: "bad season", filter: &filters.ProfileFilter{PlayerID: curryID, Season: "2023"}, wantErr: true},
		{name: "skipped year", filter: &filters.ProfileFilter{PlayerID: curryID, Season: "2023-25"}, wantErr: true},
		{name: "bad season type", filter: &filters.ProfileFilter{PlayerID: curryID, SeasonType: "Finals"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Normalize(tt.filter)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetProfileInvalid(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)

	_, err := service.GetProfile(context.Background(), &filters.ProfileFilter{PlayerID: curryID, Season: "23-24"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	mockCache.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "TrackPlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockGRPC.AssertNotCalled(t, "FetchPlayerProfile", mock.Anything, mock.Anything)
}

func TestGetProfileFromRedis(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)
	want := curryProfile()

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(want, nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(nil).Once()

	got, err := service.GetProfile(context.Background(), curryFilter())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The second request is served from memory.
	got, err = service.GetProfile(context.Background(), &filters.ProfileFilter{PlayerID: curryID})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	testutil.VerifyAllMocks(t, mockCache, mockRepo, mockGRPC)
}

func TestGetProfileFromSnapshot(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)
	want := curryProfile()

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(nil, nil).Once()
	mockRepo.On("GetProfile", mock.Anything, curryID, testSeason, testSeasonType).Return(want, nil).Once()
	mockCache.On("SetProfile", mock.Anything, want).Return(nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(nil).Once()

	got, err := service.GetProfile(context.Background(), curryFilter())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	testutil.VerifyAllMocks(t, mockCache, mockRepo, mockGRPC)
}

func TestGetProfileForceFetch(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)
	want := curryProfile()

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(nil, nil).Once()
	mockRepo.On("GetProfile", mock.Anything, curryID, testSeason, testSeasonType).Return(nil, nil).Once()
	mockCache.On("AcquireFetchLock", mock.Anything, curryKey, 30*time.Second).Return(true, time.Duration(0), nil).Once()
	mockGRPC.On("FetchPlayerProfile", mock.Anything, curryRequest).Return(want, nil).Once()
	mockCache.On("ReleaseFetchLock", mock.Anything, curryKey).Return(nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(nil).Once()

	got, err := service.GetProfile(context.Background(), curryFilter())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	testutil.VerifyAllMocks(t, mockCache, mockRepo, mockGRPC)
}

func TestGetProfileStorageDown(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)
	want := curryProfile()
	redisDown := errors.New("dial tcp: connection refused")

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(nil, redisDown).Once()
	mockRepo.On("GetProfile", mock.Anything, curryID, testSeason, testSeasonType).Return(nil, errors.New("sql: database is closed")).Once()
	mockCache.On("AcquireFetchLock", mock.Anything, curryKey, 30*time.Second).Return(false, time.Duration(0), redisDown).Once()
	mockGRPC.On("FetchPlayerProfile", mock.Anything, curryRequest).Return(want, nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(errors.New("sql: database is closed")).Once()

	got, err := service.GetProfile(context.Background(), curryFilter())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mockCache.AssertNotCalled(t, "ReleaseFetchLock", mock.Anything, mock.Anything)
	testutil.VerifyAllMocks(t, mockCache, mockRepo, mockGRPC)
}

func TestGetProfileForceFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		acquired   bool
		remaining  time.Duration
		grpcErr    error
		wantErr    error
		wantMsg    string
		shouldCall bool
	}{
		{
			name:      "lock held",
			remaining: 20 * time.Second,
			wantErr:   ErrFetchInProgress,
			wantMsg:   "try again in 20 seconds",
		},
		{
			name:    "lock without ttl",
			wantErr: ErrFetchInProgress,
			wantMsg: "operation already in progress",
		},
		{
			name:       "unknown player",
			acquired:   true,
			grpcErr:    status.Error(codes.NotFound, "player not found: 1"),
			wantErr:    ErrNotFound,
			wantMsg:    "player not found: 1",
			shouldCall: true,
		},
		{
			name:       "rejected by the fetcher",
			acquired:   true,
			grpcErr:    status.Error(codes.InvalidArgument, "invalid season type"),
			wantErr:    ErrInvalidRequest,
			shouldCall: true,
		},
		{
			name:       "provider down",
			acquired:   true,
			grpcErr:    status.Error(codes.Unavailable, "circuit breaker is open"),
			wantErr:    ErrUnavailable,
			shouldCall: true,
		},
		{
			name:       "internal",
			acquired:   true,
			grpcErr:    status.Error(codes.Internal, "boom"),
			wantMsg:    "couldn't fetch the profile: boom",
			shouldCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockCache, mockRepo, mockGRPC := setupTestService(t)

			mockCache.On("GetProfile", mock.Anything, curryKey).Return(nil, nil).Once()
			mockRepo.On("GetProfile", mock.Anything, curryID, testSeason, testSeasonType).Return(nil, nil).Once()
			mockCache.On("AcquireFetchLock", mock.Anything, curryKey, 30*time.Second).Return(tt.acquired, tt.remaining, nil).Once()
			if tt.shouldCall {
				mockGRPC.On("FetchPlayerProfile", mock.Anything, curryRequest).Return(nil, tt.grpcErr).Once()
				mockCache.On("ReleaseFetchLock", mock.Anything, curryKey).Return(nil).Once()
			}

			got, err := service.GetProfile(context.Background(), curryFilter())
			require.Error(t, err)
			assert.Nil(t, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			// Failed loads aren't tracked.
			mockRepo.AssertNotCalled(t, "TrackPlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			testutil.VerifyAllMocks(t, mockCache, mockRepo, mockGRPC)
		})
	}
}

func TestGetProfileCoalesced(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)
	want := curryProfile()

	release := make(chan struct{})

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(nil, nil).Once()
	// Late requests may still reach redis after the first load finished.
	mockCache.On("GetProfile", mock.Anything, curryKey).Return(want, nil).Maybe()
	mockRepo.On("GetProfile", mock.Anything, curryID, testSeason, testSeasonType).Return(nil, nil).Once()
	mockCache.On("AcquireFetchLock", mock.Anything, curryKey, 30*time.Second).Return(true, time.Duration(0), nil).Once()
	mockGRPC.On("FetchPlayerProfile", mock.Anything, curryRequest).
		Run(func(mock.Arguments) { <-release }).
		Return(want, nil).Once()
	mockCache.On("ReleaseFetchLock", mock.Anything, curryKey).Return(nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(nil)

	const requests = 8
	var wg sync.WaitGroup
	results := make(chan *profile.Profile, requests)
	for range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := service.GetProfile(context.Background(), curryFilter())
			assert.NoError(t, err)
			results <- p
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for p := range results {
		assert.Equal(t, want, p)
	}
	mockGRPC.AssertNumberOfCalls(t, "FetchPlayerProfile", 1)
}

func TestGetProfileFirstCallerLeaves(t *testing.T) {
	service, mockCache, mockRepo, mockGRPC := setupTestService(t)
	want := curryProfile()

	started := make(chan struct{})
	release := make(chan struct{})
	var fetchErr error

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(nil, nil).Once()
	mockRepo.On("GetProfile", mock.Anything, curryID, testSeason, testSeasonType).Return(nil, nil).Once()
	mockCache.On("AcquireFetchLock", mock.Anything, curryKey, 30*time.Second).Return(true, time.Duration(0), nil).Once()
	mockGRPC.On("FetchPlayerProfile", mock.Anything, curryRequest).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			fetchErr = args.Get(0).(context.Context).Err()
		}).
		Return(want, nil).Once()
	mockCache.On("ReleaseFetchLock", mock.Anything, curryKey).Return(nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := service.GetProfile(ctx, curryFilter())
		firstErr <- err
	}()
	<-started

	second := make(chan *profile.Profile, 1)
	go func() {
		p, err := service.GetProfile(context.Background(), curryFilter())
		assert.NoError(t, err)
		second <- p
	}()

	// The client that started the load disconnects.
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	assert.Equal(t, want, <-second)
	assert.NoError(t, fetchErr)
	testutil.VerifyAllMocks(t, mockCache, mockRepo, mockGRPC)
}

func TestRenderShotChart(t *testing.T) {
	service, mockCache, mockRepo, _ := setupTestService(t)

	mockCache.On("GetProfile", mock.Anything, curryKey).Return(curryProfile(), nil).Once()
	mockRepo.On("TrackPlayer", mock.Anything, curryID, testSeason, testSeasonType, curryFetchedAt).Return(nil).Once()

	var buf bytes.Buffer
	require.NoError(t, service.RenderShotChart(context.Background(), curryFilter(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Stephen Curry")
	assert.Contains(t, out, "Free Throw")
	assert.Contains(t, out, "319 attempts")
}

func TestRenderShotChartInvalid(t *testing.T) {
	service, _, _, _ := setupTestService(t)

	var buf bytes.Buffer
	err := service.RenderShotChart(context.Background(), &filters.ProfileFilter{}, &buf)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, buf.Len())
}
