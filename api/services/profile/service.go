package profileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"hoopstats/api/cache"
	"hoopstats/api/filters"
	grpcclient "hoopstats/api/grpc"
	repositories "hoopstats/api/repositories/profile"
	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/messages"
	"hoopstats/pkg/nbavalues/season"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotchart"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultLoadTimeout = 2 * time.Minute

var (
	ErrInvalidRequest  = errors.New("invalid profile request")
	ErrNotFound        = errors.New("profile not found")
	ErrFetchInProgress = errors.New("profile fetch in progress")
	ErrUnavailable     = errors.New("stats provider unavailable")
)

// ProfileServiceDeps are the dependencies of the profile service.
type ProfileServiceDeps struct {
	Cache             cache.ProfileCache
	MemCache          *cache.MemCache[*profile.Profile]
	Repository        repositories.ProfileRepository
	GrpcClient        grpcclient.ProfileGRPCClient
	Logger            logrus.FieldLogger
	DefaultSeason     string
	DefaultSeasonType string
	MemoryTTL         time.Duration
	LockTTL           time.Duration
	LoadTimeout       time.Duration
}

// ProfileService resolves the profiles through the cache layers before asking the fetcher.
type ProfileService struct {
	cache             cache.ProfileCache
	memCache          *cache.MemCache[*profile.Profile]
	repository        repositories.ProfileRepository
	grpcClient        grpcclient.ProfileGRPCClient
	logger            logrus.FieldLogger
	defaultSeason     string
	defaultSeasonType string
	memoryTTL         time.Duration
	lockTTL           time.Duration
	loadTimeout       time.Duration
	group             singleflight.Group
}

// NewProfileService creates a service for handling the profile requests.
func NewProfileService(deps *ProfileServiceDeps) *ProfileService {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	defaultSeason := deps.DefaultSeason
	if defaultSeason == "" {
		defaultSeason = season.Current(time.Now())
	}

	defaultSeasonType := deps.DefaultSeasonType
	if defaultSeasonType == "" {
		defaultSeasonType = season.RegularSeason
	}

	loadTimeout := deps.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}

	return &ProfileService{
		cache:             deps.Cache,
		memCache:          deps.MemCache,
		repository:        deps.Repository,
		grpcClient:        deps.GrpcClient,
		logger:            log,
		defaultSeason:     defaultSeason,
		defaultSeasonType: defaultSeasonType,
		memoryTTL:         deps.MemoryTTL,
		lockTTL:           deps.LockTTL,
		loadTimeout:       loadTimeout,
	}
}

// Normalize applies the default season and validates the filter.
func (ps *ProfileService) Normalize(filter *filters.ProfileFilter) (*filters.ProfileFilter, error) {
	if filter == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, messages.FiltersNotNil)
	}

	normalized := *filter
	if normalized.PlayerID <= 0 {
		return nil, fmt.Errorf("%w: "+messages.InvalidPlayerId, ErrInvalidRequest, fmt.Sprint(normalized.PlayerID))
	}

	if normalized.Season == "" {
		normalized.Season = ps.defaultSeason
	}
	if normalized.SeasonType == "" {
		normalized.SeasonType = ps.defaultSeasonType
	}

	if !season.Valid(normalized.Season) {
		return nil, fmt.Errorf("%w: "+messages.InvalidSeason, ErrInvalidRequest, normalized.Season)
	}
	if !season.ValidType(normalized.SeasonType) {
		return nil, fmt.Errorf("%w: "+messages.InvalidSeasonType, ErrInvalidRequest, normalized.SeasonType)
	}

	return &normalized, nil
}

// GetProfile returns the profile of a player.
// Lookup order is memory, redis, the postgres snapshot and finally a force fetch on the fetcher.
func (ps *ProfileService) GetProfile(ctx context.Context, filter *filters.ProfileFilter) (*profile.Profile, error) {
	filter, err := ps.Normalize(filter)
	if err != nil {
		return nil, err
	}

	key := profile.CacheKey(filter.PlayerID, filter.Season, filter.SeasonType)
	if p, ok := ps.memCache.Get(key); ok {
		return p, nil
	}

	// Concurrent requests of the same profile share a single load.
	// The load outlives the caller that started it, each caller only waits on its own context.
	loads := ps.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ps.loadTimeout)
		defer cancel()

		return ps.loadProfile(loadCtx, key, filter)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-loads:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*profile.Profile), nil
	}
}

// RenderShotChart writes the SVG shot chart of a player.
func (ps *ProfileService) RenderShotChart(ctx context.Context, filter *filters.ProfileFilter, w io.Writer) error {
	p, err := ps.GetProfile(ctx, filter)
	if err != nil {
		return err
	}

	shotchart.Render(w, p)
	return nil
}

// loadProfile goes through the shared layers, warming the upper ones on the way back.
func (ps *ProfileService) loadProfile(ctx context.Context, key string, filter *filters.ProfileFilter) (*profile.Profile, error) {
	log := ps.logger.WithFields(logrus.Fields{
		"player_id":   filter.PlayerID,
		"season":      filter.Season,
		"season_type": filter.SeasonType,
	})

	p, err := ps.cache.GetProfile(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Couldn't read the redis cache")
	}
	if p != nil {
		ps.remember(ctx, log, filter, p.FetchedAt)
		ps.memCache.Set(key, p, ps.memoryTTL)
		return p, nil
	}

	p, err = ps.repository.GetProfile(ctx, filter.PlayerID, filter.Season, filter.SeasonType)
	if err != nil {
		log.WithError(err).Warn("Couldn't read the profile snapshot")
	}
	if p != nil {
		if err := ps.cache.SetProfile(ctx, p); err != nil {
			log.WithError(err).Warn("Couldn't warm the redis cache")
		}
		ps.remember(ctx, log, filter, p.FetchedAt)
		ps.memCache.Set(key, p, ps.memoryTTL)
		return p, nil
	}

	p, err = ps.forceFetch(ctx, log, key, filter)
	if err != nil {
		return nil, err
	}

	ps.remember(ctx, log, filter, p.FetchedAt)
	ps.memCache.Set(key, p, ps.memoryTTL)
	return p, nil
}

// forceFetch asks the fetcher for a fresh profile, one request per key at a time across every API instance.
func (ps *ProfileService) forceFetch(ctx context.Context, log logrus.FieldLogger, key string, filter *filters.ProfileFilter) (*profile.Profile, error) {
	acquired, remaining, err := ps.cache.AcquireFetchLock(ctx, key, ps.lockTTL)
	switch {
	case err != nil:
		// Without redis there is no lock to take, the fetcher limiter still protects the provider.
		log.WithError(err).Warn("Couldn't take the fetch lock")
	case !acquired && remaining > 0:
		return nil, fmt.Errorf("%w: try again in %d seconds", ErrFetchInProgress, int(remaining.Seconds()))
	case !acquired:
		return nil, fmt.Errorf("%w: %s", ErrFetchInProgress, messages.OperationInProgress)
	default:
		defer func() {
			if err := ps.cache.ReleaseFetchLock(context.WithoutCancel(ctx), key); err != nil {
				log.WithError(err).Warn("Couldn't release the fetch lock")
			}
		}()
	}

	log.Info("Force fetching the profile")
	p, err := ps.grpcClient.FetchPlayerProfile(ctx, pb.ProfileRequest{
		PlayerID:   filter.PlayerID,
		Season:     filter.Season,
		SeasonType: filter.SeasonType,
		OnDemand:   true,
	})
	if err != nil {
		return nil, fromStatus(err)
	}

	return p, nil
}

// remember marks the player as tracked, a failure only delays the scheduler refreshes.
// The served profile is as fresh as its build, so the scheduler waits a full interval from there.
func (ps *ProfileService) remember(ctx context.Context, log logrus.FieldLogger, filter *filters.ProfileFilter, fetchedAt time.Time) {
	if err := ps.repository.TrackPlayer(ctx, filter.PlayerID, filter.Season, filter.SeasonType, fetchedAt); err != nil {
		log.WithError(err).Warn("Couldn't track the player")
	}
}

// fromStatus converts the fetcher status errors into the service errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("couldn't fetch the profile: %w", err)
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("couldn't fetch the profile: %s", st.Message())
	}
}
