package profileservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	playerfetcher "hoopstats/fetcher/data/player"
	teamfetcher "hoopstats/fetcher/data/team"
	"hoopstats/fetcher/repositories"
	"hoopstats/pkg/messages"
	"hoopstats/pkg/nbavalues/permode"
	"hoopstats/pkg/nbavalues/season"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotzones"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidRequest = errors.New("invalid profile request")
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found")
)

// PlayerSource returns the player rows of the provider.
type PlayerSource interface {
	GetBio(ctx context.Context, playerID int, onDemand bool) (*profile.Bio, bool, error)
	GetLeagueStats(ctx context.Context, season string, seasonType string, perMode string, onDemand bool) (playerfetcher.PlayerStats, error)
}

// TeamSource returns the team rows of the provider.
type TeamSource interface {
	GetLeagueStats(ctx context.Context, season string, seasonType string, perMode string, onDemand bool) (teamfetcher.TeamStats, error)
}

// ShotSource returns the shot chart of a player.
type ShotSource interface {
	GetShotChart(ctx context.Context, playerID int, teamID int, season string, seasonType string, onDemand bool) ([]shotzones.Shot, error)
}

// Request identifies the profile to build.
type Request struct {
	PlayerID   int
	Season     string
	SeasonType string
}

// ProfileServiceDeps are the dependencies of the profile service.
// The repositories are optional, without them the profiles are only returned.
type ProfileServiceDeps struct {
	Player            PlayerSource
	Team              TeamSource
	Shots             ShotSource
	ProfileRepository repositories.ProfileRepository
	CacheRepository   repositories.CacheRepository
	Logger            logrus.FieldLogger
	DefaultSeason     string
	DefaultSeasonType string
}

// ProfileService builds the player profiles.
type ProfileService struct {
	player            PlayerSource
	team              TeamSource
	shots             ShotSource
	profileRepository repositories.ProfileRepository
	cacheRepository   repositories.CacheRepository
	logger            logrus.FieldLogger
	defaultSeason     string
	defaultSeasonType string
	now               func() time.Time
}

// NewProfileService creates the profile service.
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

	return &ProfileService{
		player:            deps.Player,
		team:              deps.Team,
		shots:             deps.Shots,
		profileRepository: deps.ProfileRepository,
		cacheRepository:   deps.CacheRepository,
		logger:            log,
		defaultSeason:     defaultSeason,
		defaultSeasonType: defaultSeasonType,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// Normalize applies the default season and validates the request.
func (s *ProfileService) Normalize(req Request) (Request, error) {
	if req.PlayerID <= 0 {
		return req, fmt.Errorf("%w: "+messages.InvalidPlayerId, ErrInvalidRequest, fmt.Sprint(req.PlayerID))
	}

	if req.Season == "" {
		req.Season = s.defaultSeason
	}
	if req.SeasonType == "" {
		req.SeasonType = s.defaultSeasonType
	}

	if !season.Valid(req.Season) {
		return req, fmt.Errorf("%w: "+messages.InvalidSeason, ErrInvalidRequest, req.Season)
	}
	if !season.ValidType(req.SeasonType) {
		return req, fmt.Errorf("%w: "+messages.InvalidSeasonType, ErrInvalidRequest, req.SeasonType)
	}

	return req, nil
}

// BuildPlayerProfile fetches every table of the player and builds the profile.
// Background builds are paced by the limiter interval, on demand builds only by its windows.
func (s *ProfileService) BuildPlayerProfile(ctx context.Context, req Request, onDemand bool) (*profile.Profile, error) {
	req, err := s.Normalize(req)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"player_id":   req.PlayerID,
		"season":      req.Season,
		"season_type": req.SeasonType,
		"on_demand":   onDemand,
	})
	start := s.now()

	var (
		bio      *profile.Bio
		bioFound bool
		totals   playerfetcher.PlayerStats
		per100   playerfetcher.PlayerStats
		teams    teamfetcher.TeamStats
	)

	// The league tables don't depend on each other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bio, bioFound, err = s.player.GetBio(gctx, req.PlayerID, onDemand)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.player.GetLeagueStats(gctx, req.Season, req.SeasonType, permode.Totals, onDemand)
		return err
	})
	g.Go(func() error {
		var err error
		per100, err = s.player.GetLeagueStats(gctx, req.Season, req.SeasonType, permode.Per100Possessions, onDemand)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.team.GetLeagueStats(gctx, req.Season, req.SeasonType, permode.Totals, onDemand)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("couldn't fetch the stats of %d: %w", req.PlayerID, err)
	}

	if !bioFound {
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, req.PlayerID)
	}

	playerLine, ok := totals.Find(req.PlayerID)
	if !ok {
		return nil, fmt.Errorf("%w: no %s %s totals for %d", ErrPlayerNotFound, req.Season, req.SeasonType, req.PlayerID)
	}

	per100Line, ok := per100.Find(req.PlayerID)
	if !ok {
		return nil, fmt.Errorf("%w: no %s %s per 100 possessions for %d", ErrPlayerNotFound, req.Season, req.SeasonType, req.PlayerID)
	}

	// Totals rows carry the team the player last played for in the season.
	teamLine, ok := teams.Find(playerLine.TeamID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, playerLine.TeamID)
	}

	shots, err := s.shots.GetShotChart(ctx, req.PlayerID, bio.TeamID, req.Season, req.SeasonType, onDemand)
	if err != nil {
		return nil, fmt.Errorf("couldn't fetch the shot chart of %d: %w", req.PlayerID, err)
	}

	p := profile.Build(profile.Inputs{
		Season:     req.Season,
		SeasonType: req.SeasonType,
		Bio:        *bio,
		Totals:     playerLine.Totals,
		Team:       teamLine.Totals,
		FGAPer100:  per100Line.Totals.FGA,
		Shots:      shots,
		FetchedAt:  s.now(),
	})

	s.store(ctx, log, p)

	log.WithFields(logrus.Fields{
		"shots":   len(shots),
		"elapsed": s.now().Sub(start).String(),
	}).Info("Profile built")

	return p, nil
}

// Store the snapshot and warm the cache.
// Failures are only logged, the profile is still returned to the caller.
func (s *ProfileService) store(ctx context.Context, log logrus.FieldLogger, p *profile.Profile) {
	if s.profileRepository != nil {
		if err := s.profileRepository.UpsertProfile(ctx, p); err != nil {
			log.WithError(err).Error("Couldn't store the profile snapshot")
		}
	}

	if s.cacheRepository != nil {
		if err := s.cacheRepository.SetProfile(ctx, p); err != nil {
			log.WithError(err).Warn("Couldn't cache the profile")
		}
	}
}
