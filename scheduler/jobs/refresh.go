package jobs

import (
	"context"
	"fmt"
	"time"

	"hoopstats/pkg/database/models"
	pb "hoopstats/pkg/grpc"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const refreshBatch = 200

// Refresher keeps the tracked profiles fresh through the fetcher.
type Refresher struct {
	store    TrackedStore
	client   pb.ProfileServiceClient
	logger   logrus.FieldLogger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

type RefresherDeps struct {
	Store  TrackedStore
	Client pb.ProfileServiceClient
	Logger logrus.FieldLogger
	// Players refreshed within the interval are skipped.
	Interval time.Duration
	// Timeout of a single build, background builds wait on the slow interval of the fetcher.
	Timeout time.Duration
}

// NewRefresher creates the refresh job.
func NewRefresher(deps *RefresherDeps) *Refresher {
	return &Refresher{
		store:    deps.Store,
		client:   deps.Client,
		logger:   deps.Logger,
		interval: deps.Interval,
		timeout:  deps.Timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RefreshTrackedProfiles rebuilds the stale tracked profiles, one at a time.
// The fetcher persists every rebuilt profile, so nothing is stored here.
func (r *Refresher) RefreshTrackedProfiles(ctx context.Context) error {
	players, err := r.store.StalePlayers(ctx, r.now().Add(-r.interval), refreshBatch)
	if err != nil {
		return fmt.Errorf("couldn't get the stale players: %w", err)
	}

	r.logger.WithField("players", len(players)).Info("Starting the tracked profiles refresh")

	refreshed, failed := 0, 0
	for _, player := range players {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := r.refresh(ctx, player); err != nil {
			failed++
			continue
		}
		refreshed++
	}

	r.logger.WithFields(logrus.Fields{
		"refreshed": refreshed,
		"failed":    failed,
	}).Info("Tracked profiles refresh finished")

	return nil
}

func (r *Refresher) refresh(ctx context.Context, player models.TrackedPlayer) error {
	log := r.logger.WithFields(logrus.Fields{
		"player_id":   player.PlayerID,
		"season":      player.Season,
		"season_type": player.SeasonType,
	})

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := pb.ProfileRequest{
		PlayerID:   player.PlayerID,
		Season:     player.Season,
		SeasonType: player.SeasonType,
		OnDemand:   false,
	}
	if _, err := r.client.FetchPlayerProfile(callCtx, req.ToStruct()); err != nil {
		switch status.Code(err) {
		case codes.NotFound, codes.InvalidArgument:
			// The provider doesn't know this player anymore.
			log.WithError(err).Warn("Untracking the player")
			if err := r.store.Untrack(ctx, player); err != nil {
				log.WithError(err).Error("Couldn't untrack the player")
			}
		default:
			log.WithError(err).Warn("Couldn't refresh the profile")
		}
		return err
	}

	return nil
}
