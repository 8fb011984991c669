package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Pruner removes the snapshots of players nobody requests anymore.
type Pruner struct {
	store      TrackedStore
	logger     logrus.FieldLogger
	staleAfter time.Duration
	now        func() time.Time
}

// NewPruner creates the prune job.
func NewPruner(store TrackedStore, log logrus.FieldLogger, staleAfter time.Duration) *Pruner {
	return &Pruner{
		store:      store,
		logger:     log,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PruneProfileSnapshots deletes the untracked snapshots older than the stale window.
func (p *Pruner) PruneProfileSnapshots(ctx context.Context) error {
	deleted, err := p.store.PruneSnapshots(ctx, p.now().Add(-p.staleAfter))
	if err != nil {
		return fmt.Errorf("couldn't prune the profile snapshots: %w", err)
	}

	p.logger.WithField("deleted", deleted).Info("Profile snapshots pruned")
	return nil
}
