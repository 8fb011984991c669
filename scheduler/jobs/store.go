package jobs

import (
	"context"
	"time"

	"hoopstats/pkg/database/models"

	"gorm.io/gorm"
)

// TrackedStore is the storage used by the maintenance jobs.
type TrackedStore interface {
	StalePlayers(ctx context.Context, refreshedBefore time.Time, limit int) ([]models.TrackedPlayer, error)
	Untrack(ctx context.Context, player models.TrackedPlayer) error
	PruneSnapshots(ctx context.Context, updatedBefore time.Time) (int64, error)
}

type trackedStore struct {
	db *gorm.DB
}

// NewTrackedStore creates the gorm backed store.
func NewTrackedStore(db *gorm.DB) TrackedStore {
	return &trackedStore{db: db}
}

// StalePlayers returns the tracked players not refreshed since the given time, oldest first.
func (ts *trackedStore) StalePlayers(ctx context.Context, refreshedBefore time.Time, limit int) ([]models.TrackedPlayer, error) {
	var players []models.TrackedPlayer
	err := ts.db.WithContext(ctx).
		Where("last_refresh < ?", refreshedBefore).
		Order("last_refresh ASC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}

	return players, nil
}

// Untrack stops refreshing a player.
func (ts *trackedStore) Untrack(ctx context.Context, player models.TrackedPlayer) error {
	return ts.db.WithContext(ctx).
		Where("player_id = ? AND season = ? AND season_type = ?", player.PlayerID, player.Season, player.SeasonType).
		Delete(&models.TrackedPlayer{}).Error
}

// PruneSnapshots deletes the old snapshots nobody tracks anymore.
func (ts *trackedStore) PruneSnapshots(ctx context.Context, updatedBefore time.Time) (int64, error) {
	result := ts.db.WithContext(ctx).Exec(`
		DELETE FROM player_profiles pp
		WHERE pp.updated_at < ?
		AND NOT EXISTS (
			SELECT 1 FROM tracked_players tp
			WHERE tp.player_id = pp.player_id
			AND tp.season = pp.season
			AND tp.season_type = pp.season_type
		)`, updatedBefore)

	return result.RowsAffected, result.Error
}
