package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hoopstats/pkg/database/models"
	"hoopstats/pkg/profile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository is the public interface for reading the profile snapshots.
type ProfileRepository interface {
	GetProfile(ctx context.Context, playerID int, season string, seasonType string) (*profile.Profile, error)
	TrackPlayer(ctx context.Context, playerID int, season string, seasonType string, refreshedAt time.Time) error
}

// profileRepository repository structure.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetProfile returns the last snapshot of a player in a season.
// A player without snapshot returns nil without error.
func (pr *profileRepository) GetProfile(ctx context.Context, playerID int, season string, seasonType string) (*profile.Profile, error) {
	var snapshot models.PlayerProfile
	err := pr.db.WithContext(ctx).
		Where("player_id = ? AND season = ? AND season_type = ?", playerID, season, seasonType).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("couldn't get the profile snapshot of %d: %w", playerID, err)
	}

	var p profile.Profile
	if err := json.Unmarshal(snapshot.Data, &p); err != nil {
		return nil, fmt.Errorf("couldn't decode the profile snapshot of %d: %w", playerID, err)
	}

	return &p, nil
}

// TrackPlayer marks the player as requested, so the scheduler keeps the profile fresh.
// refreshedAt is the build time of the served profile, a zero value leaves the refresh pending.
// The last refresh never moves backwards.
func (pr *profileRepository) TrackPlayer(ctx context.Context, playerID int, season string, seasonType string, refreshedAt time.Time) error {
	tracked := models.TrackedPlayer{
		PlayerID:   playerID,
		Season:     season,
		SeasonType: seasonType,
	}

	if refreshedAt.IsZero() {
		return pr.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Omit("LastRefresh").
			Create(&tracked).Error
	}

	tracked.LastRefresh = refreshedAt.UTC()
	return pr.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "player_id"}, {Name: "season"}, {Name: "season_type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_refresh": gorm.Expr("GREATEST(tracked_players.last_refresh, EXCLUDED.last_refresh)"),
			}),
		}).
		Create(&tracked).Error
}
