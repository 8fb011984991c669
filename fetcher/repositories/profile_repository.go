package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hoopstats/pkg/database/models"
	"hoopstats/pkg/profile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the public interface for storing built profiles.
type ProfileRepository interface {
	UpsertProfile(ctx context.Context, p *profile.Profile) error
}

// profileRepository is the repository instance.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates and return the profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// UpsertProfile stores the snapshot of a profile, replacing the previous one of the season.
// If the player is tracked, its last refresh is moved to the fetch time.
func (pr *profileRepository) UpsertProfile(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("couldn't marshal the profile of %d: %w", p.PlayerID, err)
	}

	snapshot := &models.PlayerProfile{
		PlayerID:   p.PlayerID,
		Season:     p.Season,
		SeasonType: p.SeasonType,
		TeamID:     p.TeamID,
		PlayerName: p.PlayerName,
		Data:       data,
		FetchedAt:  p.FetchedAt,
		UpdatedAt:  time.Now().UTC(),
	}

	return pr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "player_id"}, {Name: "season"}, {Name: "season_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"team_id", "player_name", "data", "fetched_at", "updated_at",
			}),
		}).Create(snapshot).Error
		if err != nil {
			return fmt.Errorf("couldn't upsert the profile of %d: %w", p.PlayerID, err)
		}

		err = tx.Model(&models.TrackedPlayer{}).
			Where("player_id = ? AND season = ? AND season_type = ?", p.PlayerID, p.Season, p.SeasonType).
			Update("last_refresh", p.FetchedAt).Error
		if err != nil {
			return fmt.Errorf("couldn't set the last refresh of %d: %w", p.PlayerID, err)
		}

		return nil
	})
}
