package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerProfile is the last built profile of a player in a given season.
// Used as backup for the Redis cache, the API only falls back to it when the cache misses.
type PlayerProfile struct {
	ID         uint           `gorm:"primaryKey"`
	PlayerID   int            `gorm:"not null;uniqueIndex:uq_player_profiles_player_season,priority:1"`
	Season     string         `gorm:"type:varchar(7);not null;uniqueIndex:uq_player_profiles_player_season,priority:2"`
	SeasonType string         `gorm:"type:varchar(20);not null;uniqueIndex:uq_player_profiles_player_season,priority:3"`
	TeamID     int            `gorm:"not null;default:0"`
	PlayerName string         `gorm:"type:varchar(100);not null;default:''"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	FetchedAt  time.Time
	UpdatedAt  time.Time
}

// TableName keeps the name used by the migrations.
func (PlayerProfile) TableName() string {
	return "player_profiles"
}

// TrackedPlayer is a player requested through the API.
// The scheduler keeps the profiles of tracked players fresh.
type TrackedPlayer struct {
	PlayerID    int    `gorm:"primaryKey;autoIncrement:false"`
	Season      string `gorm:"primaryKey;type:varchar(7)"`
	SeasonType  string `gorm:"primaryKey;type:varchar(20)"`
	LastRefresh time.Time
	CreatedAt   time.Time
}

func (TrackedPlayer) TableName() string {
	return "tracked_players"
}
