package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"hoopstats/pkg/database/models"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotzones"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedDate = time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC)

func curryProfile() *profile.Profile {
	return &profile.Profile{
		TeamID:      1610612744,
		PlayerID:    201939,
		PlayerName:  "Stephen Curry",
		Position:    "Guard",
		Height:      "6-2",
		Weight:      "185",
		FGA:         1445,
		FTA:         315,
		FG3Pct:      0.408,
		GamesPlayed: 74,
		Season:      "2023-24",
		SeasonType:  "Regular Season",
		Volume:      profile.Volume{UsageRate: 31.59, FGAPer100: 28.6, MinutesPerGame: 32.72},
		Efficiency: profile.Efficiency{
			TrueShooting:       0.618,
			AssistPercentage:   27.02,
			EffectiveFieldGoal: 0.574,
			TurnoverPercentage: 11.72,
		},
		ShotChart: map[string]shotzones.ZoneStats{
			"Restricted Area":       {Attempts: 2, FGPct: 0.5, EFGPct: 0.5},
			shotzones.FreeThrowZone: {Attempts: 315, FGPct: 0.923, EFGPct: 0.923},
		},
		FetchedAt: fixedDate,
	}
}

func seedProfileTestData(t *testing.T, db *gorm.DB) {
	t.Helper()

	// Clean up existing data
	require.NoError(t, db.Exec("TRUNCATE TABLE player_profiles, tracked_players").Error)

	p := curryProfile()
	data, err := json.Marshal(p)
	require.NoError(t, err)

	snapshot := &models.PlayerProfile{
		PlayerID:   p.PlayerID,
		Season:     p.Season,
		SeasonType: p.SeasonType,
		TeamID:     p.TeamID,
		PlayerName: p.PlayerName,
		Data:       data,
		FetchedAt:  fixedDate,
		UpdatedAt:  fixedDate,
	}
	require.NoError(t, db.Create(snapshot).Error)

	// A corrupted payload.
	broken := &models.PlayerProfile{
		PlayerID:   2544,
		Season:     "2023-24",
		SeasonType: "Regular Season",
		Data:       []byte(`{"player_id": "not a number"}`),
		FetchedAt:  fixedDate,
		UpdatedAt:  fixedDate,
	}
	require.NoError(t, db.Create(broken).Error)
}
