package filters

import "hoopstats/pkg/advanced"

// Path params of the player routes.
type ProfileParams struct {
	PlayerID int `uri:"playerId" binding:"required,gt=0"`
}

// Query params of the player routes.
type ProfileQuery struct {
	Season     string `form:"season"`
	SeasonType string `form:"season_type"`
}

// ProfileFilter identifies a single profile.
type ProfileFilter struct {
	PlayerID   int
	Season     string
	SeasonType string
}

// NewProfileFilter combines the path and query params.
func NewProfileFilter(params ProfileParams, query ProfileQuery) *ProfileFilter {
	return &ProfileFilter{
		PlayerID:   params.PlayerID,
		Season:     query.Season,
		SeasonType: query.SeasonType,
	}
}

// Body of the advanced metrics calculator.
type AdvancedMetricsBody struct {
	Player *advanced.PlayerTotals `json:"player" binding:"required"`
	Team   *advanced.TeamTotals   `json:"team" binding:"required"`
}
