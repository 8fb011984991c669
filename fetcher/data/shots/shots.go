package shotfetcher

import (
	"context"

	"hoopstats/fetcher/data/params"
	"hoopstats/fetcher/data/resultset"
	"hoopstats/fetcher/requests"
	"hoopstats/pkg/shotzones"
)

const (
	shotChartEndpoint = "shotchartdetail"
	shotChartSet      = "Shot_Chart_Detail"
)

var shotColumns = []string{"SHOT_ZONE_BASIC", "SHOT_MADE_FLAG", "SHOT_TYPE", "LOC_X", "LOC_Y"}

// The shot chart fetcher with its limit.
type ShotFetcher struct {
	source resultset.Source
}

// NewShotFetcher creates a shot chart fetcher.
func NewShotFetcher(client requests.Getter, limiter requests.Waiter) *ShotFetcher {
	return &ShotFetcher{
		source: resultset.Source{Client: client, Limiter: limiter},
	}
}

// GetShotChart returns every field goal attempt of the player with the team.
func (s *ShotFetcher) GetShotChart(ctx context.Context, playerID int, teamID int, season string, seasonType string, onDemand bool) ([]shotzones.Shot, error) {
	table, err := s.source.Fetch(ctx, shotChartEndpoint, shotChartSet, params.ShotChart(playerID, teamID, season, seasonType), shotColumns, onDemand)
	if err != nil {
		return nil, err
	}

	shots := make([]shotzones.Shot, 0, table.Len())
	for _, row := range table.Rows() {
		shots = append(shots, shotzones.Shot{
			Zone:       row.String("SHOT_ZONE_BASIC"),
			Made:       row.Int("SHOT_MADE_FLAG") == 1,
			ThreePoint: row.String("SHOT_TYPE") == shotzones.ThreePointerType,
			X:          row.Float("LOC_X"),
			Y:          row.Float("LOC_Y"),
		})
	}

	return shots, nil
}
