package teamfetcher

import (
	"context"

	"hoopstats/fetcher/data/params"
	"hoopstats/fetcher/data/resultset"
	"hoopstats/fetcher/requests"
	"hoopstats/pkg/advanced"
)

const (
	leagueDashEndpoint = "leaguedashteamstats"
	leagueDashSet      = "LeagueDashTeamStats"
)

var statsColumns = []string{"TEAM_ID", "TEAM_NAME", "GP", "MIN", "FGM", "FGA", "FTA", "TOV"}

// The team fetcher with its limit.
type TeamFetcher struct {
	source resultset.Source
}

// TeamLine is a team row of the league dashboard.
type TeamLine struct {
	TeamID int
	Name   string
	Totals advanced.TeamTotals
}

// TeamStats is the league dashboard of every team.
type TeamStats []TeamLine

// NewTeamFetcher creates a team fetcher.
func NewTeamFetcher(client requests.Getter, limiter requests.Waiter) *TeamFetcher {
	return &TeamFetcher{
		source: resultset.Source{Client: client, Limiter: limiter},
	}
}

// GetLeagueStats returns the totals of every team.
func (t *TeamFetcher) GetLeagueStats(ctx context.Context, season string, seasonType string, perMode string, onDemand bool) (TeamStats, error) {
	table, err := t.source.Fetch(ctx, leagueDashEndpoint, leagueDashSet, params.LeagueDash(season, seasonType, perMode), statsColumns, onDemand)
	if err != nil {
		return nil, err
	}

	stats := make(TeamStats, 0, table.Len())
	for _, row := range table.Rows() {
		stats = append(stats, TeamLine{
			TeamID: row.Int("TEAM_ID"),
			Name:   row.String("TEAM_NAME"),
			Totals: advanced.TeamTotals{
				Minutes: row.Float("MIN"),
				FGM:     row.Float("FGM"),
				FGA:     row.Float("FGA"),
				FTA:     row.Float("FTA"),
				TOV:     row.Float("TOV"),
			},
		})
	}

	return stats, nil
}

// Find returns the line of a team.
func (s TeamStats) Find(teamID int) (*TeamLine, bool) {
	for i := range s {
		if s[i].TeamID == teamID {
			return &s[i], true
		}
	}
	return nil, false
}
