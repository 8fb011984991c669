package playerfetcher

import (
	"context"

	"hoopstats/fetcher/data/params"
	"hoopstats/fetcher/data/resultset"
	"hoopstats/fetcher/requests"
	"hoopstats/pkg/advanced"
	"hoopstats/pkg/profile"
)

const (
	commonPlayerInfoEndpoint = "commonplayerinfo"
	commonPlayerInfoSet      = "CommonPlayerInfo"

	leagueDashEndpoint = "leaguedashplayerstats"
	leagueDashSet      = "LeagueDashPlayerStats"
)

var bioColumns = []string{"PERSON_ID", "DISPLAY_FIRST_LAST", "TEAM_ID", "POSITION", "HEIGHT", "WEIGHT"}

var statsColumns = []string{
	"PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "GP", "MIN", "FGM", "FGA",
	"FG3M", "FG3_PCT", "FTA", "FT_PCT", "TOV", "AST", "PTS",
}

// The player fetcher with its limit.
type PlayerFetcher struct {
	source resultset.Source
}

// PlayerLine is a player row of the league dashboard.
type PlayerLine struct {
	PlayerID int
	TeamID   int
	Name     string
	Totals   advanced.PlayerTotals
}

// PlayerStats is the league dashboard of every player.
type PlayerStats []PlayerLine

// NewPlayerFetcher creates a player fetcher.
func NewPlayerFetcher(client requests.Getter, limiter requests.Waiter) *PlayerFetcher {
	return &PlayerFetcher{
		source: resultset.Source{Client: client, Limiter: limiter},
	}
}

// GetBio returns the biographical row of a player.
// The boolean is false if the provider doesn't know the player.
func (p *PlayerFetcher) GetBio(ctx context.Context, playerID int, onDemand bool) (*profile.Bio, bool, error) {
	table, err := p.source.Fetch(ctx, commonPlayerInfoEndpoint, commonPlayerInfoSet, params.PlayerInfo(playerID), bioColumns, onDemand)
	if err != nil {
		return nil, false, err
	}

	row, ok := table.Find("PERSON_ID", playerID)
	if !ok {
		return nil, false, nil
	}

	return &profile.Bio{
		PlayerID: playerID,
		TeamID:   row.Int("TEAM_ID"),
		Name:     row.String("DISPLAY_FIRST_LAST"),
		Position: row.String("POSITION"),
		Height:   row.String("HEIGHT"),
		Weight:   row.String("WEIGHT"),
	}, true, nil
}

// GetLeagueStats returns the league dashboard in the given per mode.
func (p *PlayerFetcher) GetLeagueStats(ctx context.Context, season string, seasonType string, perMode string, onDemand bool) (PlayerStats, error) {
	table, err := p.source.Fetch(ctx, leagueDashEndpoint, leagueDashSet, params.LeagueDash(season, seasonType, perMode), statsColumns, onDemand)
	if err != nil {
		return nil, err
	}

	stats := make(PlayerStats, 0, table.Len())
	for _, row := range table.Rows() {
		stats = append(stats, newPlayerLine(row))
	}

	return stats, nil
}

// Find returns the line of a player.
func (s PlayerStats) Find(playerID int) (*PlayerLine, bool) {
	for i := range s {
		if s[i].PlayerID == playerID {
			return &s[i], true
		}
	}
	return nil, false
}

func newPlayerLine(row resultset.Row) PlayerLine {
	return PlayerLine{
		PlayerID: row.Int("PLAYER_ID"),
		TeamID:   row.Int("TEAM_ID"),
		Name:     row.String("PLAYER_NAME"),
		Totals: advanced.PlayerTotals{
			GamesPlayed: row.Float("GP"),
			Minutes:     row.Float("MIN"),
			FGM:         row.Float("FGM"),
			FGA:         row.Float("FGA"),
			FG3M:        row.Float("FG3M"),
			FG3Pct:      row.Float("FG3_PCT"),
			FTA:         row.Float("FTA"),
			FTPct:       row.Float("FT_PCT"),
			TOV:         row.Float("TOV"),
			AST:         row.Float("AST"),
			PTS:         row.Float("PTS"),
		},
	}
}
