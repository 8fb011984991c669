package testutil

import "testing"

// Ids of the fixture player and team.
const (
	CurryID    = 201939
	WarriorsID = 1610612744
	LeBronID   = 2544
	LakersID   = 1610612747
)

var (
	BioHeaders = []string{"PERSON_ID", "DISPLAY_FIRST_LAST", "TEAM_ID", "POSITION", "HEIGHT", "WEIGHT"}

	PlayerStatsHeaders = []string{
		"PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "GP", "MIN", "FGM", "FGA",
		"FG3M", "FG3_PCT", "FTA", "FT_PCT", "TOV", "AST", "PTS",
	}

	TeamStatsHeaders = []string{"TEAM_ID", "TEAM_NAME", "GP", "MIN", "FGM", "FGA", "FTA", "TOV"}

	ShotHeaders = []string{"PLAYER_ID", "SHOT_ZONE_BASIC", "SHOT_MADE_FLAG", "SHOT_TYPE", "LOC_X", "LOC_Y"}
)

// StatsFixtures are the answers of every endpoint for the fixture player.
//
// The totals give USG_PCT 31.59, TS_PCT 0.618, AST_PCT 27.02, EFG_PCT 0.574, TOV_PCT 11.72
// and MIN_PER_GAME 32.72. The shot chart has two restricted area attempts (one made)
// and two above the break threes (one made).
func StatsFixtures(t *testing.T) map[string]string {
	t.Helper()

	return map[string]string{
		"commonplayerinfo": ResultSet(t, "CommonPlayerInfo", BioHeaders,
			[]any{CurryID, "Stephen Curry", WarriorsID, "Guard", "6-2", "185"},
		),
		"leaguedashplayerstats:Totals": ResultSet(t, "LeagueDashPlayerStats", PlayerStatsHeaders,
			[]any{LeBronID, "LeBron James", LakersID, 71, 2504, 685, 1269, 149, 0.41, 384, 0.75, 245, 589, 1822},
			[]any{CurryID, "Stephen Curry", WarriorsID, 74, 2421, 650, 1443, 357, 0.408, 315, 0.923, 210, 470, 1956},
		),
		"leaguedashplayerstats:Per100Possessions": ResultSet(t, "LeagueDashPlayerStats", PlayerStatsHeaders,
			[]any{LeBronID, "LeBron James", LakersID, 71, 2504, 13.1, 24.3, 2.9, 0.41, 7.4, 0.75, 4.7, 11.3, 35},
			[]any{CurryID, "Stephen Curry", WarriorsID, 74, 2421, 12.9, 28.6, 7.1, 0.408, 6.2, 0.923, 4.2, 9.3, 38.8},
		),
		"leaguedashteamstats": ResultSet(t, "LeagueDashTeamStats", TeamStatsHeaders,
			[]any{LakersID, "Los Angeles Lakers", 82, 3976, 3529, 7051, 1936, 1150},
			[]any{WarriorsID, "Golden State Warriors", 82, 3966, 3500, 7400, 1800, 1100},
		),
		"shotchartdetail": ResultSet(t, "Shot_Chart_Detail", ShotHeaders,
			[]any{CurryID, "Restricted Area", 1, "2PT Field Goal", -4, 8},
			[]any{CurryID, "Restricted Area", 0, "2PT Field Goal", 10, 2},
			[]any{CurryID, "Above the Break 3", 1, "3PT Field Goal", 120, 240},
			[]any{CurryID, "Above the Break 3", 0, "3PT Field Goal", -150, 220},
		),
	}
}
