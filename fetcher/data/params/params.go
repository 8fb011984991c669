// Package params builds the query strings of the stats endpoints.
// The provider rejects requests missing any of its parameters, even the empty ones.
package params

import (
	"net/url"
	"strconv"
)

// LeagueID of the NBA.
const LeagueID = "00"

// LeagueDash returns the parameters of the league dashboard endpoints.
func LeagueDash(season string, seasonType string, perMode string) url.Values {
	v := url.Values{}
	v.Set("LeagueID", LeagueID)
	v.Set("Season", season)
	v.Set("SeasonType", seasonType)
	v.Set("PerMode", perMode)
	v.Set("MeasureType", "Base")
	v.Set("PaceAdjust", "N")
	v.Set("PlusMinus", "N")
	v.Set("Rank", "N")
	v.Set("LastNGames", "0")
	v.Set("Month", "0")
	v.Set("OpponentTeamID", "0")
	v.Set("PORound", "0")
	v.Set("Period", "0")
	v.Set("TeamID", "0")
	v.Set("TwoWay", "0")

	for _, empty := range []string{
		"College", "Conference", "Country", "DateFrom", "DateTo", "Division",
		"DraftPick", "DraftYear", "GameScope", "GameSegment", "Height", "Location",
		"Outcome", "PlayerExperience", "PlayerPosition", "SeasonSegment",
		"ShotClockRange", "StarterBench", "VsConference", "VsDivision", "Weight",
	} {
		v.Set(empty, "")
	}

	return v
}

// ShotChart returns the parameters of the shot chart endpoint for a player.
func ShotChart(playerID int, teamID int, season string, seasonType string) url.Values {
	v := url.Values{}
	v.Set("LeagueID", LeagueID)
	v.Set("PlayerID", strconv.Itoa(playerID))
	v.Set("TeamID", strconv.Itoa(teamID))
	v.Set("Season", season)
	v.Set("SeasonType", seasonType)
	v.Set("ContextMeasure", "FGA")
	v.Set("LastNGames", "0")
	v.Set("Month", "0")
	v.Set("OpponentTeamID", "0")
	v.Set("Period", "0")

	for _, empty := range []string{
		"DateFrom", "DateTo", "GameID", "GameSegment", "Location", "Outcome",
		"PlayerPosition", "RookieYear", "SeasonSegment", "VsConference", "VsDivision",
	} {
		v.Set(empty, "")
	}

	return v
}

// PlayerInfo returns the parameters of the player info endpoint.
func PlayerInfo(playerID int) url.Values {
	v := url.Values{}
	v.Set("PlayerID", strconv.Itoa(playerID))
	v.Set("LeagueID", "")
	return v
}
