package season

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
)

// Season types accepted by the league dashboard and shot chart endpoints.
const (
	RegularSeason = "Regular Season"
	Playoffs      = "Playoffs"
	PlayIn        = "PlayIn"
	PreSeason     = "Pre Season"
)

var seasonTypes = []string{RegularSeason, Playoffs, PlayIn, PreSeason}

var labelPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Label returns the provider season label for a start year, 2023 -> "2023-24".
func Label(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// Current returns the season in progress at the given time.
// Seasons tip off in October, so anything before that belongs to the previous label.
func Current(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return Label(year)
}

// Valid reports whether the label is a well formed season of consecutive years.
func Valid(label string) bool {
	match := labelPattern.FindStringSubmatch(label)
	if match == nil {
		return false
	}

	start, _ := strconv.Atoi(match[1])
	end, _ := strconv.Atoi(match[2])
	return (start+1)%100 == end
}

// ValidType reports whether the provider accepts the season type.
func ValidType(seasonType string) bool {
	return slices.Contains(seasonTypes, seasonType)
}

// Types returns the accepted season types.
func Types() []string {
	return slices.Clone(seasonTypes)
}
