package shotzones

import (
	"slices"

	"hoopstats/pkg/advanced"
)

// Basic shot zones returned by the shot chart endpoint, plus the free throw pseudo zone.
const (
	RestrictedArea   = "Restricted Area"
	InThePaint       = "In The Paint (Non-RA)"
	MidRange         = "Mid-Range"
	LeftCorner3      = "Left Corner 3"
	RightCorner3     = "Right Corner 3"
	AboveTheBreak3   = "Above the Break 3"
	Backcourt        = "Backcourt"
	FreeThrowZone    = "Free Throw"
	ThreePointerType = "3PT Field Goal"
)

// Display order, closest to the rim first.
var zoneOrder = []string{
	RestrictedArea,
	InThePaint,
	MidRange,
	LeftCorner3,
	RightCorner3,
	AboveTheBreak3,
	Backcourt,
	FreeThrowZone,
}

// Shot is a single field goal attempt of the shot chart.
type Shot struct {
	Zone       string  `json:"zone"`
	Made       bool    `json:"made"`
	ThreePoint bool    `json:"three_point"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// ZoneStats is the shooting summary of a zone.
type ZoneStats struct {
	Attempts int     `json:"attempts"`
	FGPct    float64 `json:"fg_pct"`
	EFGPct   float64 `json:"efg_pct"`
}

// Aggregate groups the shots by zone.
// Percentages are rounded to 3 places.
func Aggregate(shots []Shot) map[string]ZoneStats {
	type counter struct {
		attempts int
		made     int
		threes   int
	}

	counters := make(map[string]*counter)
	for _, shot := range shots {
		c, exists := counters[shot.Zone]
		if !exists {
			c = &counter{}
			counters[shot.Zone] = c
		}

		c.attempts++
		if shot.Made {
			c.made++
			if shot.ThreePoint {
				c.threes++
			}
		}
	}

	zones := make(map[string]ZoneStats, len(counters))
	for zone, c := range counters {
		attempts := float64(c.attempts)
		zones[zone] = ZoneStats{
			Attempts: c.attempts,
			FGPct:    advanced.Round(float64(c.made)/attempts, 3),
			EFGPct:   advanced.Round((float64(c.made)+0.5*float64(c.threes))/attempts, 3),
		}
	}

	return zones
}

// WithFreeThrows adds the free throw pseudo zone.
// Free throws have no three point weighting, so both percentages are the free throw percentage.
func WithFreeThrows(zones map[string]ZoneStats, fta float64, ftPct float64) map[string]ZoneStats {
	if zones == nil {
		zones = make(map[string]ZoneStats)
	}

	zones[FreeThrowZone] = ZoneStats{
		Attempts: int(fta),
		FGPct:    ftPct,
		EFGPct:   ftPct,
	}

	return zones
}

// Zones returns the zone names in display order.
// Unknown zones are appended alphabetically.
func Zones(zones map[string]ZoneStats) []string {
	names := make([]string, 0, len(zones))
	for _, zone := range zoneOrder {
		if _, exists := zones[zone]; exists {
			names = append(names, zone)
		}
	}

	var unknown []string
	for zone := range zones {
		if !slices.Contains(zoneOrder, zone) {
			unknown = append(unknown, zone)
		}
	}
	slices.Sort(unknown)

	return append(names, unknown...)
}

// TotalAttempts sums the attempts of every zone.
func TotalAttempts(zones map[string]ZoneStats) int {
	total := 0
	for _, stats := range zones {
		total += stats.Attempts
	}
	return total
}
