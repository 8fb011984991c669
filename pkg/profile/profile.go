package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"hoopstats/pkg/advanced"
	"hoopstats/pkg/shotzones"

	"google.golang.org/protobuf/types/known/structpb"
)

// Bio is the biographical row of a player.
type Bio struct {
	PlayerID int
	TeamID   int
	Name     string
	Position string
	Height   string
	Weight   string
}

// Inputs are the already filtered rows a profile is built from.
type Inputs struct {
	Season     string
	SeasonType string
	Bio        Bio
	Totals     advanced.PlayerTotals
	Team       advanced.TeamTotals
	FGAPer100  float64
	Shots      []shotzones.Shot
	FetchedAt  time.Time
}

// Volume describes how much of the offense goes through the player.
type Volume struct {
	UsageRate      float64 `json:"USG_PCT"`
	FGAPer100      float64 `json:"FGA_100"`
	MinutesPerGame float64 `json:"MIN_PER_GAME"`
}

// String prints the section with the profile keys.
func (v Volume) String() string {
	return fmt.Sprintf("{USG_PCT:%g FGA_100:%g MIN_PER_GAME:%g}", v.UsageRate, v.FGAPer100, v.MinutesPerGame)
}

// Efficiency describes how well the player converts the possessions used.
type Efficiency struct {
	TrueShooting       float64 `json:"TS_PCT"`
	AssistPercentage   float64 `json:"AST_PCT"`
	EffectiveFieldGoal float64 `json:"EFG_PCT"`
	TurnoverPercentage float64 `json:"TOV_PCT"`
}

func (e Efficiency) String() string {
	return fmt.Sprintf("{TS_PCT:%g AST_PCT:%g EFG_PCT:%g TOV_PCT:%g}",
		e.TrueShooting, e.AssistPercentage, e.EffectiveFieldGoal, e.TurnoverPercentage)
}

// Profile is the flat per-player profile.
type Profile struct {
	TeamID      int                            `json:"team_id"`
	PlayerID    int                            `json:"player_id"`
	PlayerName  string                         `json:"player_name"`
	Position    string                         `json:"position"`
	Height      string                         `json:"height"`
	Weight      string                         `json:"weight"`
	FGA         float64                        `json:"fga"`
	FTA         float64                        `json:"fta"`
	FG3Pct      float64                        `json:"fg3_pct"`
	GamesPlayed int                            `json:"GP"`
	Season      string                         `json:"season"`
	SeasonType  string                         `json:"season_type"`
	Volume      Volume                         `json:"volume"`
	Efficiency  Efficiency                     `json:"efficiency"`
	ShotChart   map[string]shotzones.ZoneStats `json:"shotchart"`
	FetchedAt   time.Time                      `json:"fetched_at"`
}

// Field is a single key/value of the profile, in print order.
type Field struct {
	Key   string
	Value any
}

// Build combines the inputs into a profile.
func Build(in Inputs) *Profile {
	metrics := advanced.Compute(in.Totals, in.Team)

	zones := shotzones.Aggregate(in.Shots)
	zones = shotzones.WithFreeThrows(zones, in.Totals.FTA, in.Totals.FTPct)

	fetchedAt := in.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	return &Profile{
		TeamID:      in.Bio.TeamID,
		PlayerID:    in.Bio.PlayerID,
		PlayerName:  in.Bio.Name,
		Position:    in.Bio.Position,
		Height:      in.Bio.Height,
		Weight:      in.Bio.Weight,
		FGA:         in.Totals.FGA,
		FTA:         in.Totals.FTA,
		FG3Pct:      in.Totals.FG3Pct,
		GamesPlayed: int(in.Totals.GamesPlayed),
		Season:      in.Season,
		SeasonType:  in.SeasonType,
		Volume: Volume{
			UsageRate:      metrics.UsageRate,
			FGAPer100:      in.FGAPer100,
			MinutesPerGame: metrics.MinutesPerGame,
		},
		Efficiency: Efficiency{
			TrueShooting:       metrics.TrueShooting,
			AssistPercentage:   metrics.AssistPercentage,
			EffectiveFieldGoal: metrics.EffectiveFieldGoal,
			TurnoverPercentage: metrics.TurnoverPercentage,
		},
		ShotChart: zones,
		FetchedAt: fetchedAt,
	}
}

// Fields returns the profile as ordered key/value pairs.
func (p *Profile) Fields() []Field {
	return []Field{
		{"team_id", p.TeamID},
		{"player_id", p.PlayerID},
		{"player_name", p.PlayerName},
		{"position", p.Position},
		{"height", p.Height},
		{"weight", p.Weight},
		{"fga", p.FGA},
		{"fta", p.FTA},
		{"fg3_pct", p.FG3Pct},
		{"GP", p.GamesPlayed},
		{"season", p.Season},
		{"season_type", p.SeasonType},
		{"volume", p.Volume.String()},
		{"efficiency", p.Efficiency.String()},
		{"shotchart", p.shotChartString()},
	}
}

func (p *Profile) shotChartString() string {
	out := "{"
	for i, zone := range shotzones.Zones(p.ShotChart) {
		if i > 0 {
			out += " "
		}
		stats := p.ShotChart[zone]
		out += fmt.Sprintf("%s:{attempts:%d fg_pct:%g efg_pct:%g}", zone, stats.Attempts, stats.FGPct, stats.EFGPct)
	}
	return out + "}"
}

// ToStruct converts the profile into a protobuf struct for the gRPC transport.
func (p *Profile) ToStruct() (*structpb.Struct, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal the profile: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("couldn't convert the profile: %w", err)
	}

	return structpb.NewStruct(fields)
}

// FromStruct converts a protobuf struct back into a profile.
func FromStruct(s *structpb.Struct) (*Profile, error) {
	if s == nil {
		return nil, fmt.Errorf("empty profile struct")
	}

	// Marshalled from the map, protojson would write large ids in exponent form.
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal the profile struct: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal the profile struct: %w", err)
	}

	return &p, nil
}

// CacheKey is the key of a profile snapshot, shared by every cache layer.
func CacheKey(playerID int, season string, seasonType string) string {
	return fmt.Sprintf("profile:%d:%s:%s", playerID, season, seasonType)
}
