package advanced

import "math"

// FreeThrowWeight estimates the share of free throw attempts that end a possession.
const FreeThrowWeight = 0.44

// PlayerTotals are the season totals of a single player.
type PlayerTotals struct {
	GamesPlayed float64 `json:"gp"`
	Minutes     float64 `json:"min"`
	FGM         float64 `json:"fgm"`
	FGA         float64 `json:"fga"`
	FG3M        float64 `json:"fg3m"`
	FG3Pct      float64 `json:"fg3_pct"`
	FTA         float64 `json:"fta"`
	FTPct       float64 `json:"ft_pct"`
	TOV         float64 `json:"tov"`
	AST         float64 `json:"ast"`
	PTS         float64 `json:"pts"`
}

// TeamTotals are the season totals of a team.
// Minutes are game minutes (48 per regulation game), not the sum of player minutes.
type TeamTotals struct {
	Minutes float64 `json:"min"`
	FGM     float64 `json:"fgm"`
	FGA     float64 `json:"fga"`
	FTA     float64 `json:"fta"`
	TOV     float64 `json:"tov"`
}

// Metrics are the rounded advanced metrics of a player.
type Metrics struct {
	UsageRate          float64 `json:"usg_pct"`
	TrueShooting       float64 `json:"ts_pct"`
	AssistPercentage   float64 `json:"ast_pct"`
	EffectiveFieldGoal float64 `json:"efg_pct"`
	TurnoverPercentage float64 `json:"tov_pct"`
	MinutesPerGame     float64 `json:"min_per_game"`
}

// Compute evaluates every metric.
// Percent scale values and minutes are rounded to 2 places, fractions to 3.
func Compute(p PlayerTotals, t TeamTotals) Metrics {
	return Metrics{
		UsageRate:          Round(UsageRate(p, t), 2),
		TrueShooting:       Round(TrueShooting(p), 3),
		AssistPercentage:   Round(AssistPercentage(p, t), 2),
		EffectiveFieldGoal: Round(EffectiveFieldGoal(p), 3),
		TurnoverPercentage: Round(TurnoverPercentage(p), 2),
		MinutesPerGame:     Round(MinutesPerGame(p), 2),
	}
}

// UsageRate estimates the percentage of team possessions used by the player while on the court.
func UsageRate(p PlayerTotals, t TeamTotals) float64 {
	playerPossessions := possessionsUsed(p.FGA, p.FTA, p.TOV)
	teamPossessions := possessionsUsed(t.FGA, t.FTA, t.TOV)
	return divide(100*playerPossessions*t.Minutes, p.Minutes*teamPossessions)
}

// TrueShooting is the points per two shooting possessions.
func TrueShooting(p PlayerTotals) float64 {
	return divide(p.PTS, 2*(p.FGA+FreeThrowWeight*p.FTA))
}

// AssistPercentage estimates the percentage of teammate field goals the player assisted while on the court.
func AssistPercentage(p PlayerTotals, t TeamTotals) float64 {
	return divide(100*p.AST*t.Minutes, p.Minutes*(t.FGM-p.FGM))
}

// EffectiveFieldGoal is the field goal percentage with made threes weighted by 1.5.
func EffectiveFieldGoal(p PlayerTotals) float64 {
	return divide(p.FGM+0.5*p.FG3M, p.FGA)
}

// TurnoverPercentage is the share of the player's possessions that ended in a turnover.
func TurnoverPercentage(p PlayerTotals) float64 {
	return divide(100*p.TOV, possessionsUsed(p.FGA, p.FTA, p.TOV))
}

// MinutesPerGame averages the total minutes over the games played.
func MinutesPerGame(p PlayerTotals) float64 {
	return divide(p.Minutes, p.GamesPlayed)
}

// Round to the given decimal places.
func Round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func possessionsUsed(fga, fta, tov float64) float64 {
	return fga + FreeThrowWeight*fta + tov
}

// Zero denominators return 0, NaN and Inf can't be encoded.
func divide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
