package advanced

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	guardTotals = PlayerTotals{
		GamesPlayed: 74,
		Minutes:     2421,
		FGM:         650,
		FGA:         1443,
		FG3M:        357,
		FTA:         315,
		TOV:         210,
		AST:         470,
		PTS:         1956,
	}
	teamTotals = TeamTotals{
		Minutes: 3966,
		FGM:     3500,
		FGA:     7400,
		FTA:     1800,
		TOV:     1100,
	}
)

func TestFormulas(t *testing.T) {
	assert.InDelta(t, 31.585646, UsageRate(guardTotals, teamTotals), 1e-5)
	assert.InDelta(t, 0.618361, TrueShooting(guardTotals), 1e-5)
	assert.InDelta(t, 27.015369, AssistPercentage(guardTotals, teamTotals), 1e-5)
	assert.InDelta(t, 0.574151, EffectiveFieldGoal(guardTotals), 1e-5)
	assert.InDelta(t, 11.721366, TurnoverPercentage(guardTotals), 1e-5)
	assert.InDelta(t, 32.716216, MinutesPerGame(guardTotals), 1e-5)
}

func TestCompute(t *testing.T) {
	metrics := Compute(guardTotals, teamTotals)

	assert.Equal(t, Metrics{
		UsageRate:          31.59,
		TrueShooting:       0.618,
		AssistPercentage:   27.02,
		EffectiveFieldGoal: 0.574,
		TurnoverPercentage: 11.72,
		MinutesPerGame:     32.72,
	}, metrics)
}

// Players without minutes or attempts must not produce NaN or Inf.
func TestZeroDenominators(t *testing.T) {
	tests := []struct {
		name   string
		player PlayerTotals
		team   TeamTotals
	}{
		{name: "empty", player: PlayerTotals{}, team: TeamTotals{}},
		{name: "no minutes", player: PlayerTotals{FGA: 3, AST: 1}, team: teamTotals},
		{name: "team without other field goals", player: PlayerTotals{Minutes: 10, FGM: 5, AST: 2}, team: TeamTotals{Minutes: 48, FGM: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := Compute(tt.player, tt.team)
			assert.Zero(t, metrics.AssistPercentage)
			assert.NotPanics(t, func() { Compute(tt.player, tt.team) })
		})
	}

	assert.Zero(t, TrueShooting(PlayerTotals{PTS: 2}))
	assert.Zero(t, EffectiveFieldGoal(PlayerTotals{FGM: 1}))
	assert.Zero(t, TurnoverPercentage(PlayerTotals{}))
	assert.Zero(t, MinutesPerGame(PlayerTotals{Minutes: 30}))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.667, Round(2.0/3.0, 3))
	assert.Equal(t, 12.35, Round(12.346, 2))
	assert.Equal(t, 7.0, Round(7.4, 0))
	assert.Equal(t, -1.25, Round(-1.2549, 2))
}
