package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "2023-24", Label(2023))
	assert.Equal(t, "1999-00", Label(1999))
	assert.Equal(t, "2009-10", Label(2009))
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{name: "before tip off", now: time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC), expected: "2023-24"},
		{name: "summer", now: time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC), expected: "2023-24"},
		{name: "new season", now: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), expected: "2024-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Current(tt.now))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("2023-24"))
	assert.True(t, Valid("1999-00"))
	assert.False(t, Valid("2023-25"))
	assert.False(t, Valid("2023"))
	assert.False(t, Valid("23-24"))
	assert.False(t, Valid(""))
}

func TestValidType(t *testing.T) {
	assert.True(t, ValidType(RegularSeason))
	assert.True(t, ValidType(Playoffs))
	assert.False(t, ValidType("regular season"))
	assert.Len(t, Types(), 4)
}
