package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreDraw(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	twoDaysAgo := now.Add(-2 * 24 * time.Hour)
	tenDaysAgo := now.Add(-10 * 24 * time.Hour)

	tests := []struct {
		name            string
		amount          float64
		description     string
		lastSubmittedAt *time.Time
		want            int
	}{
		{"clean submission", 50000, "foundation pour and framing", nil, 100},
		{"documented example", 150000, "ok", &twoDaysAgo, 55},
		{"large amount only", 150000, "foundation pour and framing", nil, 80},
		{"short description only", 50000, "ok", nil, 90},
		{"recent prior draw only", 50000, "foundation pour and framing", &twoDaysAgo, 85},
		{"old prior draw is free", 50000, "foundation pour and framing", &tenDaysAgo, 100},
		{"amount at threshold passes", 100000, "foundation pour and framing", nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreDraw(tt.amount, tt.description, tt.lastSubmittedAt, now))
		})
	}
}

func TestScoreDraw_Bounds(t *testing.T) {
	now := time.Now()
	recent := now.Add(-time.Hour)

	worst := ScoreDraw(200000, "x", &recent, now)
	assert.Equal(t, 55, worst)
	assert.GreaterOrEqual(t, worst, 0)
	assert.LessOrEqual(t, ScoreDraw(0, "long enough description", nil, now), 100)
}

func TestScoreDraw_MonotonicPenalties(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour)

	base := ScoreDraw(50000, "foundation pour and framing", nil, now)
	withAmount := ScoreDraw(150000, "foundation pour and framing", nil, now)
	withDesc := ScoreDraw(150000, "ok", nil, now)
	withRecent := ScoreDraw(150000, "ok", &recent, now)

	assert.GreaterOrEqual(t, base, withAmount)
	assert.GreaterOrEqual(t, withAmount, withDesc)
	assert.GreaterOrEqual(t, withDesc, withRecent)
}
