package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustCredit(t *testing.T) {
	tests := []struct {
		name      string
		baseScore float64
		history   []float64
		wantScore float64
	}{
		{"documented example", 680, []float64{700, 710, 690}, 685},
		{"empty history keeps base", 680, nil, 680},
		{"history at 650 mean", 700, []float64{650, 650}, 700},
		{"poor history lowers score", 700, []float64{500, 520}, 686},
		{"strong history raises score", 650, []float64{750, 760, 770}, 661},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustCredit(tt.baseScore, tt.history)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}

func TestAdjustCredit_AdjustmentMatchesFormula(t *testing.T) {
	history := []float64{700, 710, 690}
	got := AdjustCredit(680, history)

	mean := (700.0 + 710.0 + 690.0) / 3.0
	assert.Equal(t, math.Round((mean-650)/10), got.Score-680)
}

func TestAdjustCredit_Explanation(t *testing.T) {
	got := AdjustCredit(680, []float64{700, 710, 690})
	assert.Equal(t, "Base 680 adjusted with 3 historical points", got.Explanation)
}

func TestAdjustCredit_NonFiniteBaseDefaults(t *testing.T) {
	got := AdjustCredit(math.NaN(), []float64{650})

	// Computation substitutes 650, while the explanation reports the
	// caller-supplied value unchanged.
	assert.Equal(t, 650.0, got.Score)
	assert.Contains(t, got.Explanation, "NaN")
}

func TestAdjustCredit_RawBasePreservedInExplanation(t *testing.T) {
	got := AdjustCredit("not-a-number", []float64{650})

	assert.Equal(t, 650.0, got.Score)
	assert.Equal(t, "Base not-a-number adjusted with 1 historical points", got.Explanation)
}

func TestAdjustCredit_NumericStringBase(t *testing.T) {
	got := AdjustCredit("680", []float64{700, 710, 690})

	assert.Equal(t, 685.0, got.Score)
	assert.Equal(t, "Base 680 adjusted with 3 historical points", got.Explanation)
}
