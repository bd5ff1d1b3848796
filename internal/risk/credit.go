package risk

import (
	"fmt"
	"math"
)

// CreditAssessment is the output of the credit adjustment step.
type CreditAssessment struct {
	BaseScore   float64 `json:"baseScore"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// AdjustCredit blends a bureau base score with historical payment ratios.
// A base that is not a finite number falls back to 650 for the computation,
// but the explanation text reports the caller-supplied value unchanged.
func AdjustCredit(baseScore interface{}, history []float64) CreditAssessment {
	base, ok := ToNumber(baseScore)
	if !ok {
		base = 650
	}

	score := base
	if len(history) > 0 {
		var sum float64
		for _, h := range history {
			sum += h
		}
		avg := sum / float64(len(history))
		score = base + math.Round((avg-650)/10)
	}

	return CreditAssessment{
		BaseScore: base,
		Score:     score,
		Explanation: fmt.Sprintf("Base %v adjusted with %d historical points",
			baseScore, len(history)),
	}
}
