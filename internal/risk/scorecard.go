package risk

import (
	"fmt"
	"math"
	"strings"
)

// Forecast is the loss projection attached to a scorecard.
type Forecast struct {
	ExpectedLossRate      float64  `json:"expectedLossRate"`
	LossRatePct           float64  `json:"lossRatePct"`
	ProjectedLossExposure *float64 `json:"projectedLossExposure"`
	WindowMonths          int      `json:"windowMonths"`
}

// Scorecard is the composite underwriting view of one application.
type Scorecard struct {
	BaseScore        float64  `json:"baseScore"`
	AdjustedScore    float64  `json:"adjustedScore"`
	Adjustment       float64  `json:"adjustment"`
	FundingReadiness int      `json:"fundingReadiness"`
	DelinquencyRisk  float64  `json:"delinquencyRisk"`
	Forecast         Forecast `json:"forecast"`
	Recommendations  []string `json:"recommendations"`
	Narrative        string   `json:"narrative"`
}

// forecastWindowMonths is the horizon reported on every scorecard.
const forecastWindowMonths = 12

// ComposeScorecard combines the credit adjustment, fraud signals, and loan
// amount into the full scorecard. amount may be nil; autoFields may carry
// document-extracted income, taxes, and amount values.
func ComposeScorecard(
	baseScore float64,
	credit CreditAssessment,
	fraud FraudAssessment,
	amount *float64,
	autoFields map[string]interface{},
) Scorecard {
	base := baseScore
	if !isFinite(base) {
		base = credit.BaseScore
	}

	adjustment := credit.Score - base

	fraudPenalty := 0.0
	if fraud.Suspicious {
		fraudPenalty = 0.15
	}

	delinquencyRisk := clamp((700-credit.Score)/500+fraudPenalty, 0.05, 0.95)
	lossRate := roundTo(delinquencyRisk*0.4, 3)
	lossRatePct := roundTo(lossRate*100, 1)

	normalizedAmount := normalizeAmount(amount, autoFields)

	var projectedLossExposure *float64
	if normalizedAmount != nil {
		exposure := roundTo(*normalizedAmount*lossRate, 2)
		projectedLossExposure = &exposure
	}

	readinessPenalty := 0.0
	if fraud.Suspicious {
		readinessPenalty = 12
	}
	fundingReadiness := int(clamp(math.Round(credit.Score/850*100-readinessPenalty), 0, 100))

	recommendations := buildRecommendations(credit.Score, adjustment, fraud, autoFields)

	narrative := fmt.Sprintf(
		"Estimated delinquency risk %.1f%% with funding readiness %d%%; credit adjustment %+d points.",
		roundTo(delinquencyRisk*100, 1), fundingReadiness, int(adjustment),
	)

	return Scorecard{
		BaseScore:        base,
		AdjustedScore:    credit.Score,
		Adjustment:       adjustment,
		FundingReadiness: fundingReadiness,
		DelinquencyRisk:  delinquencyRisk,
		Forecast: Forecast{
			ExpectedLossRate:      lossRate,
			LossRatePct:           lossRatePct,
			ProjectedLossExposure: projectedLossExposure,
			WindowMonths:          forecastWindowMonths,
		},
		Recommendations: recommendations,
		Narrative:       narrative,
	}
}

func normalizeAmount(amount *float64, autoFields map[string]interface{}) *float64 {
	if amount != nil && isFinite(*amount) {
		v := *amount
		return &v
	}
	if autoFields != nil {
		if n, ok := toFloat(autoFields["amount"]); ok && isFinite(n) {
			return &n
		}
	}
	return nil
}

func buildRecommendations(score, adjustment float64, fraud FraudAssessment, autoFields map[string]interface{}) []string {
	recommendations := []string{}

	if len(fraud.Anomalies) > 0 {
		recommendations = append(recommendations,
			"Investigate anomalies before funding: "+strings.Join(fraud.Anomalies, "; "))
	} else if score < 680 {
		recommendations = append(recommendations,
			"Consider additional collateral or reserves before funding")
	} else if adjustment > 10 {
		recommendations = append(recommendations,
			"Strong payment history supports accelerated decisioning")
	}

	if autoFields != nil {
		income, incomeOK := toFloat(autoFields["income"])
		taxes, taxesOK := toFloat(autoFields["taxes"])
		// Zero income with nonzero taxes divides to +Inf and still trips
		// the threshold; zero over zero is NaN and never compares true.
		if incomeOK && taxesOK && taxes/income > 0.3 {
			recommendations = append(recommendations,
				"Verify debt-to-income ratio against reported tax obligations")
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Proceed with standard underwriting checklist")
	}

	return recommendations
}
