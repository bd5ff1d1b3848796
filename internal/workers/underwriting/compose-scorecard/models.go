// internal/workers/underwriting/compose-scorecard/models.go
package composescorecard

import "lending-workers/internal/risk"

type Input struct {
	BaseScore  interface{}            `json:"baseScore"`
	Credit     risk.CreditAssessment  `json:"credit"`
	Fraud      risk.FraudAssessment   `json:"fraud"`
	Amount     interface{}            `json:"amount,omitempty"`
	AutoFields map[string]interface{} `json:"autoFields,omitempty"`
}

type Output struct {
	Scorecard risk.Scorecard `json:"scorecard"`
}
