// internal/workers/underwriting/detect-fraud/models.go
package detectfraud

import "lending-workers/internal/risk"

type Input struct {
	Address      string      `json:"address,omitempty"`
	Income       interface{} `json:"income,omitempty"`
	SSN          string      `json:"ssn,omitempty"`
	Name         string      `json:"name,omitempty"`
	BusinessName string      `json:"business_name,omitempty"`
}

type Output struct {
	Fraud risk.FraudAssessment `json:"fraud"`
}
