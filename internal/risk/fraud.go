package risk

import (
	"regexp"
	"strings"
)

// FraudAssessment reports anomaly signals found on an applicant.
type FraudAssessment struct {
	Suspicious bool     `json:"suspicious"`
	Anomalies  []string `json:"anomalies"`
}

// FraudInput carries the applicant attributes the detector inspects.
// Optional numeric fields are pointers so absence is distinguishable from
// zero.
type FraudInput struct {
	Address      string   `json:"address,omitempty"`
	Income       *float64 `json:"income,omitempty"`
	SSN          string   `json:"ssn,omitempty"`
	Name         string   `json:"name,omitempty"`
	BusinessName string   `json:"businessName,omitempty"`
}

var poBoxPattern = regexp.MustCompile(`(?i)p\.?\s*o\.?\s*box`)

// DetectFraud evaluates each anomaly rule independently; rules are not
// mutually exclusive.
func DetectFraud(input FraudInput) FraudAssessment {
	anomalies := []string{}

	if poBoxPattern.MatchString(input.Address) {
		anomalies = append(anomalies, "Mailing address is a PO Box")
	}
	if input.Income != nil && *input.Income > 1000000 {
		anomalies = append(anomalies, "Reported income unusually high")
	}
	if input.SSN != "" && (strings.HasPrefix(input.SSN, "123") || strings.HasPrefix(input.SSN, "000")) {
		anomalies = append(anomalies, "SSN uses prohibited prefix")
	}
	if input.Name == "" && input.BusinessName == "" {
		anomalies = append(anomalies, "Missing primary identity field")
	}

	return FraudAssessment{
		Suspicious: len(anomalies) > 0,
		Anomalies:  anomalies,
	}
}
