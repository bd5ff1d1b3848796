// internal/workers/underwriting/adjust-credit-score/models.go
package adjustcreditscore

import "lending-workers/internal/risk"

// Input fields are loosely typed: upstream form plumbing may deliver the
// base score as a string and the history as a scalar, delimited string, or
// array.
type Input struct {
	BaseScore interface{} `json:"baseScore"`
	History   interface{} `json:"history"`
}

type Output struct {
	Credit risk.CreditAssessment `json:"credit"`
}
