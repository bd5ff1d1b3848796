// internal/workers/underwriting/decide-application/models.go
package decideapplication

import "lending-workers/internal/models"

// AttachedDocument is an optional upload travelling with the intake
// variables. Content is base64 so it survives the JSON variable payload.
type AttachedDocument struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"contentType"`
	ContentBase64 string `json:"contentBase64"`
}

type Input struct {
	Applicant models.Applicant  `json:"applicant"`
	Document  *AttachedDocument `json:"document,omitempty"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Decision      string `json:"decision"`
	Status        string `json:"status"`
	CreditScore   int    `json:"creditScore"`
	KYCPassed     bool   `json:"kycPassed"`
	DocumentURL   string `json:"documentUrl,omitempty"`
	CreatedAt     string `json:"createdAt"`
}
