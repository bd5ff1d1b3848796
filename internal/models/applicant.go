// internal/models/applicant.go
package models

// Applicant is the raw intake submission. The SSN is plaintext in transit
// only; the persisted record carries the encrypted form.
type Applicant struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	SSN          string      `json:"ssn"`
	Amount       float64     `json:"amount"`
	Income       *float64    `json:"income,omitempty"`
	Taxes        *float64    `json:"taxes,omitempty"`
	Address      string      `json:"address,omitempty"`
	History      interface{} `json:"history,omitempty"`
	BusinessName string      `json:"businessName,omitempty"`
}

// Application is the persisted intake record.
type Application struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	EncryptedSSN string  `json:"encryptedSsn"`
	Amount       float64 `json:"amount"`
	CreditScore  int     `json:"creditScore"`
	KYCPassed    bool    `json:"kycPassed"`
	Decision     string  `json:"decision"`
	Status       string  `json:"status"`
	DocumentURL  string  `json:"documentUrl,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// Decision outcomes and their terminal statuses.
const (
	DecisionApprove = "approve"
	DecisionReview  = "review"

	StatusApproved    = "approved"
	StatusUnderReview = "under_review"
)
