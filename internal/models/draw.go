// internal/models/draw.go
package models

// Draw is a construction-draw submission with its computed risk score.
type Draw struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	RiskScore   int     `json:"risk_score"`
	SubmittedAt string  `json:"submittedAt"`
}
