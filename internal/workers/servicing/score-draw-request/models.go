// internal/workers/servicing/score-draw-request/models.go
package scoredrawrequest

import "lending-workers/internal/models"

type Input struct {
	ProjectID   string      `json:"projectId"`
	Amount      interface{} `json:"amount"`
	Description string      `json:"description"`
	// LastSubmittedAt (RFC 3339) backs up the Redis marker when the cache
	// has no entry for the project.
	LastSubmittedAt string `json:"lastSubmittedAt,omitempty"`
}

type Output struct {
	Draw models.Draw `json:"draw"`
}
