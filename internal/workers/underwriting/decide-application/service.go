// internal/workers/underwriting/decide-application/service.go
package decideapplication

import (
	"context"

	"lending-workers/internal/common/bureau"
	"lending-workers/internal/common/kyc"
)

// KYCService verifies applicant identity. Narrow interface for mocking.
type KYCService interface {
	Verify(ctx context.Context, request *kyc.VerifyRequest) (*kyc.VerifyResult, error)
}

// BureauService fetches the bureau base score.
type BureauService interface {
	GetScore(ctx context.Context, request *bureau.ScoreRequest) (*bureau.ScoreResult, error)
}

// DocumentStore persists attached documents and returns a public URL.
type DocumentStore interface {
	Upload(ctx context.Context, filename, contentType string, body []byte) (string, error)
}

// AuditIndexer receives the non-critical decision audit trail.
type AuditIndexer interface {
	IndexDocument(ctx context.Context, index, docID string, body []byte) error
}
