// internal/workers/underwriting/run-orchestration/service.go
package runorchestration

import (
	"context"

	"lending-workers/internal/common/documentai"
)

// DocumentAI parses uploaded paperwork and proposes autofill values.
type DocumentAI interface {
	ExtractFields(ctx context.Context, documentURL string) (*documentai.ExtractResult, error)
	SuggestAutofill(ctx context.Context, fields map[string]string) (*documentai.AutofillResult, error)
}

// DocumentStore persists the attached package and returns a public URL.
type DocumentStore interface {
	Upload(ctx context.Context, filename, contentType string, body []byte) (string, error)
}
