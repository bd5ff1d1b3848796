// internal/workers/underwriting/validate-applicant-data/models.go
package validateapplicantdata

import "lending-workers/internal/common/validation"

// DocumentMeta describes an attached upload; the binary itself stays in
// object storage.
type DocumentMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type Input struct {
	Applicant map[string]interface{} `json:"applicant"`
	Document  *DocumentMeta          `json:"document,omitempty"`
}

type Output struct {
	Valid  bool                         `json:"valid"`
	Errors []validation.ValidationError `json:"validationErrors,omitempty"`
}
