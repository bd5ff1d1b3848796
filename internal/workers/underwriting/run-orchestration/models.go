// internal/workers/underwriting/run-orchestration/models.go
package runorchestration

import "lending-workers/internal/models"

// AttachedPackage is an optional upload travelling with the job variables.
// Content is base64 so it survives the JSON variable payload.
type AttachedPackage struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"contentType"`
	ContentBase64 string `json:"contentBase64"`
}

type Input struct {
	Applicant models.Applicant `json:"applicant"`
	// BaseScore is the bureau score feeding the credit adjustment stage.
	// Loosely typed; upstream form handling sometimes sends it as a string.
	BaseScore interface{} `json:"baseScore"`
	// Package is stored to object storage before parsing; DocumentURL covers
	// paperwork that already lives at a URL.
	Package         *AttachedPackage `json:"package,omitempty"`
	DocumentURL     string           `json:"documentUrl,omitempty"`
	PackageFilename string           `json:"packageFilename,omitempty"`
}

type Output struct {
	Record models.OrchestrationRecord `json:"orchestration"`
}
