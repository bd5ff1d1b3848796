// Package validation holds the intake schemas for applicant payloads and
// uploaded documents. Validation messages name fields only, never field
// contents.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// applicantSchema is the structural contract for raw applicant submissions.
// Anything beyond these fields passes through untouched.
const applicantSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "email", "ssn", "amount"],
	"properties": {
		"name":   {"type": "string", "minLength": 1},
		"email":  {"type": "string", "minLength": 3, "pattern": "^[^@\\s]+@[^@\\s]+$"},
		"ssn":    {"type": "string", "minLength": 1},
		"amount": {"type": "number", "exclusiveMinimum": 0}
	}
}`

// AllowedDocumentTypes is the upload content-type allow list.
var AllowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// MaxDocumentSize caps uploads at 5 MB.
const MaxDocumentSize = 5 * 1024 * 1024

// ValidationError describes a single failed constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationResult aggregates the outcome of a validation pass.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

var compiledApplicantSchema *gojsonschema.Schema

func init() {
	var err error
	compiledApplicantSchema, err = gojsonschema.NewSchema(
		gojsonschema.NewStringLoader(applicantSchema))
	if err != nil {
		panic(fmt.Sprintf("applicant schema is invalid: %v", err))
	}
}

// ValidateApplicant checks a raw applicant payload against the intake schema.
func ValidateApplicant(data map[string]interface{}) (*ValidationResult, error) {
	result, err := compiledApplicantSchema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, resErr := range result.Errors() {
		field := resErr.Field()
		if field == "(root)" {
			if prop, ok := resErr.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("field '%s' failed constraint '%s'", field, resErr.Type()),
			Code:    "VALIDATION_FAILED",
		})
	}

	return out, nil
}

// ValidateDocument checks an upload against the content-type allow list and
// size cap.
func ValidateDocument(contentType string, size int64) *ValidationResult {
	var errs []ValidationError

	if !AllowedDocumentTypes[contentType] {
		errs = append(errs, ValidationError{
			Field:   "contentType",
			Message: fmt.Sprintf("content type '%s' is not allowed", contentType),
			Code:    "DOCUMENT_REJECTED",
		})
	}
	if size > MaxDocumentSize {
		errs = append(errs, ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("document exceeds %d bytes", MaxDocumentSize),
			Code:    "DOCUMENT_REJECTED",
		})
	}

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
