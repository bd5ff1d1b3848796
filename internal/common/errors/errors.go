// Package errors provides the standardized error taxonomy for the
// underwriting pipeline and its BPMN/HTTP integrations.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation (local, never retried)
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeDocumentRejected ErrorCode = "DOCUMENT_REJECTED"

	// Upstream services (surfaced verbatim, retryable at the workflow layer)
	ErrCodeKYCUnavailable        ErrorCode = "KYC_UNAVAILABLE"
	ErrCodeBureauUnavailable     ErrorCode = "CREDIT_BUREAU_UNAVAILABLE"
	ErrCodeDocumentServiceFailed ErrorCode = "DOCUMENT_SERVICE_FAILED"
	ErrCodeServiceTimeout        ErrorCode = "SERVICE_TIMEOUT"

	// Persistence class (always fatal, never partially committed)
	ErrCodeEncryptionFailed  ErrorCode = "ENCRYPTION_FAILED"
	ErrCodeStorageFailed     ErrorCode = "DOCUMENT_STORAGE_FAILED"
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"

	// Soft conditions
	ErrCodeSchemaUnconfigured ErrorCode = "SCHEMA_UNCONFIGURED"
	ErrCodeModuleDisabled     ErrorCode = "MODULE_DISABLED"

	// Notifications
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ErrUnconfigured marks the missing-schema / disabled-module soft condition.
// Callers map it to an empty successful response, never to a failure.
var ErrUnconfigured = errors.New("SCHEMA_UNCONFIGURED")

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Constructors
// ==========================

// NewValidationError creates a non-retryable intake validation error.
// Details must name fields only, never field contents.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Applicant data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentRejectedError creates a non-retryable document constraint error.
func NewDocumentRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentRejected,
		Message:   "Uploaded document rejected",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKYCUnavailableError wraps an identity-verification service failure.
func NewKYCUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeKYCUnavailable,
		Message:   "Identity verification service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBureauUnavailableError wraps a credit-bureau lookup failure.
func NewBureauUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBureauUnavailable,
		Message:   "Credit bureau lookup error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentServiceError wraps a document AI call failure.
func NewDocumentServiceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentServiceFailed,
		Message:   "Document intelligence service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError marks an external call that exceeded its deadline. Treated
// identically to an explicit failure of the same service class.
func NewTimeoutError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   "call exceeded deadline",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEncryptionFailedError marks a PII vault failure; fatal, no plaintext
// fallback exists.
func NewEncryptionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEncryptionFailed,
		Message:   "PII encryption failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailedError marks an object-storage upload failure.
func NewStorageFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Document storage failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError marks a database write failure.
func NewPersistenceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Database write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewModuleDisabledError marks an explicitly disabled module with a store
// present; mapped to 404 at the edge.
func NewModuleDisabledError(module string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModuleDisabled,
		Message:   fmt.Sprintf("Module '%s' is disabled", module),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification helpers
// ==========================

// IsUnconfigured reports whether err is the missing-schema soft condition,
// either the sentinel or Postgres undefined_table (42P01).
func IsUnconfigured(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnconfigured) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	return false
}

// HTTPStatus maps an error code to the status the edge layer reports.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeDocumentRejected:
		return http.StatusBadRequest
	case ErrCodeKYCUnavailable, ErrCodeBureauUnavailable,
		ErrCodeDocumentServiceFailed, ErrCodeServiceTimeout:
		return http.StatusBadGateway
	case ErrCodeEncryptionFailed, ErrCodeStorageFailed, ErrCodePersistenceFailed:
		return http.StatusInternalServerError
	case ErrCodeModuleDisabled:
		return http.StatusNotFound
	case ErrCodeSchemaUnconfigured:
		// Soft condition: callers answer with an empty success body.
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns the workflow retry budget per error class.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeKYCUnavailable,
		ErrCodeBureauUnavailable,
		ErrCodeDocumentServiceFailed,
		ErrCodeStorageFailed,
		ErrCodePersistenceFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeServiceTimeout:
		return 2

	default:
		return 0 // validation / local errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// ==========================
// 4. BPMN Error Integration
// ==========================

// BPMNError represents an error thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}
