package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":   "Jordan Smith",
		"email":  "jordan@example.com",
		"ssn":    "123-45-6789",
		"amount": 50000.0,
	}
}

func TestValidateApplicant(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m map[string]interface{})
		wantValid bool
		wantField string
	}{
		{
			name:      "valid payload",
			mutate:    func(m map[string]interface{}) {},
			wantValid: true,
		},
		{
			name:      "missing name",
			mutate:    func(m map[string]interface{}) { delete(m, "name") },
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "missing ssn",
			mutate:    func(m map[string]interface{}) { delete(m, "ssn") },
			wantValid: false,
			wantField: "ssn",
		},
		{
			name:      "bad email",
			mutate:    func(m map[string]interface{}) { m["email"] = "not-an-email" },
			wantValid: false,
			wantField: "email",
		},
		{
			name:      "zero amount",
			mutate:    func(m map[string]interface{}) { m["amount"] = 0.0 },
			wantValid: false,
			wantField: "amount",
		},
		{
			name:      "negative amount",
			mutate:    func(m map[string]interface{}) { m["amount"] = -100.0 },
			wantValid: false,
			wantField: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			result, err := ValidateApplicant(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)

			if !tt.wantValid {
				require.NotEmpty(t, result.Errors)
				found := false
				for _, vErr := range result.Errors {
					if vErr.Field == tt.wantField {
						found = true
					}
				}
				assert.True(t, found, "expected an error on field %s", tt.wantField)
			}
		})
	}
}

func TestValidateApplicant_ErrorsNeverEchoValues(t *testing.T) {
	payload := validPayload()
	payload["ssn"] = ""
	payload["email"] = "secret-person@private.org"
	delete(payload, "name")

	result, err := ValidateApplicant(payload)
	require.NoError(t, err)
	require.False(t, result.Valid)

	for _, vErr := range result.Errors {
		assert.NotContains(t, vErr.Message, "secret-person")
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantValid   bool
	}{
		{"pdf ok", "application/pdf", 1024, true},
		{"png ok", "image/png", MaxDocumentSize, true},
		{"jpeg ok", "image/jpeg", 42, true},
		{"gif rejected", "image/gif", 1024, false},
		{"oversize rejected", "application/pdf", MaxDocumentSize + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocument(tt.contentType, tt.size)
			assert.Equal(t, tt.wantValid, result.Valid)
		})
	}
}
