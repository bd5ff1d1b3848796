// internal/workers/underwriting/detect-fraud/handler_test.go
package detectfraud

import (
	"context"
	"testing"

	"lending-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) { tl.t.Logf("DEBUG: %s %v", msg, fields) }
func (tl *testLogger) Info(msg string, fields map[string]interface{})  { tl.t.Logf("INFO: %s %v", msg, fields) }
func (tl *testLogger) Warn(msg string, fields map[string]interface{})  { tl.t.Logf("WARN: %s %v", msg, fields) }
func (tl *testLogger) Error(msg string, fields map[string]interface{}) { tl.t.Logf("ERROR: %s %v", msg, fields) }
func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger { return tl }
func (tl *testLogger) WithError(err error) logger.Logger                      { return tl }
func (tl *testLogger) With(fields map[string]interface{}) logger.Logger       { return tl }

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		wantSuspicious bool
		wantAnomalies  int
	}{
		{
			name:           "clean applicant",
			input:          &Input{Name: "Jordan Smith", Address: "12 Main St", Income: 90000.0, SSN: "456789123"},
			wantSuspicious: false,
			wantAnomalies:  0,
		},
		{
			name:           "three simultaneous anomalies",
			input:          &Input{Name: "Jordan Smith", Address: "P.O. Box 55", Income: 2000000.0, SSN: "123456789"},
			wantSuspicious: true,
			wantAnomalies:  3,
		},
		{
			name:           "string income coerced",
			input:          &Input{Name: "Jordan Smith", Income: "2000001"},
			wantSuspicious: true,
			wantAnomalies:  1,
		},
		{
			name:           "unparseable income treated as absent",
			input:          &Input{Name: "Jordan Smith", Income: "lots"},
			wantSuspicious: false,
			wantAnomalies:  0,
		},
		{
			name:           "missing identity",
			input:          &Input{Address: "12 Main St"},
			wantSuspicious: true,
			wantAnomalies:  1,
		},
	}

	handler := NewHandler(&Config{}, newTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuspicious, output.Fraud.Suspicious)
			assert.Len(t, output.Fraud.Anomalies, tt.wantAnomalies)
		})
	}
}
