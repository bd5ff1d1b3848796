// internal/workers/underwriting/adjust-credit-score/handler_test.go
package adjustcreditscore

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
		name      string
		input     *Input
		wantScore float64
	}{
		{
			name:      "typed inputs",
			input:     &Input{BaseScore: 680.0, History: []interface{}{700.0, 710.0, 690.0}},
			wantScore: 685,
		},
		{
			name:      "string inputs from form plumbing",
			input:     &Input{BaseScore: "680", History: "700, 710, 690"},
			wantScore: 685,
		},
		{
			name:      "no history keeps base",
			input:     &Input{BaseScore: 720.0},
			wantScore: 720,
		},
		{
			name:      "garbage base defaults to 650",
			input:     &Input{BaseScore: "not-a-score", History: []interface{}{650.0}},
			wantScore: 650,
		},
		{
			name:      "garbage history entries dropped",
			input:     &Input{BaseScore: 680.0, History: []interface{}{"700", true, "junk", 710.0, 690.0}},
			wantScore: 685,
		},
	}

	handler := NewHandler(&Config{}, newTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, output.Credit.Score)
		})
	}
}

func TestHandler_Execute_GarbledBaseKeptInExplanation(t *testing.T) {
	handler := NewHandler(&Config{}, newTestLogger(t))

	output, err := handler.Execute(context.Background(),
		&Input{BaseScore: "not-a-score", History: []interface{}{650.0}})
	require.NoError(t, err)

	assert.Equal(t, 650.0, output.Credit.Score)
	assert.Contains(t, output.Credit.Explanation, "Base not-a-score")
}

func TestHandler_Execute_ExplanationCountsPoints(t *testing.T) {
	handler := NewHandler(&Config{}, newTestLogger(t))

	output, err := handler.Execute(context.Background(),
		&Input{BaseScore: 680.0, History: []interface{}{700.0, 710.0, 690.0}})
	require.NoError(t, err)
	assert.Contains(t, output.Credit.Explanation, "3 historical points")
}
