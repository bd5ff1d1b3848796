// internal/workers/underwriting/compose-scorecard/handler_test.go
package composescorecard

import (
	"context"
	"testing"

	"lending-workers/internal/common/logger"
	"lending-workers/internal/risk"

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

func TestHandler_Execute_CleanFile(t *testing.T) {
	handler := NewHandler(&Config{}, newTestLogger(t))

	input := &Input{
		BaseScore: 850.0,
		Credit:    risk.CreditAssessment{BaseScore: 850, Score: 850},
		Fraud:     risk.FraudAssessment{Suspicious: false},
		Amount:    100000.0,
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 0.05, output.Scorecard.DelinquencyRisk)
	assert.Equal(t, 100, output.Scorecard.FundingReadiness)
	require.NotNil(t, output.Scorecard.Forecast.ProjectedLossExposure)
	assert.Equal(t, 2000.0, *output.Scorecard.Forecast.ProjectedLossExposure)
}

func TestHandler_Execute_SuspiciousFile(t *testing.T) {
	handler := NewHandler(&Config{}, newTestLogger(t))

	input := &Input{
		BaseScore: 700.0,
		Credit:    risk.CreditAssessment{BaseScore: 700, Score: 700},
		Fraud: risk.FraudAssessment{
			Suspicious: true,
			Anomalies:  []string{"Mailing address is a PO Box"},
		},
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 0.15, output.Scorecard.DelinquencyRisk)
	require.NotEmpty(t, output.Scorecard.Recommendations)
	assert.Contains(t, output.Scorecard.Recommendations[0], "Investigate anomalies")
}

func TestHandler_Execute_AmountFromAutoFields(t *testing.T) {
	handler := NewHandler(&Config{}, newTestLogger(t))

	input := &Input{
		BaseScore:  700.0,
		Credit:     risk.CreditAssessment{BaseScore: 700, Score: 700},
		Fraud:      risk.FraudAssessment{},
		Amount:     "not-a-number",
		AutoFields: map[string]interface{}{"amount": 50000.0},
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output.Scorecard.Forecast.ProjectedLossExposure)
}
