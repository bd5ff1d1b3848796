// internal/workers/portfolio/send-risk-alert/handler_test.go
package sendriskalert

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonaws "lending-workers/internal/common/aws"
	appconfig "lending-workers/internal/common/config"
	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/logger"
)

// The wrapped SDK clients must keep satisfying the send interfaces.
var (
	_ SESService = (*commonaws.SESClient)(nil)
	_ SNSService = (*commonaws.SNSClient)(nil)
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

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{}, nil
}

func newTestHandler(t *testing.T, sesClient SESService, snsClient SNSService, notificationsEnabled bool) *Handler {
	log := &testLogger{t: t}
	return &Handler{
		config: LoadConfig(),
		alerts: appconfig.AlertConfig{
			OpsEmails:         []string{"ops@lending.example.com"},
			OpsPhone:          "+15550100200",
			CriticalThreshold: 0.9,
		},
		features:     appconfig.FeatureConfig{Notifications: notificationsEnabled},
		sesClient:    sesClient,
		snsClient:    snsClient,
		errorHandler: stderrors.NewErrorHandler(log),
		logger:       log,
		templateMap:  loadTemplates(),
	}
}

func TestHandler_Execute_SendsEmail(t *testing.T) {
	sesClient := &fakeSES{}
	snsClient := &fakeSNS{}
	handler := newTestHandler(t, sesClient, snsClient, true)

	output, err := handler.Execute(context.Background(), &Input{
		AlertType:     TypeCriticalRisk,
		Notifications: []string{"troubled_asset Distressed 1 at critical risk 0.95"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelEmail}, output.Channels)
	require.Len(t, sesClient.inputs, 1)
	assert.Contains(t, *sesClient.inputs[0].Message.Subject.Data, "1 position")
	assert.Contains(t, *sesClient.inputs[0].Message.Body.Text.Data, "Distressed 1")
	assert.Empty(t, snsClient.inputs)
}

func TestHandler_Execute_HighPriorityAddsSMS(t *testing.T) {
	sesClient := &fakeSES{}
	snsClient := &fakeSNS{}
	handler := newTestHandler(t, sesClient, snsClient, true)

	output, err := handler.Execute(context.Background(), &Input{
		AlertType:     TypeCriticalRisk,
		Priority:      "high",
		Notifications: []string{"loan Loan 9 at critical risk 0.92"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{ChannelEmail, ChannelSMS}, output.Channels)
	require.Len(t, snsClient.inputs, 1)
	assert.Equal(t, "+15550100200", *snsClient.inputs[0].PhoneNumber)
}

func TestHandler_Execute_DisabledByFlag(t *testing.T) {
	sesClient := &fakeSES{}
	handler := newTestHandler(t, sesClient, &fakeSNS{}, false)

	output, err := handler.Execute(context.Background(), &Input{
		AlertType:     TypeCriticalRisk,
		Notifications: []string{"anything"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, output.Channels)
	assert.Empty(t, sesClient.inputs)
}

func TestHandler_Execute_AllChannelsFailing(t *testing.T) {
	handler := newTestHandler(t, &fakeSES{err: errors.New("throttled")}, &fakeSNS{err: errors.New("throttled")}, true)

	_, err := handler.Execute(context.Background(), &Input{
		AlertType:     TypeCriticalRisk,
		Priority:      "high",
		Notifications: []string{"asset Warehouse A at critical risk 0.91"},
	})
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_PartialFailureStillSends(t *testing.T) {
	sesClient := &fakeSES{}
	handler := newTestHandler(t, sesClient, &fakeSNS{err: errors.New("unreachable")}, true)

	output, err := handler.Execute(context.Background(), &Input{
		AlertType:     TypeDailySummary,
		Priority:      "high",
		Notifications: []string{"summary line"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelEmail}, output.Channels)
}

func TestHandler_Execute_UnknownAlertType(t *testing.T) {
	handler := newTestHandler(t, &fakeSES{}, &fakeSNS{}, true)

	_, err := handler.Execute(context.Background(), &Input{AlertType: "bogus"})
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, stdErr.Code)
}
