// internal/workers/portfolio/send-risk-alert/handler.go
package sendriskalert

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonaws "lending-workers/internal/common/aws"
	appconfig "lending-workers/internal/common/config"
	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/common/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-risk-alert"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config       *Config
	alerts       appconfig.AlertConfig
	features     appconfig.FeatureConfig
	sesClient    SESService
	snsClient    SNSService
	obs          *observability.Observability
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
	templateMap  map[string]map[string]string
}

func NewHandler(
	cfg *Config,
	alerts appconfig.AlertConfig,
	features appconfig.FeatureConfig,
	obs *observability.Observability,
	log logger.Logger,
) (*Handler, error) {
	awsCfg, err := commonaws.LoadConfig(context.Background(), cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		alerts:       alerts,
		features:     features,
		sesClient:    commonaws.NewSESClient(awsCfg),
		snsClient:    commonaws.NewSNSClient(awsCfg),
		obs:          obs,
		errorHandler: stderrors.NewErrorHandler(scoped),
		logger:       scoped,
		templateMap:  loadTemplates(),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			stderrors.NewValidationError("unparseable job variables"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	if !h.features.Notifications {
		return &Output{
			NotificationID: notificationID,
			Status:         StatusDisabled,
			Channels:       []string{},
			SentAt:         sentAt,
		}, nil
	}

	alertType := input.AlertType
	if alertType == "" {
		alertType = TypeCriticalRisk
	}
	template, exists := h.templateMap[alertType]
	if !exists {
		return nil, stderrors.NewValidationError("unknown alert type")
	}

	data := map[string]interface{}{
		"alertType": alertType,
		"priority":  input.Priority,
		"summary":   strings.Join(input.Notifications, "\n"),
		"count":     len(input.Notifications),
	}
	for k, v := range input.Metadata {
		data[k] = v
	}

	subject := renderTemplate(template["subject"], data)
	body := renderTemplate(template["body"], data)

	channels := []string{}
	var lastErr error

	if h.config.EmailEnabled && len(h.alerts.OpsEmails) > 0 {
		if err := h.sendEmail(ctx, h.alerts.OpsEmails, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":      err,
				"recipients": len(h.alerts.OpsEmails),
			})
			lastErr = err
		} else {
			channels = append(channels, ChannelEmail)
			if h.obs != nil {
				h.obs.RecordAlertSent(ctx, ChannelEmail)
			}
		}
	}

	// SMS goes out only for high-priority alerts.
	if h.config.SMSEnabled && h.alerts.OpsPhone != "" && input.Priority == "high" {
		if err := h.sendSMS(ctx, h.alerts.OpsPhone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
			})
			lastErr = err
		} else {
			channels = append(channels, ChannelSMS)
			if h.obs != nil {
				h.obs.RecordAlertSent(ctx, ChannelSMS)
			}
		}
	}

	// Nothing delivered but something was attempted: surface the failure so
	// the broker can retry.
	if len(channels) == 0 && lastErr != nil {
		return nil, stderrors.NewNotificationSendFailedError(alertType, lastErr)
	}

	status := StatusDisabled
	if len(channels) > 0 {
		status = StatusSent
	}

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		Channels:       channels,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) sendEmail(ctx context.Context, to []string, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func loadTemplates() map[string]map[string]string {
	return map[string]map[string]string{
		TypeCriticalRisk: {
			"subject": "Portfolio Risk Alert: {{count}} position(s) at critical risk",
			"body":    "The portfolio aggregation flagged the following positions:\n\n{{summary}}\n\nPriority: {{priority}}.",
		},
		TypeDailySummary: {
			"subject": "Daily Portfolio Risk Summary",
			"body":    "Today's aggregation produced {{count}} notification(s):\n\n{{summary}}",
		},
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
