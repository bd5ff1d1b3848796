// internal/workers/underwriting/validate-applicant-data/handler.go
package validateapplicantdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lending-workers/internal/common/logger"
	"lending-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-applicant-data"
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "VALIDATION_ERROR", err.Error())
		return
	}

	if !output.Valid {
		// Route the process to its rejection path. The message names failed
		// fields only; submitted values are never echoed.
		h.failJob(client, job, "VALIDATION_FAILED", failedFieldSummary(output.Errors))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	applicant := input.Applicant
	if applicant == nil {
		applicant = make(map[string]interface{})
	}

	result, err := validation.ValidateApplicant(applicant)
	if err != nil {
		return nil, fmt.Errorf("applicant schema check failed: %w", err)
	}

	allErrors := result.Errors

	if input.Document != nil {
		docResult := validation.ValidateDocument(input.Document.ContentType, input.Document.Size)
		allErrors = append(allErrors, docResult.Errors...)
	}

	output := &Output{
		Valid:  len(allErrors) == 0,
		Errors: allErrors,
	}

	h.logger.Info("applicant data validated", map[string]interface{}{
		"valid":      output.Valid,
		"errorCount": len(allErrors),
	})

	return output, nil
}

func failedFieldSummary(errs []validation.ValidationError) string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return "validation failed for fields: " + strings.Join(fields, ", ")
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
