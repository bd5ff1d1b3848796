// internal/workers/underwriting/run-orchestration/handler.go
package runorchestration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"time"

	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/documentai"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/common/vault"
	"lending-workers/internal/models"
	"lending-workers/internal/risk"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "run-orchestration"

// Handler runs the full document-to-scorecard pipeline as named stages and
// persists one append-only record with a per-stage audit trail.
type Handler struct {
	config       *Config
	docai        DocumentAI
	repo         *Repository
	store        DocumentStore
	vault        *vault.Vault
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, docai DocumentAI, repo *Repository, store DocumentStore, piiVault *vault.Vault, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		docai:        docai,
		repo:         repo,
		store:        store,
		vault:        piiVault,
		errorHandler: stderrors.NewErrorHandler(scoped),
		logger:       scoped,
	}
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
	tasks := map[string]models.TaskResult{}
	outputs := models.OrchestrationOutputs{}

	documentURL := input.DocumentURL
	packageFilename := input.PackageFilename
	if input.Package != nil {
		content, decodeErr := base64.StdEncoding.DecodeString(input.Package.ContentBase64)
		if decodeErr != nil {
			return nil, stderrors.NewValidationError("package content is not valid base64")
		}
		url, uploadErr := h.store.Upload(ctx, input.Package.Filename, input.Package.ContentType, content)
		if uploadErr != nil {
			return nil, stderrors.NewStorageFailedError(uploadErr)
		}
		documentURL = url
		packageFilename = input.Package.Filename
	}

	if documentURL != "" {
		extract, err := h.docai.ExtractFields(ctx, documentURL)
		if err != nil {
			return nil, wrapDocumentError(err)
		}
		outputs.DocumentFields = extract.Fields
		recordStage(tasks, models.StageParseDocument, extract)

		autofill, err := h.docai.SuggestAutofill(ctx, extract.Fields)
		if err != nil {
			return nil, wrapDocumentError(err)
		}
		outputs.AutoFill = autofill.Suggestions
		recordStage(tasks, models.StageExtractAutofill, autofill)
	}

	// A missing or garbled base score flows through to the credit adjuster,
	// which substitutes its documented default; the scorecard falls back to
	// the adjuster's base when the raw value is unusable.
	base, ok := risk.ToNumber(input.BaseScore)
	if !ok {
		base = math.NaN()
	}

	history := risk.NormalizeNumbers(input.Applicant.History)
	credit := risk.AdjustCredit(input.BaseScore, history)
	outputs.Credit = &credit
	recordStage(tasks, models.StageAdjustCredit, credit)

	fraud := risk.DetectFraud(risk.FraudInput{
		Address:      input.Applicant.Address,
		Income:       input.Applicant.Income,
		SSN:          input.Applicant.SSN,
		Name:         input.Applicant.Name,
		BusinessName: input.Applicant.BusinessName,
	})
	outputs.Fraud = &fraud
	recordStage(tasks, models.StageDetectFraud, fraud)

	amount := input.Applicant.Amount
	autoFields := make(map[string]interface{}, len(outputs.AutoFill))
	for key, value := range outputs.AutoFill {
		autoFields[key] = value
	}

	scorecard := risk.ComposeScorecard(base, credit, fraud, &amount, autoFields)
	outputs.Scorecard = &scorecard
	recordStage(tasks, models.StageComposeScorecard, scorecard)

	encryptedSSN, err := h.vault.Encrypt(input.Applicant.SSN)
	if err != nil {
		return nil, stderrors.NewEncryptionFailedError(err)
	}
	applicant := input.Applicant
	applicant.SSN = encryptedSSN

	record := models.OrchestrationRecord{
		ID:              uuid.New().String(),
		Applicant:       applicant,
		Status:          "completed",
		Outputs:         outputs,
		Tasks:           tasks,
		DocumentURL:     documentURL,
		PackageFilename: packageFilename,
		ReviewStatus:    "pending",
		SubmittedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.repo.Save(ctx, &record); err != nil {
		return nil, stderrors.NewPersistenceError(err)
	}

	h.logger.Info("orchestration persisted", map[string]interface{}{
		"orchestrationId": record.ID,
		"stages":          len(tasks),
		"suspicious":      fraud.Suspicious,
	})

	return &Output{Record: record}, nil
}

func recordStage(tasks map[string]models.TaskResult, stage string, output interface{}) {
	tasks[stage] = models.TaskResult{
		Status:      "completed",
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
		Output:      output,
	}
}

func wrapDocumentError(err error) *stderrors.StandardError {
	if errors.Is(err, documentai.ErrTimeout) {
		return stderrors.NewTimeoutError("document-ai")
	}
	return stderrors.NewDocumentServiceError(err)
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
