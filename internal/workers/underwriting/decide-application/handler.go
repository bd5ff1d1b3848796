// internal/workers/underwriting/decide-application/handler.go
package decideapplication

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"math/rand"
	"time"

	"lending-workers/internal/common/bureau"
	"lending-workers/internal/common/config"
	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/kyc"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/common/observability"
	"lending-workers/internal/common/vault"
	"lending-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "decide-application"

	// approvalScoreThreshold is the minimum bureau score for auto-approval.
	approvalScoreThreshold = 700
)

type Handler struct {
	config       *Config
	db           *sql.DB
	vault        *vault.Vault
	kyc          KYCService
	bureau       BureauService
	store        DocumentStore
	audit        AuditIndexer
	features     config.FeatureConfig
	obs          *observability.Observability
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(
	cfg *Config,
	db *sql.DB,
	piiVault *vault.Vault,
	kycService KYCService,
	bureauService BureauService,
	store DocumentStore,
	audit AuditIndexer,
	features config.FeatureConfig,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		db:           db,
		vault:        piiVault,
		kyc:          kycService,
		bureau:       bureauService,
		store:        store,
		audit:        audit,
		features:     features,
		obs:          obs,
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

	if h.obs != nil {
		h.obs.RecordDecision(ctx, output.Decision)
	}

	h.completeJob(client, job, output)
}

type kycOutcome struct {
	result *kyc.VerifyResult
	err    error
}

type bureauOutcome struct {
	score int
	err   error
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	applicant := input.Applicant

	// KYC and bureau lookups are independent; issue them concurrently.
	// Either failure short-circuits before anything is persisted.
	kycCh := make(chan kycOutcome, 1)
	bureauCh := make(chan bureauOutcome, 1)

	go func() {
		kycCh <- h.verifyIdentity(ctx, applicant)
	}()
	go func() {
		bureauCh <- h.lookupScore(ctx, applicant)
	}()

	kycRes := <-kycCh
	bureauRes := <-bureauCh

	if kycRes.err != nil {
		return nil, stderrors.NewKYCUnavailableError(kycRes.err)
	}
	if bureauRes.err != nil {
		return nil, stderrors.NewBureauUnavailableError(bureauRes.err)
	}

	decision, status := models.DecisionReview, models.StatusUnderReview
	if bureauRes.score >= approvalScoreThreshold && kycRes.result.Passed {
		decision, status = models.DecisionApprove, models.StatusApproved
	}

	encryptedSSN, err := h.vault.Encrypt(applicant.SSN)
	if err != nil {
		return nil, stderrors.NewEncryptionFailedError(err)
	}

	documentURL := ""
	if input.Document != nil {
		content, decodeErr := base64.StdEncoding.DecodeString(input.Document.ContentBase64)
		if decodeErr != nil {
			return nil, stderrors.NewValidationError("document content is not valid base64")
		}
		documentURL, err = h.store.Upload(ctx, input.Document.Filename, input.Document.ContentType, content)
		if err != nil {
			return nil, stderrors.NewStorageFailedError(err)
		}
	}

	appID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, stderrors.NewPersistenceError(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO applications (
			id, name, email, encrypted_ssn, amount,
			credit_score, kyc_passed, decision, status, document_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		appID,
		applicant.Name,
		applicant.Email,
		encryptedSSN,
		applicant.Amount,
		bureauRes.score,
		kycRes.result.Passed,
		decision,
		status,
		documentURL,
		createdAt,
	)
	if err != nil {
		return nil, stderrors.NewPersistenceError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, stderrors.NewPersistenceError(err)
	}

	h.indexAuditEvent(ctx, appID, decision, bureauRes.score, kycRes.result.Passed, createdAt)

	h.logger.Info("application decided", map[string]interface{}{
		"applicationId": appID,
		"decision":      decision,
		"creditScore":   bureauRes.score,
		"kycPassed":     kycRes.result.Passed,
	})

	return &Output{
		ApplicationID: appID,
		Decision:      decision,
		Status:        status,
		CreditScore:   bureauRes.score,
		KYCPassed:     kycRes.result.Passed,
		DocumentURL:   documentURL,
		CreatedAt:     createdAt,
	}, nil
}

// verifyIdentity calls the KYC provider, auto-passing when the capability is
// disabled by flag.
func (h *Handler) verifyIdentity(ctx context.Context, applicant models.Applicant) kycOutcome {
	if !h.features.KYC {
		return kycOutcome{result: &kyc.VerifyResult{Passed: true, Reason: "kyc disabled by flag"}}
	}

	result, err := h.kyc.Verify(ctx, &kyc.VerifyRequest{
		Name:    applicant.Name,
		SSN:     applicant.SSN,
		Address: applicant.Address,
		Email:   applicant.Email,
	})
	return kycOutcome{result: result, err: err}
}

// lookupScore calls the bureau, synthesizing a score in [650,750] when the
// capability is disabled by flag.
func (h *Handler) lookupScore(ctx context.Context, applicant models.Applicant) bureauOutcome {
	if !h.features.Credit {
		return bureauOutcome{score: 650 + rand.Intn(101)}
	}

	result, err := h.bureau.GetScore(ctx, &bureau.ScoreRequest{
		Name: applicant.Name,
		SSN:  applicant.SSN,
	})
	if err != nil {
		return bureauOutcome{err: err}
	}
	return bureauOutcome{score: result.Score}
}

// indexAuditEvent records the decision in the audit index. Non-critical;
// failures are logged and swallowed.
func (h *Handler) indexAuditEvent(ctx context.Context, appID, decision string, score int, kycPassed bool, createdAt string) {
	if h.audit == nil {
		return
	}

	event, err := json.Marshal(map[string]interface{}{
		"eventType":     "application_decided",
		"applicationId": appID,
		"decision":      decision,
		"creditScore":   score,
		"kycPassed":     kycPassed,
		"createdAt":     createdAt,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit event", map[string]interface{}{
			"error": err,
		})
		return
	}

	if err := h.audit.IndexDocument(ctx, h.config.AuditIndex, appID, event); err != nil {
		h.logger.Warn("audit index failed", map[string]interface{}{
			"error":         err,
			"applicationId": appID,
		})
	}
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
