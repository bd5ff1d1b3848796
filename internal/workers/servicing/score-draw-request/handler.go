// internal/workers/servicing/score-draw-request/handler.go

// Package scoredrawrequest scores construction-draw submissions and persists
// the draw with its score. A Redis marker per project tracks the most recent
// submission time for the repeat-draw penalty.
package scoredrawrequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/models"
	"lending-workers/internal/risk"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const TaskType = "score-draw-request"

type Handler struct {
	config       *Config
	db           *sql.DB
	cache        *redis.Client
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, db *sql.DB, cache *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		db:           db,
		cache:        cache,
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
	if input.ProjectID == "" {
		return nil, stderrors.NewValidationError("projectId is required")
	}

	amount := risk.SafeNum(input.Amount)
	now := time.Now().UTC()

	lastSubmittedAt := h.readLastSubmission(ctx, input.ProjectID)
	if lastSubmittedAt == nil && input.LastSubmittedAt != "" {
		if last, parseErr := time.Parse(time.RFC3339, input.LastSubmittedAt); parseErr == nil {
			lastSubmittedAt = &last
		} else {
			h.logger.Warn("caller lastSubmittedAt unparseable", map[string]interface{}{
				"projectId": input.ProjectID,
			})
		}
	}
	score := risk.ScoreDraw(amount, input.Description, lastSubmittedAt, now)

	draw := models.Draw{
		ID:          uuid.New().String(),
		ProjectID:   input.ProjectID,
		Amount:      amount,
		Description: input.Description,
		RiskScore:   score,
		SubmittedAt: now.Format(time.RFC3339),
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO draws (id, project_id, amount, description, risk_score, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		draw.ID, draw.ProjectID, draw.Amount, draw.Description, draw.RiskScore, draw.SubmittedAt,
	)
	if err != nil {
		return nil, stderrors.NewPersistenceError(err)
	}

	h.markSubmission(ctx, input.ProjectID, now)

	h.logger.Info("draw scored", map[string]interface{}{
		"drawId":    draw.ID,
		"projectId": draw.ProjectID,
		"riskScore": draw.RiskScore,
	})

	return &Output{Draw: draw}, nil
}

// readLastSubmission fetches the project's most recent submission marker.
// An unreachable cache means no repeat penalty; the score leans safe rather
// than blocking the draw.
func (h *Handler) readLastSubmission(ctx context.Context, projectID string) *time.Time {
	if h.cache == nil {
		return nil
	}

	value, err := h.cache.Get(ctx, markerKey(projectID)).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("submission marker read failed", map[string]interface{}{
				"projectId": projectID,
				"error":     err,
			})
		}
		return nil
	}

	last, err := time.Parse(time.RFC3339, value)
	if err != nil {
		h.logger.Warn("submission marker corrupt", map[string]interface{}{
			"projectId": projectID,
		})
		return nil
	}
	return &last
}

func (h *Handler) markSubmission(ctx context.Context, projectID string, now time.Time) {
	if h.cache == nil {
		return
	}

	err := h.cache.Set(ctx, markerKey(projectID), now.Format(time.RFC3339), h.config.MarkerTTL).Err()
	if err != nil {
		h.logger.Warn("submission marker write failed", map[string]interface{}{
			"projectId": projectID,
			"error":     err,
		})
	}
}

func markerKey(projectID string) string {
	return fmt.Sprintf("draw:last:%s", projectID)
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
