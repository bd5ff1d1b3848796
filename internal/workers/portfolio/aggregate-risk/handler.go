// internal/workers/portfolio/aggregate-risk/handler.go

// Package aggregaterisk rolls the asset, loan, and troubled-asset books into
// one portfolio risk summary: severity buckets per category, combined totals,
// and a ranked cross-category alert list. Any source failure degrades the
// whole aggregation to a fixed snapshot; partially computed buckets are never
// emitted.
package aggregaterisk

import (
	"context"
	"encoding/json"
	"fmt"

	"lending-workers/internal/common/config"
	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/risk"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const TaskType = "aggregate-portfolio-risk"

// SourceReader fetches the three risk-bearing collections.
type SourceReader interface {
	FetchAssets(ctx context.Context) ([]risk.ScoredRow, error)
	FetchLoans(ctx context.Context) ([]risk.ScoredRow, error)
	FetchTroubledAssets(ctx context.Context) ([]risk.ScoredRow, error)
}

type Handler struct {
	config       *Config
	sources      SourceReader
	cache        *redis.Client
	alerts       config.AlertConfig
	features     config.FeatureConfig
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(
	cfg *Config,
	sources SourceReader,
	cache *redis.Client,
	alerts config.AlertConfig,
	features config.FeatureConfig,
	log logger.Logger,
) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		sources:      sources,
		cache:        cache,
		alerts:       alerts,
		features:     features,
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

type fetchResult struct {
	name string
	rows []risk.ScoredRow
	err  error
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// A disabled trading module with a live store is an explicit 404-class
	// condition, distinct from the degraded snapshot.
	if !h.features.Trading && h.sources != nil {
		return nil, stderrors.NewModuleDisabledError("portfolio")
	}

	if cached := h.readCache(ctx, input); cached != nil {
		return &Output{Summary: *cached}, nil
	}

	// No reachable store at all; serve the fixed snapshot instead of a
	// partial aggregation.
	if h.sources == nil {
		h.logger.Warn("risk store unavailable, serving degraded snapshot", map[string]interface{}{})
		return &Output{Summary: fallbackSummary()}, nil
	}

	results := make(chan fetchResult, 3)
	go func() {
		rows, err := h.sources.FetchAssets(ctx)
		results <- fetchResult{name: "assets", rows: rows, err: err}
	}()
	go func() {
		rows, err := h.sources.FetchLoans(ctx)
		results <- fetchResult{name: "loans", rows: rows, err: err}
	}()
	go func() {
		rows, err := h.sources.FetchTroubledAssets(ctx)
		results <- fetchResult{name: "troubled_assets", rows: rows, err: err}
	}()

	rowsByName := map[string][]risk.ScoredRow{}
	for i := 0; i < 3; i++ {
		result := <-results
		if result.err != nil {
			// One failed source poisons the whole run; serve the snapshot.
			h.logger.Warn("source fetch failed, serving degraded snapshot", map[string]interface{}{
				"source": result.name,
				"error":  result.err,
			})
			return &Output{Summary: fallbackSummary()}, nil
		}
		rowsByName[result.name] = result.rows
	}

	summary := h.summarize(rowsByName["assets"], rowsByName["loans"], rowsByName["troubled_assets"])
	h.writeCache(ctx, &summary)

	h.logger.Info("portfolio risk aggregated", map[string]interface{}{
		"assets":    summary.Assets.Total,
		"loans":     summary.Loans.Total,
		"troubled":  summary.Troubled.Total,
		"topAlerts": len(summary.TopAlerts),
	})

	return &Output{Summary: summary}, nil
}

func (h *Handler) summarize(assets, loans, troubled []risk.ScoredRow) Summary {
	assetBucket := risk.Bucketize(assets)
	loanBucket := risk.Bucketize(loans)
	troubledBucket := risk.Bucketize(troubled)

	topAlerts := risk.TopAlerts(assets, loans, troubled)

	return Summary{
		CombinedBuckets: risk.ToDonutBuckets(risk.CombineBuckets(assetBucket, loanBucket, troubledBucket)),
		Assets: CategorySummary{
			Total:   len(assets),
			Buckets: risk.ToDonutBuckets(assetBucket),
			Top:     risk.TopRows(assets),
		},
		Loans: CategorySummary{
			Total:   len(loans),
			Buckets: risk.ToDonutBuckets(loanBucket),
			Top:     risk.TopRows(loans),
		},
		Troubled: CategorySummary{
			Total:   len(troubled),
			Buckets: risk.ToDonutBuckets(troubledBucket),
			Top:     risk.TopRows(troubled),
		},
		TopAlerts:     topAlerts,
		LastRunAt:     risk.LastRunAt(assets, loans, troubled),
		Notifications: h.buildNotifications(topAlerts),
	}
}

// buildNotifications flags alerts at or above the configured critical
// threshold for the ops distribution list.
func (h *Handler) buildNotifications(alerts []risk.Alert) []string {
	notifications := []string{}
	threshold := h.alerts.CriticalThreshold
	if threshold <= 0 {
		threshold = 0.85
	}
	for _, alert := range alerts {
		if alert.Risk >= threshold {
			notifications = append(notifications,
				fmt.Sprintf("%s %s at critical risk %.2f", alert.Type, alert.Label, alert.Risk))
		}
	}
	return notifications
}

func (h *Handler) readCache(ctx context.Context, input *Input) *Summary {
	if h.cache == nil || input.ForceRefresh {
		return nil
	}

	payload, err := h.cache.Get(ctx, h.config.CacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("summary cache read failed", map[string]interface{}{
				"error": err,
			})
		}
		return nil
	}

	var summary Summary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		h.logger.Warn("summary cache entry corrupt", map[string]interface{}{
			"error": err,
		})
		return nil
	}
	return &summary
}

// writeCache is best-effort; only live computations are cached.
func (h *Handler) writeCache(ctx context.Context, summary *Summary) {
	if h.cache == nil {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.config.CacheKey, payload, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("summary cache write failed", map[string]interface{}{
			"error": err,
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
