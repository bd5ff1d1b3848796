// internal/workers/portfolio/aggregate-risk/handler_test.go
package aggregaterisk

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-workers/internal/common/config"
	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/risk"
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

type fakeSources struct {
	assets      []risk.ScoredRow
	assetsErr   error
	loans       []risk.ScoredRow
	loansErr    error
	troubled    []risk.ScoredRow
	troubledErr error
}

func (f *fakeSources) FetchAssets(ctx context.Context) ([]risk.ScoredRow, error) {
	return f.assets, f.assetsErr
}

func (f *fakeSources) FetchLoans(ctx context.Context) ([]risk.ScoredRow, error) {
	return f.loans, f.loansErr
}

func (f *fakeSources) FetchTroubledAssets(ctx context.Context) ([]risk.ScoredRow, error) {
	return f.troubled, f.troubledErr
}

func newTestCache(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func tradingEnabled() config.FeatureConfig {
	return config.FeatureConfig{Trading: true}
}

func rowsWithRisk(prefix string, risks ...float64) []risk.ScoredRow {
	rows := make([]risk.ScoredRow, len(risks))
	for i, r := range risks {
		rows[i] = risk.ScoredRow{ID: prefix + "-" + string(rune('a'+i)), Label: prefix, Risk: r}
	}
	return rows
}

func TestHandler_Execute_LiveAggregation(t *testing.T) {
	updated := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	sources := &fakeSources{
		assets: []risk.ScoredRow{
			{ID: "a-1", Label: "Warehouse A", Risk: 0.8, UpdatedAt: &updated},
			{ID: "a-2", Label: "Warehouse B", Risk: 0.3},
		},
		loans: []risk.ScoredRow{
			{ID: "l-1", Label: "Loan 1", Risk: 0.5},
		},
		troubled: []risk.ScoredRow{
			{ID: "t-1", Label: "Distressed 1", Risk: 0.95},
		},
	}

	handler := NewHandler(LoadConfig(), sources, newTestCache(t),
		config.AlertConfig{CriticalThreshold: 0.9}, tradingEnabled(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	summary := output.Summary
	assert.Equal(t, 2, summary.Assets.Total)
	assert.Equal(t, 1, summary.Loans.Total)
	assert.Equal(t, 1, summary.Troubled.Total)

	assert.Equal(t, []risk.DonutSlice{
		{Label: "Low", Value: 1},
		{Label: "Medium", Value: 1},
		{Label: "High", Value: 2},
	}, summary.CombinedBuckets)

	require.Len(t, summary.TopAlerts, 3)
	assert.Equal(t, "t-1", summary.TopAlerts[0].ID)
	assert.Equal(t, risk.AlertTypeTroubledAsset, summary.TopAlerts[0].Type)
	assert.Equal(t, "a-1", summary.TopAlerts[1].ID)

	require.NotNil(t, summary.LastRunAt)
	assert.Equal(t, updated, *summary.LastRunAt)

	require.Len(t, summary.Notifications, 1)
	assert.Contains(t, summary.Notifications[0], "Distressed 1")
}

func TestHandler_Execute_SourceFailureDegrades(t *testing.T) {
	sources := &fakeSources{
		assets:   rowsWithRisk("asset", 0.8),
		loansErr: errors.New("connection refused"),
		troubled: rowsWithRisk("troubled", 0.9),
	}

	handler := NewHandler(LoadConfig(), sources, newTestCache(t),
		config.AlertConfig{}, tradingEnabled(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	summary := output.Summary
	assert.Equal(t, 0, summary.Assets.Total)
	assert.Empty(t, summary.TopAlerts)
	assert.Nil(t, summary.LastRunAt)

	// Degraded output keeps the live shape.
	assert.Len(t, summary.CombinedBuckets, 3)
	assert.Equal(t, "Low", summary.CombinedBuckets[0].Label)
	assert.NotNil(t, summary.Notifications)
}

func TestHandler_Execute_NilStoreServesSnapshot(t *testing.T) {
	handler := NewHandler(LoadConfig(), nil, nil,
		config.AlertConfig{}, tradingEnabled(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	summary := output.Summary
	assert.Equal(t, 0, summary.Assets.Total)
	assert.Empty(t, summary.TopAlerts)
	assert.Nil(t, summary.LastRunAt)
	assert.Len(t, summary.CombinedBuckets, 3)
	assert.Equal(t, "Low", summary.CombinedBuckets[0].Label)
	assert.NotNil(t, summary.Notifications)
}

func TestHandler_Execute_ModuleDisabled(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeSources{}, newTestCache(t),
		config.AlertConfig{}, config.FeatureConfig{Trading: false}, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeModuleDisabled, stdErr.Code)
}

func TestHandler_Execute_CacheHitSkipsSources(t *testing.T) {
	cache := newTestCache(t)
	cached := Summary{
		CombinedBuckets: []risk.DonutSlice{
			{Label: "Low", Value: 7},
			{Label: "Medium", Value: 2},
			{Label: "High", Value: 1},
		},
		Notifications: []string{},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), LoadConfig().CacheKey, payload, time.Minute).Err())

	sources := &fakeSources{assetsErr: errors.New("should not be reached")}
	handler := NewHandler(LoadConfig(), sources, cache,
		config.AlertConfig{}, tradingEnabled(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, 7, output.Summary.CombinedBuckets[0].Value)
}

func TestHandler_Execute_ForceRefreshBypassesCache(t *testing.T) {
	cache := newTestCache(t)
	stale := Summary{Notifications: []string{"stale"}}
	payload, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), LoadConfig().CacheKey, payload, time.Minute).Err())

	sources := &fakeSources{assets: rowsWithRisk("asset", 0.2)}
	handler := NewHandler(LoadConfig(), sources, cache,
		config.AlertConfig{}, tradingEnabled(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Summary.Assets.Total)
	assert.Empty(t, output.Summary.Notifications)
}

func TestHandler_Execute_CachesLiveComputation(t *testing.T) {
	cache := newTestCache(t)
	sources := &fakeSources{assets: rowsWithRisk("asset", 0.2)}
	handler := NewHandler(LoadConfig(), sources, cache,
		config.AlertConfig{}, tradingEnabled(), newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	stored, err := cache.Get(context.Background(), LoadConfig().CacheKey).Result()
	require.NoError(t, err)

	var summary Summary
	require.NoError(t, json.Unmarshal([]byte(stored), &summary))
	assert.Equal(t, 1, summary.Assets.Total)
}
