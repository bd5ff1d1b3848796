// internal/workers/portfolio/aggregate-risk/models.go
package aggregaterisk

import (
	"time"

	"lending-workers/internal/risk"
)

type Input struct {
	// ForceRefresh bypasses the cached summary.
	ForceRefresh bool `json:"forceRefresh,omitempty"`
}

// CategorySummary is the per-collection slice of the portfolio summary.
type CategorySummary struct {
	Total   int              `json:"total"`
	Buckets []risk.DonutSlice `json:"buckets"`
	Top     []risk.ScoredRow  `json:"top"`
}

// Summary is the full portfolio risk aggregation. The degraded snapshot
// carries this exact shape so consumers cannot structurally tell the two
// apart.
type Summary struct {
	CombinedBuckets []risk.DonutSlice `json:"combinedBuckets"`
	Assets          CategorySummary   `json:"assets"`
	Loans           CategorySummary   `json:"loans"`
	Troubled        CategorySummary   `json:"troubled"`
	TopAlerts       []risk.Alert      `json:"topAlerts"`
	LastRunAt       *time.Time        `json:"lastRunAt"`
	Notifications   []string          `json:"notifications"`
}

type Output struct {
	Summary Summary `json:"riskSummary"`
}

// fallbackSummary is the representative snapshot served when any source
// fetch fails. Values are static and deliberately unremarkable.
func fallbackSummary() Summary {
	emptyCategory := func() CategorySummary {
		return CategorySummary{
			Total: 0,
			Buckets: []risk.DonutSlice{
				{Label: "Low", Value: 0},
				{Label: "Medium", Value: 0},
				{Label: "High", Value: 0},
			},
			Top: []risk.ScoredRow{},
		}
	}

	return Summary{
		CombinedBuckets: []risk.DonutSlice{
			{Label: "Low", Value: 0},
			{Label: "Medium", Value: 0},
			{Label: "High", Value: 0},
		},
		Assets:        emptyCategory(),
		Loans:         emptyCategory(),
		Troubled:      emptyCategory(),
		TopAlerts:     []risk.Alert{},
		LastRunAt:     nil,
		Notifications: []string{},
	}
}
