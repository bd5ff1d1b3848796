package risk

import (
	"sort"
	"time"
)

// Bucket partitions a row set by severity. For any input,
// Low+Medium+High equals the row count.
type Bucket struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ScoredRow is one risk-bearing entity row. Risk is already coerced to a
// finite number (non-finite becomes 0 at the scan boundary). Amount and
// Value are the category-specific monetary fields.
type ScoredRow struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Risk      float64    `json:"risk"`
	Amount    *float64   `json:"amount,omitempty"`
	Value     *float64   `json:"value,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Alert is one entry in the ranked cross-category alert list.
type Alert struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Risk  float64 `json:"risk"`
	Type  string  `json:"type"`
}

const (
	AlertTypeAsset         = "asset"
	AlertTypeLoan          = "loan"
	AlertTypeTroubledAsset = "troubled_asset"
)

// DonutSlice is one ordered segment of the dashboard donut chart.
type DonutSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Bucketize partitions rows by risk. Thresholds are strict greater-than:
// risk > 0.7 is high, risk > 0.4 is medium, everything else is low.
func Bucketize(rows []ScoredRow) Bucket {
	var b Bucket
	for _, row := range rows {
		switch {
		case row.Risk > 0.7:
			b.High++
		case row.Risk > 0.4:
			b.Medium++
		default:
			b.Low++
		}
	}
	return b
}

// CombineBuckets sums buckets elementwise. Associative and commutative.
func CombineBuckets(buckets ...Bucket) Bucket {
	var out Bucket
	for _, b := range buckets {
		out.Low += b.Low
		out.Medium += b.Medium
		out.High += b.High
	}
	return out
}

// ToDonutBuckets renders a bucket in the fixed Low/Medium/High order the
// dashboard expects.
func ToDonutBuckets(b Bucket) []DonutSlice {
	return []DonutSlice{
		{Label: "Low", Value: b.Low},
		{Label: "Medium", Value: b.Medium},
		{Label: "High", Value: b.High},
	}
}

// TopRows keeps rows with risk strictly above 0.4, preserving caller order,
// truncated to 5.
func TopRows(rows []ScoredRow) []ScoredRow {
	out := []ScoredRow{}
	for _, row := range rows {
		if row.Risk > 0.4 {
			out = append(out, row)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

// TopAlerts merges the per-category top lists, tags each entry by category,
// sorts descending by risk, and truncates to 6.
func TopAlerts(assets, loans, troubled []ScoredRow) []Alert {
	alerts := []Alert{}
	appendAlerts := func(rows []ScoredRow, alertType string) {
		for _, row := range TopRows(rows) {
			alerts = append(alerts, Alert{
				ID:    row.ID,
				Label: row.Label,
				Risk:  row.Risk,
				Type:  alertType,
			})
		}
	}

	appendAlerts(assets, AlertTypeAsset)
	appendAlerts(loans, AlertTypeLoan)
	appendAlerts(troubled, AlertTypeTroubledAsset)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Risk > alerts[j].Risk
	})

	if len(alerts) > 6 {
		alerts = alerts[:6]
	}
	return alerts
}

// LastRunAt returns the newest UpdatedAt across all source rows, or nil when
// no row carries one.
func LastRunAt(rowSets ...[]ScoredRow) *time.Time {
	var latest *time.Time
	for _, rows := range rowSets {
		for _, row := range rows {
			if row.UpdatedAt == nil {
				continue
			}
			if latest == nil || row.UpdatedAt.After(*latest) {
				t := *row.UpdatedAt
				latest = &t
			}
		}
	}
	return latest
}
