// internal/workers/portfolio/aggregate-risk/repository.go
package aggregaterisk

import (
	"context"
	"database/sql"

	"lending-workers/internal/risk"
)

// Repository reads the three risk-bearing source tables. Each query coerces
// the risk column through the non-finite safety rule at the scan boundary.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchAssets(ctx context.Context) ([]risk.ScoredRow, error) {
	return r.fetch(ctx, `
		SELECT id, label, predicted_risk, value, updated_at
		FROM assets ORDER BY predicted_risk DESC`, "value")
}

func (r *Repository) FetchLoans(ctx context.Context) ([]risk.ScoredRow, error) {
	return r.fetch(ctx, `
		SELECT id, label, default_risk, amount, updated_at
		FROM loans ORDER BY default_risk DESC`, "amount")
}

func (r *Repository) FetchTroubledAssets(ctx context.Context) ([]risk.ScoredRow, error) {
	return r.fetch(ctx, `
		SELECT id, label, risk_score, value, updated_at
		FROM troubled_assets ORDER BY risk_score DESC`, "value")
}

func (r *Repository) fetch(ctx context.Context, query, moneyField string) ([]risk.ScoredRow, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []risk.ScoredRow{}
	for rows.Next() {
		var (
			row       risk.ScoredRow
			rawRisk   sql.NullFloat64
			money     sql.NullFloat64
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&row.ID, &row.Label, &rawRisk, &money, &updatedAt); err != nil {
			return nil, err
		}

		row.Risk = risk.SafeNum(rawRisk.Float64)
		if money.Valid {
			v := money.Float64
			if moneyField == "amount" {
				row.Amount = &v
			} else {
				row.Value = &v
			}
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			row.UpdatedAt = &t
		}

		out = append(out, row)
	}
	return out, rows.Err()
}
