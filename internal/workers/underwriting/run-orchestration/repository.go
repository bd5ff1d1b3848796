// internal/workers/underwriting/run-orchestration/repository.go
package runorchestration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	stderrors "lending-workers/internal/common/errors"
	"lending-workers/internal/models"
)

// Repository persists orchestration records as JSONB rows. Reads degrade to
// empty results when the backing table was never provisioned, so a fresh
// environment answers list/detail calls instead of erroring.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, record *models.OrchestrationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal orchestration record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orchestration_records (id, submitted_at, record)
		VALUES ($1, $2, $3)`,
		record.ID, record.SubmittedAt, payload,
	)
	return err
}

// List returns records newest-first. An unconfigured schema yields an empty
// slice, not an error.
func (r *Repository) List(ctx context.Context) ([]models.OrchestrationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT record FROM orchestration_records ORDER BY submitted_at DESC`)
	if err != nil {
		if stderrors.IsUnconfigured(err) {
			return []models.OrchestrationRecord{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	records := []models.OrchestrationRecord{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record models.OrchestrationRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("unmarshal orchestration record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Get returns nil for both a missing record and an unconfigured schema.
func (r *Repository) Get(ctx context.Context, id string) (*models.OrchestrationRecord, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT record FROM orchestration_records WHERE id = $1`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if stderrors.IsUnconfigured(err) {
			return nil, nil
		}
		return nil, err
	}

	var record models.OrchestrationRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal orchestration record: %w", err)
	}
	return &record, nil
}
