// internal/workers/underwriting/run-orchestration/repository_test.go
package runorchestration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-workers/internal/models"
)

func TestRepository_List_UnconfiguredSchemaYieldsEmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT record FROM orchestration_records").
		WillReturnError(&pq.Error{Code: "42P01"})

	records, err := NewRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRepository_List_ReturnsRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	record := models.OrchestrationRecord{ID: "orch-1", Status: "completed"}
	payload, err := json.Marshal(record)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record FROM orchestration_records").
		WillReturnRows(sqlmock.NewRows([]string{"record"}).AddRow(payload))

	records, err := NewRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "orch-1", records[0].ID)
}

func TestRepository_Get_MissingRecordIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT record FROM orchestration_records").
		WillReturnRows(sqlmock.NewRows([]string{"record"}))

	record, err := NewRepository(db).Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRepository_Get_UnconfiguredSchemaIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT record FROM orchestration_records").
		WillReturnError(&pq.Error{Code: "42P01"})

	record, err := NewRepository(db).Get(context.Background(), "orch-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}
