package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

func setupRunHistory(t *testing.T) (*RunHistoryAdapter, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewRunHistoryAdapter(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestRunHistoryRecord(t *testing.T) {
	adapter, mock := setupRunHistory(t)

	mock.ExpectExec(`INSERT INTO run_history`).
		WithArgs("run-1", "Từ ngày 01/01/2024 đến ngày 31/01/2024", 120, 4, 7, 2500000.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Record(context.Background(), entities.RunSummary{
		RunID:          "run-1",
		Period:         "Từ ngày 01/01/2024 đến ngày 31/01/2024",
		RecordCount:    120,
		ConflictCount:  4,
		MissingMachine: 7,
		TotalPayment:   2500000,
		GeneratedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunHistoryList(t *testing.T) {
	adapter, mock := setupRunHistory(t)
	generated := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT run_id, period, record_count, conflict_count, missing_machine, total_payment, generated_at\s+FROM run_history`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"run_id", "period", "record_count", "conflict_count", "missing_machine", "total_payment", "generated_at",
		}).AddRow("run-2", "Tháng 1", 80, 2, 3, 1800000.0, generated))

	runs, err := adapter.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, 80, runs[0].RecordCount)
	assert.Equal(t, generated, runs[0].GeneratedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
