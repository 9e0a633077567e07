package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/repositories"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

// RunHistoryAdapter implements RunHistoryRepository over the run_history
// table. Only the summary line of each run is kept; full results are never
// persisted, a run is recomputed from the source files when needed.
type RunHistoryAdapter struct {
	db *sqlx.DB
}

var _ repositories.RunHistoryRepository = (*RunHistoryAdapter)(nil)

// NewRunHistoryAdapter creates a new run history adapter
func NewRunHistoryAdapter(db *sqlx.DB) *RunHistoryAdapter {
	return &RunHistoryAdapter{db: db}
}

// Record inserts one run summary
func (a *RunHistoryAdapter) Record(ctx context.Context, summary entities.RunSummary) error {
	_, err := a.db.NamedExecContext(ctx, `
		INSERT INTO run_history (run_id, period, record_count, conflict_count, missing_machine, total_payment, generated_at)
		VALUES (:run_id, :period, :record_count, :conflict_count, :missing_machine, :total_payment, :generated_at)`,
		summary)
	if err != nil {
		return apperrors.NewInternalError("failed to record run history", err)
	}
	return nil
}

// List returns the most recent run summaries, newest first
func (a *RunHistoryAdapter) List(ctx context.Context, limit int) ([]entities.RunSummary, error) {
	var summaries []entities.RunSummary
	err := a.db.SelectContext(ctx, &summaries, `
		SELECT run_id, period, record_count, conflict_count, missing_machine, total_payment, generated_at
		FROM run_history
		ORDER BY generated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list run history", err)
	}
	return summaries, nil
}
