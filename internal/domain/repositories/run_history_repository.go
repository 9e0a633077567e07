package repositories

import (
	"context"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// RunHistoryRepository records completed processing runs for the audit listing.
type RunHistoryRepository interface {
	Record(ctx context.Context, summary entities.RunSummary) error
	List(ctx context.Context, limit int) ([]entities.RunSummary, error)
}
