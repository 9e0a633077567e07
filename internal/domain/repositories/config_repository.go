package repositories

import (
	"context"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// ConfigRepository persists the report configuration. Load returns only what
// is stored; merging over defaults is the config service's job.
type ConfigRepository interface {
	Load(ctx context.Context) (*entities.ReportConfig, error)
	Save(ctx context.Context, cfg *entities.ReportConfig) error
}
