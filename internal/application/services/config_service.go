package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/repositories"
)

// ConfigService serves the report configuration, layering whatever the store
// holds over the built-in defaults so a partial save never strips a procedure
// type from the price or time tables.
type ConfigService struct {
	repo   repositories.ConfigRepository
	logger zerolog.Logger
}

func NewConfigService(repo repositories.ConfigRepository, logger zerolog.Logger) *ConfigService {
	return &ConfigService{repo: repo, logger: logger}
}

// Get returns the effective configuration. A store read failure falls back to
// defaults so processing is never blocked by the config store being down.
func (s *ConfigService) Get(ctx context.Context) (*entities.ReportConfig, error) {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("config store unavailable, using defaults")
		return entities.DefaultReportConfig(), nil
	}
	return mergeConfig(stored), nil
}

// Update persists the given overrides and returns the resulting effective
// configuration.
func (s *ConfigService) Update(ctx context.Context, cfg *entities.ReportConfig) (*entities.ReportConfig, error) {
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return mergeConfig(cfg), nil
}

// mergeConfig overlays stored values on the defaults. Price cells and time
// rules are merged per procedure type; the exempt-name list replaces the
// default outright when present.
func mergeConfig(stored *entities.ReportConfig) *entities.ReportConfig {
	merged := entities.DefaultReportConfig()
	if stored == nil {
		return merged
	}

	for t, tiers := range stored.Prices {
		if merged.Prices[t] == nil {
			merged.Prices[t] = make(map[entities.RoleLabel]float64, len(tiers))
		}
		for label, price := range tiers {
			merged.Prices[t][label] = price
		}
	}

	for t, rule := range stored.TimeRules {
		merged.TimeRules[t] = rule
	}

	if stored.IgnoredMachineNames != nil {
		merged.IgnoredMachineNames = append([]string(nil), stored.IgnoredMachineNames...)
	}

	return merged
}
