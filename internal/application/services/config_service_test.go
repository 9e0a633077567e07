package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

type stubConfigRepo struct {
	stored  *entities.ReportConfig
	loadErr error
	saveErr error
	saved   *entities.ReportConfig
}

func (s *stubConfigRepo) Load(ctx context.Context) (*entities.ReportConfig, error) {
	return s.stored, s.loadErr
}

func (s *stubConfigRepo) Save(ctx context.Context, cfg *entities.ReportConfig) error {
	s.saved = cfg
	return s.saveErr
}

func TestConfigServiceGet(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("empty store yields defaults", func(t *testing.T) {
		svc := NewConfigService(&stubConfigRepo{}, logger)
		cfg, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultReportConfig(), cfg)
	})

	t.Run("stored overrides merge over defaults", func(t *testing.T) {
		stored := &entities.ReportConfig{
			Prices: map[entities.ProcedureType]map[entities.RoleLabel]float64{
				entities.SurgeryGrade1: {entities.PayPrimary: 150000},
			},
			TimeRules: map[entities.ProcedureType]entities.TimeRule{
				entities.SurgeryGrade1: {Min: 90, Max: 200},
			},
			IgnoredMachineNames: []string{"[gây tê]"},
		}
		svc := NewConfigService(&stubConfigRepo{stored: stored}, logger)

		cfg, err := svc.Get(context.Background())
		require.NoError(t, err)

		// Overridden cell.
		assert.Equal(t, 150000.0, cfg.Prices[entities.SurgeryGrade1][entities.PayPrimary])
		// Untouched cells in the same tier keep their defaults.
		assert.Equal(t, 90000.0, cfg.Prices[entities.SurgeryGrade1][entities.PayAssistant])
		// Other types keep their defaults.
		assert.Equal(t, 280000.0, cfg.Prices[entities.SurgerySpecial][entities.PayPrimary])

		assert.Equal(t, entities.TimeRule{Min: 90, Max: 200}, cfg.TimeRules[entities.SurgeryGrade1])
		assert.Equal(t, entities.TimeRule{Min: 60, Max: 180}, cfg.TimeRules[entities.SurgeryGrade2])

		assert.Equal(t, []string{"[gây tê]"}, cfg.IgnoredMachineNames)
	})

	t.Run("store failure falls back to defaults", func(t *testing.T) {
		svc := NewConfigService(&stubConfigRepo{loadErr: errors.New("connection refused")}, logger)
		cfg, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultReportConfig(), cfg)
	})
}

func TestConfigServiceUpdate(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("persists and returns merged view", func(t *testing.T) {
		repo := &stubConfigRepo{}
		svc := NewConfigService(repo, logger)

		overrides := &entities.ReportConfig{
			Prices: map[entities.ProcedureType]map[entities.RoleLabel]float64{
				entities.ProcedureGrade1: {entities.PayAuxiliary: 25000},
			},
		}
		cfg, err := svc.Update(context.Background(), overrides)
		require.NoError(t, err)
		assert.Equal(t, overrides, repo.saved)
		assert.Equal(t, 25000.0, cfg.Prices[entities.ProcedureGrade1][entities.PayAuxiliary])
		assert.Equal(t, 37500.0, cfg.Prices[entities.ProcedureGrade1][entities.PayPrimary])
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		repo := &stubConfigRepo{saveErr: errors.New("write failed")}
		svc := NewConfigService(repo, logger)
		_, err := svc.Update(context.Background(), &entities.ReportConfig{})
		assert.Error(t, err)
	})
}
