package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/repositories"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

// ConfigAdapter implements ConfigRepository over three tables: unit prices,
// time rules and the exempt procedure-name list. Load returns exactly what is
// stored; layering over defaults happens in the service.
type ConfigAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.ConfigRepository = (*ConfigAdapter)(nil)

// NewConfigAdapter creates a new config adapter
func NewConfigAdapter(client *postgres.Client) *ConfigAdapter {
	return &ConfigAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Load reads the stored configuration rows
func (a *ConfigAdapter) Load(ctx context.Context) (*entities.ReportConfig, error) {
	cfg := &entities.ReportConfig{
		Prices:    make(map[entities.ProcedureType]map[entities.RoleLabel]float64),
		TimeRules: make(map[entities.ProcedureType]entities.TimeRule),
	}

	if err := a.loadPrices(ctx, cfg); err != nil {
		return nil, err
	}
	if err := a.loadTimeRules(ctx, cfg); err != nil {
		return nil, err
	}
	if err := a.loadIgnoredNames(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (a *ConfigAdapter) loadPrices(ctx context.Context, cfg *entities.ReportConfig) error {
	query, args, err := a.db.Select("procedure_type", "role_label", "unit_price").
		From("procedure_prices").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build price query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load procedure prices", err)
	}
	defer rows.Close()

	for rows.Next() {
		var procedureType, roleLabel string
		var price float64
		if err := rows.Scan(&procedureType, &roleLabel, &price); err != nil {
			return apperrors.NewInternalError("failed to scan procedure price", err)
		}
		t := entities.ProcedureType(procedureType)
		if cfg.Prices[t] == nil {
			cfg.Prices[t] = make(map[entities.RoleLabel]float64)
		}
		cfg.Prices[t][entities.RoleLabel(roleLabel)] = price
	}
	return rows.Err()
}

func (a *ConfigAdapter) loadTimeRules(ctx context.Context, cfg *entities.ReportConfig) error {
	query, args, err := a.db.Select("procedure_type", "min_minutes", "max_minutes").
		From("time_rules").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build time rule query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load time rules", err)
	}
	defer rows.Close()

	for rows.Next() {
		var procedureType string
		var rule entities.TimeRule
		if err := rows.Scan(&procedureType, &rule.Min, &rule.Max); err != nil {
			return apperrors.NewInternalError("failed to scan time rule", err)
		}
		cfg.TimeRules[entities.ProcedureType(procedureType)] = rule
	}
	return rows.Err()
}

func (a *ConfigAdapter) loadIgnoredNames(ctx context.Context, cfg *entities.ReportConfig) error {
	query, args, err := a.db.Select("name").From("ignored_machine_names").
		Order(goqu.I("name").Asc()).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ignored name query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load ignored machine names", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return apperrors.NewInternalError("failed to scan ignored machine name", err)
		}
		cfg.IgnoredMachineNames = append(cfg.IgnoredMachineNames, name)
	}
	return rows.Err()
}

// Save replaces the stored configuration with the given one, atomically.
func (a *ConfigAdapter) Save(ctx context.Context, cfg *entities.ReportConfig) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"procedure_prices", "time_rules", "ignored_machine_names"} {
		query, args, err := a.db.Delete(table).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build delete query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to clear "+table, err)
		}
	}

	if err := a.insertPrices(ctx, tx, cfg); err != nil {
		return err
	}
	if err := a.insertTimeRules(ctx, tx, cfg); err != nil {
		return err
	}
	if err := a.insertIgnoredNames(ctx, tx, cfg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit configuration", err)
	}
	return nil
}

func (a *ConfigAdapter) insertPrices(ctx context.Context, tx *sql.Tx, cfg *entities.ReportConfig) error {
	var records []goqu.Record
	for _, t := range entities.AllProcedureTypes() {
		tiers, ok := cfg.Prices[t]
		if !ok {
			continue
		}
		for _, label := range entities.AllRoleLabels() {
			price, ok := tiers[label]
			if !ok {
				continue
			}
			records = append(records, goqu.Record{
				"procedure_type": string(t),
				"role_label":     string(label),
				"unit_price":     price,
			})
		}
	}
	if len(records) == 0 {
		return nil
	}

	query, args, err := a.db.Insert("procedure_prices").Rows(records).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build price insert", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save procedure prices", err)
	}
	return nil
}

func (a *ConfigAdapter) insertTimeRules(ctx context.Context, tx *sql.Tx, cfg *entities.ReportConfig) error {
	var records []goqu.Record
	for _, t := range entities.AllProcedureTypes() {
		rule, ok := cfg.TimeRules[t]
		if !ok {
			continue
		}
		records = append(records, goqu.Record{
			"procedure_type": string(t),
			"min_minutes":    rule.Min,
			"max_minutes":    rule.Max,
		})
	}
	if len(records) == 0 {
		return nil
	}

	query, args, err := a.db.Insert("time_rules").Rows(records).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build time rule insert", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save time rules", err)
	}
	return nil
}

func (a *ConfigAdapter) insertIgnoredNames(ctx context.Context, tx *sql.Tx, cfg *entities.ReportConfig) error {
	var records []goqu.Record
	for _, name := range cfg.IgnoredMachineNames {
		records = append(records, goqu.Record{"name": name})
	}
	if len(records) == 0 {
		return nil
	}

	query, args, err := a.db.Insert("ignored_machine_names").Rows(records).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ignored name insert", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save ignored machine names", err)
	}
	return nil
}
