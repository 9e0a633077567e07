package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/repositories"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/observability"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

// ProcessingService runs the full reconciliation pipeline over one pair of
// uploaded reports: validate, parse, join, detect conflicts, aggregate
// payment, assemble. Each run is self-contained; nothing is carried between
// runs except the audit record.
type ProcessingService struct {
	validator   *ReportValidator
	machineMaps *MachineMapService
	records     *RecordService
	conflicts   *ConflictService
	payments    *PaymentService
	runHistory  repositories.RunHistoryRepository
	metrics     *observability.Metrics
}

func NewProcessingService(
	validator *ReportValidator,
	machineMaps *MachineMapService,
	records *RecordService,
	conflicts *ConflictService,
	payments *PaymentService,
	runHistory repositories.RunHistoryRepository,
	metrics *observability.Metrics,
) *ProcessingService {
	return &ProcessingService{
		validator:   validator,
		machineMaps: machineMaps,
		records:     records,
		conflicts:   conflicts,
		payments:    payments,
		runHistory:  runHistory,
		metrics:     metrics,
	}
}

// Process executes one run. Validation failures abort before any parsing;
// everything after validation degrades per field rather than failing the run.
func (s *ProcessingService) Process(ctx context.Context, listGrid, detailGrid entities.Grid, cfg *entities.ReportConfig) (*entities.ProcessingResult, error) {
	ctx, span := observability.StartSpan(ctx, "processing.run")
	defer span.End()

	started := time.Now()
	logger := observability.LoggerFromContext(ctx)

	if err := s.validator.ValidateListGrid(listGrid); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if err := s.validator.ValidateDetailGrid(detailGrid); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	period := s.validator.ExtractPeriod(listGrid)
	detailPeriod := detailGrid.Cell(2, 0)
	if !samePeriod(period, detailPeriod) {
		err := apperrors.NewValidationError(
			"Hai file không cùng kỳ báo cáo: \"" + period + "\" và \"" + detailPeriod + "\". Hãy xuất cả hai báo cáo cho cùng một khoảng thời gian.")
		observability.RecordError(span, err)
		return nil, err
	}

	_, parseSpan := observability.StartSpan(ctx, "processing.parse")
	machineMap := s.machineMaps.Build(detailGrid)
	records := s.records.Normalize(listGrid, machineMap)
	parseSpan.End()

	_, conflictSpan := observability.StartSpan(ctx, "processing.conflicts")
	staffConflicts := s.conflicts.DetectStaffConflicts(records)
	machineConflicts := s.conflicts.DetectMachineConflicts(records)
	conflictSpan.End()

	payment := s.payments.Build(records, cfg)

	result := &entities.ProcessingResult{
		RunID:            uuid.NewString(),
		Period:           period,
		Records:          records,
		StaffConflicts:   staffConflicts,
		MachineConflicts: machineConflicts,
		Conflicts:        s.conflicts.Flatten(staffConflicts, machineConflicts),
		MissingMachine:   missingMachine(records, cfg),
		DurationWarnings: durationWarnings(records, cfg),
		Payment:          payment,
		Machines:         machineMap.Assignments(),
		GeneratedAt:      time.Now(),
	}
	result.Stats = buildStats(result)

	observability.SetSpanAttributes(span,
		attribute.String("run.id", result.RunID),
		attribute.Int("run.records", result.Stats.TotalRecords),
		attribute.Int("run.conflicts", len(result.Conflicts)),
	)
	if s.metrics != nil {
		observability.RecordRunMetric(ctx, s.metrics, len(staffConflicts), len(machineConflicts), time.Since(started))
	}

	if s.runHistory != nil {
		summary := entities.RunSummary{
			RunID:          result.RunID,
			Period:         result.Period,
			RecordCount:    result.Stats.TotalRecords,
			ConflictCount:  len(result.Conflicts),
			MissingMachine: result.Stats.MissingMachineCount,
			TotalPayment:   result.Payment.GrandTotal,
			GeneratedAt:    result.GeneratedAt,
		}
		if err := s.runHistory.Record(ctx, summary); err != nil {
			// The run result is already complete; losing the audit row is not
			// worth failing the request over.
			logger.Warn().Err(err).Str("run_id", result.RunID).Msg("failed to record run history")
		}
	}

	logger.Info().
		Str("run_id", result.RunID).
		Int("records", result.Stats.TotalRecords).
		Int("staff_conflicts", len(staffConflicts)).
		Int("machine_conflicts", len(machineConflicts)).
		Int("missing_machine", result.Stats.MissingMachineCount).
		Msg("processing run complete")

	return result, nil
}

// ListRuns returns recent run summaries for the audit view.
func (s *ProcessingService) ListRuns(ctx context.Context, limit int) ([]entities.RunSummary, error) {
	if s.runHistory == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.runHistory.List(ctx, limit)
}

func samePeriod(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// missingMachine keeps records with no machine whose procedure is not on the
// configured exempt list.
func missingMachine(records []entities.SurgeryRecord, cfg *entities.ReportConfig) []entities.SurgeryRecord {
	var out []entities.SurgeryRecord
	for _, rec := range records {
		if rec.MachineCode == "" && !cfg.IsMachineExempt(rec.ProcedureName) {
			out = append(out, rec)
		}
	}
	return out
}

// durationWarnings flags records whose measured duration falls outside the
// configured band for their procedure type. Unclassified records and types
// with no configured band are skipped.
func durationWarnings(records []entities.SurgeryRecord, cfg *entities.ReportConfig) []entities.DurationWarning {
	var out []entities.DurationWarning
	for _, rec := range records {
		if rec.ProcedureType == "" || !rec.HasInterval() {
			continue
		}
		rule, ok := cfg.TimeRules[rec.ProcedureType]
		if !ok || rule.Max <= 0 {
			continue
		}
		if rec.DurationMinutes < rule.Min || rec.DurationMinutes > rule.Max {
			out = append(out, entities.DurationWarning{
				Record:     rec,
				MinMinutes: rule.Min,
				MaxMinutes: rule.Max,
			})
		}
	}
	return out
}

func buildStats(result *entities.ProcessingResult) entities.Stats {
	stats := entities.Stats{
		TotalRecords:         len(result.Records),
		StaffConflictCount:   len(result.StaffConflicts),
		MachineConflictCount: len(result.MachineConflicts),
		MissingMachineCount:  len(result.MissingMachine),
		DurationWarningCount: len(result.DurationWarnings),
		TotalPaymentAmount:   result.Payment.GrandTotal,
	}
	for _, rec := range result.Records {
		stats.TotalDurationMinutes += rec.DurationMinutes
		if rec.Quantity < 1 {
			stats.LowQuantityCount++
		}
	}
	return stats
}
