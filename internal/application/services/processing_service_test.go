package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

type stubRunHistory struct {
	recorded []entities.RunSummary
	err      error
}

func (s *stubRunHistory) Record(ctx context.Context, summary entities.RunSummary) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, summary)
	return nil
}

func (s *stubRunHistory) List(ctx context.Context, limit int) ([]entities.RunSummary, error) {
	return s.recorded, s.err
}

func newProcessingService(history *stubRunHistory) *ProcessingService {
	return NewProcessingService(
		NewReportValidator(),
		NewMachineMapService(),
		NewRecordService(),
		NewConflictService(),
		NewPaymentService(),
		history,
		nil,
	)
}

// pipelineListGrid pairs with pipelineDetailGrid: the first record resolves a
// machine through the detail report, the second does not.
func pipelineListGrid() entities.Grid {
	first := baseRow("1")
	second := baseRow("2")
	second.name = "TRẦN THỊ B"
	second.yearMale = ""
	second.yearFemale = "1990"
	second.patientID = "9876543210"
	second.procedure = "Mổ lấy thai"
	second.start = "15/01/2024 09:00"
	second.end = "15/01/2024 10:00"
	second.primary = "BS. Hùng"
	second.anesth = "BS. Mai"
	return listGridWithRows(first, second)
}

func pipelineDetailGrid() entities.Grid {
	return detailGridWithBody(
		[]string{"0123456789 - NGUYỄN VĂN A"},
		[]string{"2024-01-15"},
		[]string{"MAY-01"},
		[]string{"1", "Cắt ruột thừa nội soi"},
	)
}

func TestProcessingServiceProcess(t *testing.T) {
	cfg := entities.DefaultReportConfig()

	t.Run("full pipeline", func(t *testing.T) {
		history := &stubRunHistory{}
		svc := newProcessingService(history)

		result, err := svc.Process(context.Background(), pipelineListGrid(), pipelineDetailGrid(), cfg)
		require.NoError(t, err)

		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, "Từ ngày 01/01/2024 đến ngày 31/01/2024", result.Period)
		require.Len(t, result.Records, 2)
		assert.Equal(t, "MAY-01", result.Records[0].MachineCode)
		assert.Equal(t, "", result.Records[1].MachineCode)

		// BS. Hùng operates 08:00-09:30 and 09:00-10:00.
		require.Len(t, result.StaffConflicts, 1)
		assert.Equal(t, "BS. Hùng", result.StaffConflicts[0].StaffName)
		assert.Empty(t, result.MachineConflicts)
		require.Len(t, result.Conflicts, 1)

		require.Len(t, result.MissingMachine, 1)
		assert.Equal(t, "Mổ lấy thai", result.MissingMachine[0].ProcedureName)

		// Both P1 records run shorter than the configured 120 minute floor.
		assert.Len(t, result.DurationWarnings, 2)

		assert.Equal(t, 2, result.Stats.TotalRecords)
		assert.Equal(t, 150, result.Stats.TotalDurationMinutes)
		assert.Equal(t, 1, result.Stats.StaffConflictCount)
		assert.Equal(t, 1, result.Stats.MissingMachineCount)
		assert.Equal(t, 0, result.Stats.LowQuantityCount)
		assert.Equal(t, result.Payment.GrandTotal, result.Stats.TotalPaymentAmount)

		require.Len(t, history.recorded, 1)
		assert.Equal(t, result.RunID, history.recorded[0].RunID)
		assert.Equal(t, 2, history.recorded[0].RecordCount)
	})

	t.Run("exempt procedures stay off the missing machine list", func(t *testing.T) {
		exempt := entities.DefaultReportConfig()
		exempt.IgnoredMachineNames = []string{"[gây tê]"}

		row := baseRow("1")
		row.procedure = "Khâu vết thương [gây tê]"
		svc := newProcessingService(&stubRunHistory{})

		result, err := svc.Process(context.Background(), listGridWithRows(row), pipelineDetailGrid(), exempt)
		require.NoError(t, err)
		assert.Empty(t, result.MissingMachine)
	})

	t.Run("invalid list blocks processing", func(t *testing.T) {
		svc := newProcessingService(&stubRunHistory{})
		grid := pipelineListGrid()
		grid[2] = []string{"BÁO CÁO KHÁC"}

		_, err := svc.Process(context.Background(), grid, pipelineDetailGrid(), cfg)
		assert.Error(t, err)
	})

	t.Run("period mismatch blocks processing", func(t *testing.T) {
		svc := newProcessingService(&stubRunHistory{})
		detail := pipelineDetailGrid()
		detail[2] = []string{"Từ ngày 01/02/2024 đến ngày 29/02/2024"}

		_, err := svc.Process(context.Background(), pipelineListGrid(), detail, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kỳ báo cáo")
	})

	t.Run("run history failure does not fail the run", func(t *testing.T) {
		svc := newProcessingService(&stubRunHistory{err: errors.New("db down")})
		result, err := svc.Process(context.Background(), pipelineListGrid(), pipelineDetailGrid(), cfg)
		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestProcessingServiceListRuns(t *testing.T) {
	history := &stubRunHistory{recorded: []entities.RunSummary{{RunID: "r1"}}}
	svc := newProcessingService(history)

	runs, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	svc = NewProcessingService(
		NewReportValidator(), NewMachineMapService(), NewRecordService(),
		NewConflictService(), NewPaymentService(), nil, nil,
	)
	runs, err = svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, runs)
}
