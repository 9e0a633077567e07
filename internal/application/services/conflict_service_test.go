package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

func scheduled(name, procedure, primary string, start, end time.Time) entities.SurgeryRecord {
	return entities.SurgeryRecord{
		PatientName:    name,
		ProcedureName:  procedure,
		PrimarySurgeon: primary,
		Start:          &start,
		End:            &end,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.Local)
}

func TestDetectStaffConflicts(t *testing.T) {
	svc := NewConflictService()

	t.Run("overlapping cases for one surgeon", func(t *testing.T) {
		records := []entities.SurgeryRecord{
			scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 30)),
			scheduled("BN B", "Mổ B", "BS. Hùng", at(9, 0), at(10, 0)),
		}

		conflicts := svc.DetectStaffConflicts(records)
		require.Len(t, conflicts, 1)

		c := conflicts[0]
		assert.Equal(t, "BS. Hùng", c.StaffName)
		assert.Equal(t, entities.RolePrimarySurgeon, c.Role)
		assert.Equal(t, 30, c.OverlapMinutes)
		assert.Equal(t, "Mổ A", c.First.ProcedureName)
		assert.Equal(t, "Mổ B", c.Second.ProcedureName)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("same person in different roles is not a conflict", func(t *testing.T) {
		first := scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 30))
		second := scheduled("BN B", "Mổ B", "", at(8, 30), at(9, 15))
		second.AssistantSurgeon = "BS. Hùng"

		assert.Empty(t, svc.DetectStaffConflicts([]entities.SurgeryRecord{first, second}))
	})

	t.Run("touching endpoints count as overlap", func(t *testing.T) {
		records := []entities.SurgeryRecord{
			scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 0)),
			scheduled("BN B", "Mổ B", "BS. Hùng", at(9, 0), at(10, 0)),
		}

		conflicts := svc.DetectStaffConflicts(records)
		require.Len(t, conflicts, 1)
		assert.Equal(t, 0, conflicts[0].OverlapMinutes)
	})

	t.Run("disjoint intervals are clean", func(t *testing.T) {
		records := []entities.SurgeryRecord{
			scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 0)),
			scheduled("BN B", "Mổ B", "BS. Hùng", at(9, 1), at(10, 0)),
		}
		assert.Empty(t, svc.DetectStaffConflicts(records))
	})

	t.Run("records without interval are excluded", func(t *testing.T) {
		withoutEnd := scheduled("BN B", "Mổ B", "BS. Hùng", at(8, 0), at(9, 0))
		withoutEnd.End = nil
		records := []entities.SurgeryRecord{
			scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 30)),
			withoutEnd,
		}
		assert.Empty(t, svc.DetectStaffConflicts(records))
	})

	t.Run("fully overlapping group emits every pair", func(t *testing.T) {
		records := []entities.SurgeryRecord{
			scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(10, 0)),
			scheduled("BN B", "Mổ B", "BS. Hùng", at(8, 30), at(10, 30)),
			scheduled("BN C", "Mổ C", "BS. Hùng", at(9, 0), at(11, 0)),
		}
		assert.Len(t, svc.DetectStaffConflicts(records), 3)
	})

	t.Run("anesthesia roles group independently", func(t *testing.T) {
		first := entities.SurgeryRecord{ProcedureName: "Mổ A", Anesthesiologist: "BS. Lan"}
		second := entities.SurgeryRecord{ProcedureName: "Mổ B", Anesthesiologist: "BS. Lan"}
		s1, e1, s2, e2 := at(8, 0), at(9, 0), at(8, 30), at(9, 30)
		first.Start, first.End = &s1, &e1
		second.Start, second.End = &s2, &e2

		conflicts := svc.DetectStaffConflicts([]entities.SurgeryRecord{first, second})
		require.Len(t, conflicts, 1)
		assert.Equal(t, entities.RoleAnesthesiologist, conflicts[0].Role)
	})
}

func TestDetectMachineConflicts(t *testing.T) {
	svc := NewConflictService()

	t.Run("same machine double-booked", func(t *testing.T) {
		first := scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 30))
		first.MachineCode = "MAY-01"
		second := scheduled("BN B", "Mổ B", "BS. Minh", at(9, 0), at(10, 0))
		second.MachineCode = "MAY-01"
		third := scheduled("BN C", "Mổ C", "BS. Tuấn", at(9, 0), at(10, 0))
		third.MachineCode = "MAY-02"

		conflicts := svc.DetectMachineConflicts([]entities.SurgeryRecord{first, second, third})
		require.Len(t, conflicts, 1)
		assert.Equal(t, "MAY-01", conflicts[0].MachineCode)
		assert.Equal(t, 30, conflicts[0].OverlapMinutes)
	})

	t.Run("records without machine are skipped", func(t *testing.T) {
		first := scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 30))
		second := scheduled("BN B", "Mổ B", "BS. Minh", at(9, 0), at(10, 0))
		assert.Empty(t, svc.DetectMachineConflicts([]entities.SurgeryRecord{first, second}))
	})
}

func TestFlattenConflicts(t *testing.T) {
	svc := NewConflictService()

	first := scheduled("BN A", "Mổ A", "BS. Hùng", at(8, 0), at(9, 30))
	first.MachineCode = "MAY-01"
	second := scheduled("BN B", "Mổ B", "BS. Hùng", at(9, 0), at(10, 0))
	second.MachineCode = "MAY-01"
	records := []entities.SurgeryRecord{first, second}

	staff := svc.DetectStaffConflicts(records)
	machine := svc.DetectMachineConflicts(records)
	flat := svc.Flatten(staff, machine)

	require.Len(t, flat, 2)
	assert.Equal(t, entities.ConflictTypeStaff, flat[0].Type)
	assert.Equal(t, "BS. Hùng", flat[0].ResourceName)
	assert.Equal(t, entities.ConflictTypeMachine, flat[1].Type)
	assert.Equal(t, "MAY-01", flat[1].ResourceName)
	assert.Equal(t, "Mổ A", flat[1].SurgeryA)
	assert.Equal(t, "Mổ B", flat[1].SurgeryB)
	assert.Equal(t, at(9, 0), flat[1].StartB)
	assert.Equal(t, 30, flat[1].OverlapMinutes)
}
