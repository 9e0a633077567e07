package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// listRow builds one 27-column surgery list row with sensible defaults that
// individual tests override.
type listRow struct {
	seq, name, yearMale, yearFemale, insurance     string
	diagnosed, start, end, procedure               string
	pDB, p1, p2, p3, tDB, t1, t2, t3, tKPL         string
	ratio, count, patientID                        string
	primary, assistant, anesth, anesthTech, eq, gv string
}

func (r listRow) cells() []string {
	return []string{
		r.seq, r.name, r.yearMale, r.yearFemale, r.insurance,
		r.diagnosed, r.start, r.end, r.procedure,
		r.pDB, r.p1, r.p2, r.p3,
		r.tDB, r.t1, r.t2, r.t3, r.tKPL,
		r.ratio, r.count, r.patientID,
		r.primary, r.assistant, r.anesth, r.anesthTech, r.eq, r.gv,
	}
}

func listGridWithRows(rows ...listRow) entities.Grid {
	grid := entities.Grid{
		{},
		{},
		{"DANH SÁCH PHẪU THUẬT, THỦ THUẬT"},
		{},
		{"Từ ngày 01/01/2024 đến ngày 31/01/2024"},
		{},
		{},
		{},
	}
	for _, r := range rows {
		grid = append(grid, r.cells())
	}
	return grid
}

func baseRow(seq string) listRow {
	return listRow{
		seq:       seq,
		name:      "NGUYỄN VĂN A",
		yearMale:  "1980",
		insurance: "HS4010123456789",
		diagnosed: "14/01/2024",
		start:     "15/01/2024 08:00",
		end:       "15/01/2024 09:30",
		procedure: "Cắt ruột thừa nội soi",
		p1:        "x",
		ratio:     "100",
		count:     "1",
		patientID: "0123456789",
		primary:   "BS. Hùng",
		anesth:    "BS. Lan",
	}
}

func TestRecordServiceNormalize(t *testing.T) {
	svc := NewRecordService()
	empty := entities.NewMachineMap()

	t.Run("normalizes a full row", func(t *testing.T) {
		records := svc.Normalize(listGridWithRows(baseRow("1")), empty)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "1", rec.Sequence)
		assert.Equal(t, "0123456789", rec.PatientID)
		assert.Equal(t, "Nam", rec.Gender)
		assert.Equal(t, "1980", rec.YearOfBirth)
		assert.Equal(t, entities.SurgeryGrade1, rec.ProcedureType)
		assert.Equal(t, 1.0, rec.Quantity)
		assert.Equal(t, 90, rec.DurationMinutes)

		require.NotNil(t, rec.Start)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local), *rec.Start)
	})

	t.Run("stops at first empty sequence", func(t *testing.T) {
		grid := listGridWithRows(baseRow("1"), listRow{}, baseRow("3"))
		records := svc.Normalize(grid, empty)
		assert.Len(t, records, 1)
	})

	t.Run("female year column sets gender", func(t *testing.T) {
		row := baseRow("1")
		row.yearMale = ""
		row.yearFemale = "1975"
		records := svc.Normalize(listGridWithRows(row), empty)
		require.Len(t, records, 1)
		assert.Equal(t, "Nữ", records[0].Gender)
		assert.Equal(t, "1975", records[0].YearOfBirth)
	})

	t.Run("classification prefers surgery tiers in order", func(t *testing.T) {
		row := baseRow("1")
		row.p1, row.pDB, row.t2 = "", "x", "x"
		records := svc.Normalize(listGridWithRows(row), empty)
		assert.Equal(t, entities.SurgerySpecial, records[0].ProcedureType)

		row.pDB = ""
		records = svc.Normalize(listGridWithRows(row), empty)
		assert.Equal(t, entities.ProcedureGrade2, records[0].ProcedureType)
	})

	t.Run("no marker leaves type empty", func(t *testing.T) {
		row := baseRow("1")
		row.p1 = ""
		records := svc.Normalize(listGridWithRows(row), empty)
		assert.Equal(t, entities.ProcedureType(""), records[0].ProcedureType)
	})

	t.Run("unparseable timestamps leave nil interval and zero duration", func(t *testing.T) {
		row := baseRow("1")
		row.start = "khoảng 8 giờ sáng"
		records := svc.Normalize(listGridWithRows(row), empty)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].Start)
		assert.NotNil(t, records[0].End)
		assert.Equal(t, 0, records[0].DurationMinutes)
	})

	t.Run("end before start gives zero duration", func(t *testing.T) {
		row := baseRow("1")
		row.start = "15/01/2024 10:00"
		row.end = "15/01/2024 09:00"
		records := svc.Normalize(listGridWithRows(row), empty)
		assert.Equal(t, 0, records[0].DurationMinutes)
	})

	t.Run("date without time means midnight", func(t *testing.T) {
		row := baseRow("1")
		row.start = "15/01/2024"
		row.end = "15/01/2024 01:30"
		records := svc.Normalize(listGridWithRows(row), empty)
		assert.Equal(t, 90, records[0].DurationMinutes)
	})

	t.Run("quantity is ratio times count rounded to two decimals", func(t *testing.T) {
		row := baseRow("1")
		row.ratio = "33.33"
		row.count = "2"
		records := svc.Normalize(listGridWithRows(row), empty)
		assert.Equal(t, 0.67, records[0].Quantity)
	})

	t.Run("machine resolves through end-date key", func(t *testing.T) {
		machines := entities.NewMachineMap()
		machines.Set(entities.MachineKey{
			PatientID:   "0123456789",
			PatientName: "NGUYỄN VĂN A",
			Date:        "2024-01-15",
			Procedure:   "Cắt ruột thừa nội soi",
		}, "MAY-01")

		records := svc.Normalize(listGridWithRows(baseRow("1")), machines)
		assert.Equal(t, "MAY-01", records[0].MachineCode)
	})

	t.Run("unresolved machine leaves empty code", func(t *testing.T) {
		records := svc.Normalize(listGridWithRows(baseRow("1")), empty)
		assert.Equal(t, "", records[0].MachineCode)
	})
}

func TestParseVNDateTime(t *testing.T) {
	cases := []struct {
		raw  string
		want *time.Time
	}{
		{"", nil},
		{"15/01/2024 08:30", timePtr(time.Date(2024, 1, 15, 8, 30, 0, 0, time.Local))},
		{"15/01/2024", timePtr(time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local))},
		{"2024-01-15", nil},
		{"15/01", nil},
		{"00/00/0000", nil},
	}
	for _, tc := range cases {
		got := parseVNDateTime(tc.raw)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.raw)
		} else {
			require.NotNil(t, got, "input %q", tc.raw)
			assert.True(t, tc.want.Equal(*got), "input %q", tc.raw)
		}
	}
}

func TestMachineDateKey(t *testing.T) {
	end := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

	assert.Equal(t, "2024-01-15", machineDateKey("15/01/2024 09:30", &end))
	assert.Equal(t, "2024-01-15", machineDateKey("15/01/2024", &end))
	// Malformed raw cell falls back to the parsed end date.
	assert.Equal(t, "2024-01-15", machineDateKey("giữa tháng", &end))
	assert.Equal(t, "", machineDateKey("giữa tháng", nil))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
