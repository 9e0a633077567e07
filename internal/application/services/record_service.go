package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

var vnDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// RecordService normalizes the surgery list grid into canonical records,
// resolving each row's machine through the map built from the detail report.
type RecordService struct{}

func NewRecordService() *RecordService {
	return &RecordService{}
}

// Normalize walks the list grid from row 9 until the first row with an empty
// sequence cell. Field-level anomalies degrade instead of failing: an
// unparseable timestamp leaves a nil interval, an unmatched severity marker
// leaves an empty type, an unresolved machine key leaves an empty machine
// code. Such rows stay in the output and surface later in the review sheets.
func (s *RecordService) Normalize(grid entities.Grid, machines *entities.MachineMap) []entities.SurgeryRecord {
	var records []entities.SurgeryRecord

	for i := 8; i < grid.Rows(); i++ {
		sequence := grid.Cell(i, 0)
		if sequence == "" {
			break
		}

		name := grid.Cell(i, 1)
		yearMale := grid.Cell(i, 2)
		yearFemale := grid.Cell(i, 3)
		endRaw := grid.Cell(i, 7)

		gender, yearOfBirth := "", ""
		if yearMale != "" {
			gender, yearOfBirth = "Nam", yearMale
		} else if yearFemale != "" {
			gender, yearOfBirth = "Nữ", yearFemale
		}

		start := parseVNDateTime(grid.Cell(i, 6))
		end := parseVNDateTime(endRaw)

		duration := 0
		if start != nil && end != nil && end.After(*start) {
			duration = int(math.Round(end.Sub(*start).Minutes()))
		}

		ratio := parseFloat(grid.Cell(i, 18))
		count := parseFloat(grid.Cell(i, 19))
		quantity := math.Round((ratio/100)*count*100) / 100

		rec := entities.SurgeryRecord{
			Sequence:          sequence,
			PatientID:         grid.Cell(i, 20),
			PatientName:       name,
			Gender:            gender,
			YearOfBirth:       yearOfBirth,
			InsuranceCard:     grid.Cell(i, 4),
			DiagnosisDate:     grid.Cell(i, 5),
			StartRaw:          grid.Cell(i, 6),
			EndRaw:            endRaw,
			ProcedureName:     grid.Cell(i, 8),
			ProcedureType:     classifyProcedure(grid, i),
			Quantity:          quantity,
			Start:             start,
			End:               end,
			DurationMinutes:   duration,
			PrimarySurgeon:    grid.Cell(i, 21),
			AssistantSurgeon:  grid.Cell(i, 22),
			Anesthesiologist:  grid.Cell(i, 23),
			AnesthesiaTech:    grid.Cell(i, 24),
			EquipmentOperator: grid.Cell(i, 25),
			Auxiliary:         grid.Cell(i, 26),
		}

		rec.MachineCode = machines.Resolve(entities.MachineKey{
			PatientID:   rec.PatientID,
			PatientName: rec.PatientName,
			Date:        machineDateKey(endRaw, end),
			Procedure:   rec.ProcedureName,
		})

		records = append(records, rec)
	}

	return records
}

// classifyProcedure reads the severity marker columns in fixed priority:
// surgery tiers first (columns 10-13), then procedure tiers (columns 14-18).
// First non-empty marker wins; no marker means an unlabeled row.
func classifyProcedure(grid entities.Grid, row int) entities.ProcedureType {
	surgeryTiers := []entities.ProcedureType{
		entities.SurgerySpecial, entities.SurgeryGrade1, entities.SurgeryGrade2, entities.SurgeryGrade3,
	}
	for offset, t := range surgeryTiers {
		if grid.Cell(row, 9+offset) != "" {
			return t
		}
	}

	procedureTiers := []entities.ProcedureType{
		entities.ProcedureSpecial, entities.ProcedureGrade1, entities.ProcedureGrade2,
		entities.ProcedureGrade3, entities.ProcedureUnclassified,
	}
	for offset, t := range procedureTiers {
		if grid.Cell(row, 13+offset) != "" {
			return t
		}
	}

	return ""
}

// parseVNDateTime parses "dd/mm/yyyy" or "dd/mm/yyyy hh:mm" in local time.
// A missing time component means midnight. Returns nil on any malformed part.
func parseVNDateTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	parts := strings.SplitN(raw, " ", 2)
	dateFields := strings.Split(parts[0], "/")
	if len(dateFields) != 3 {
		return nil
	}

	day, errD := strconv.Atoi(dateFields[0])
	month, errM := strconv.Atoi(dateFields[1])
	year, errY := strconv.Atoi(dateFields[2])
	if errD != nil || errM != nil || errY != nil || day == 0 || month == 0 || year == 0 {
		return nil
	}

	hour, minute := 0, 0
	if len(parts) == 2 && parts[1] != "" {
		timeFields := strings.SplitN(parts[1], ":", 2)
		hour, _ = strconv.Atoi(timeFields[0])
		if len(timeFields) == 2 {
			minute, _ = strconv.Atoi(timeFields[1])
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	return &t
}

// machineDateKey derives the yyyy-mm-dd join date from the raw end timestamp,
// falling back to the parsed end date when the raw cell is malformed. The raw
// cell is preferred so the key matches the detail report byte for byte even
// across timezone quirks.
func machineDateKey(endRaw string, end *time.Time) string {
	datePart := strings.SplitN(endRaw, " ", 2)[0]
	if vnDateRe.MatchString(datePart) {
		f := strings.Split(datePart, "/")
		return fmt.Sprintf("%s-%s-%s", f[2], f[1], f[0])
	}
	if end != nil {
		return end.Format("2006-01-02")
	}
	return ""
}

func parseFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}
