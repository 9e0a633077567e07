package services

import (
	"regexp"
	"strings"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

var numericSequenceRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

// MachineMapService parses the per-department detail report into a machine
// lookup. The report is an indented outline with no explicit markers: patient
// headers, date headers, machine headers and procedure rows are told apart
// only by the shape of the first two columns, so classification order matters
// and must not be rearranged.
type MachineMapService struct{}

func NewMachineMapService() *MachineMapService {
	return &MachineMapService{}
}

// Build walks the detail grid from row 7 and returns the machine map. Rows are
// classified in order:
//
//  1. both columns empty: look ahead one row; two blank rows in a row end the
//     data, a single blank row is noise
//  2. column A contains "-" and is neither an ISO date nor a number: patient
//     header "ID - Name", resets date and machine
//  3. column A is an ISO date: date header, resets machine
//  4. column A set, column B empty: machine header
//  5. column B set with a current patient and date: procedure row, emits an
//     entry under the current machine (possibly "")
//
// Anything else is skipped. Procedure rows seen before the first patient or
// date header have no home and are dropped.
func (s *MachineMapService) Build(grid entities.Grid) *entities.MachineMap {
	m := entities.NewMachineMap()

	var patientID, patientName, date, machine string

	for i := 6; i < grid.Rows(); i++ {
		colA := grid.Cell(i, 0)
		colB := grid.Cell(i, 1)

		if colA == "" && colB == "" {
			if grid.Cell(i+1, 0) == "" && grid.Cell(i+1, 1) == "" {
				break
			}
			continue
		}

		if idx := indexPatientSeparator(colA); idx >= 0 {
			patientID = strings.TrimSpace(colA[:idx])
			patientName = strings.TrimSpace(colA[idx+1:])
			date = ""
			machine = ""
			continue
		}

		if isoDateRe.MatchString(colA) {
			date = colA
			machine = ""
			continue
		}

		if colA != "" && colB == "" {
			machine = colA
			continue
		}

		if colB != "" && patientID != "" && date != "" {
			m.Set(entities.MachineKey{
				PatientID:   patientID,
				PatientName: patientName,
				Date:        date,
				Procedure:   colB,
			}, machine)
		}
	}

	return m
}

// indexPatientSeparator returns the position of the first "-" when the cell
// is a patient header, -1 otherwise.
func indexPatientSeparator(colA string) int {
	if colA == "" || isoDateRe.MatchString(colA) || numericSequenceRe.MatchString(colA) {
		return -1
	}
	return strings.Index(colA, "-")
}
