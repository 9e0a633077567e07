package services

import (
	"regexp"
	"strings"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

var (
	patientHeaderRe = regexp.MustCompile(`^\d{10}\s*-\s*.+$`)
	isoDateRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ReportValidator checks that uploaded grids carry the two expected report
// layouts before the parsers run. The checks are positional fingerprints of
// the hospital system's exports, not header parsing; the error messages name
// the offending file and what was expected, and are shown to the user as-is.
type ReportValidator struct{}

func NewReportValidator() *ReportValidator {
	return &ReportValidator{}
}

// ValidateListGrid verifies the surgery list export: the title in row 3 and a
// plausible first data row at row 9 (sequence "1" with a patient name).
func (v *ReportValidator) ValidateListGrid(grid entities.Grid) error {
	title := strings.ToUpper(grid.Cell(2, 0))
	if !strings.Contains(title, "DANH SÁCH PHẪU THUẬT") {
		return apperrors.NewValidationError(
			"File DANH SÁCH PHẪU THUẬT chưa đúng mẫu. Hãy xuất từ đúng báo cáo trên Minh Lộ.")
	}

	if grid.Cell(8, 0) != "1" || grid.Cell(8, 1) == "" {
		return apperrors.NewValidationError(
			"File DANH SÁCH PHẪU THUẬT chưa đúng mẫu: dòng dữ liệu đầu tiên không hợp lệ. "+
				"Hãy xuất từ đúng báo cáo trên Minh Lộ (lưu ý bỏ chọn nhóm theo khoa)")
	}

	return nil
}

// ValidateDetailGrid verifies the per-department detail export: the title in
// row 2 and the patient/date/sequence shape of the first data block. The
// grouping order of the export is part of the contract; a file grouped any
// other way parses into garbage, so it is rejected here.
func (v *ReportValidator) ValidateDetailGrid(grid entities.Grid) error {
	title := strings.ToUpper(grid.Cell(1, 0))
	if !strings.Contains(title, "CHI TIẾT PHẪU THUẬT THEO KHOA") {
		return apperrors.NewValidationError(
			"File CHI TIẾT PHẪU THUẬT THEO KHOA chưa đúng mẫu. Hãy xuất từ đúng báo cáo trên Minh Lộ.")
	}

	isPatient := patientHeaderRe.MatchString(grid.Cell(6, 0))
	isDate := isoDateRe.MatchString(grid.Cell(7, 0))
	isOne := grid.Cell(9, 0) == "1"

	if !isPatient || !isDate || !isOne {
		return apperrors.NewValidationError(
			"File CHI TIẾT PHẪU THUẬT THEO KHOA chưa đúng cấu trúc chuẩn: "+
				"hiển thị nhóm theo: Họ tên → Ngày làm → Máy làm.")
	}

	return nil
}

// ExtractPeriod returns the reporting period line printed under the list
// title, row 5 of the export.
func (v *ReportValidator) ExtractPeriod(listGrid entities.Grid) string {
	return listGrid.Cell(4, 0)
}
