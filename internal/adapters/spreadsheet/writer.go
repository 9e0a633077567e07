package spreadsheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

const (
	sheetResults          = "BANG_KET_QUA"
	sheetStaffConflicts   = "TRUNG_GIO_NHAN_VIEN"
	sheetMachineConflicts = "TRUNG_GIO_MAY"
	sheetMissingMachine   = "THIEU_MA_MAY"
	sheetPayment          = "BANG_THANH_TOAN"
	sheetMachineList      = "DS_MA_MAY"

	timestampLayout = "02/01/2006 15:04"
)

// roleGroupLabels maps staffing roles to the group captions used on the
// payment sheet, in payroll priority order.
var roleGroupLabels = map[entities.StaffRole]string{
	entities.RolePrimarySurgeon:    "PTV CHÍNH",
	entities.RoleAssistantSurgeon:  "PTV PHỤ",
	entities.RoleAnesthesiologist:  "BS GMHS",
	entities.RoleAnesthesiaTech:    "KTV GMHS",
	entities.RoleEquipmentOperator: "TĐC",
	entities.RoleAuxiliary:         "GIÚP VIỆC",
}

// Writer renders a processing result into the reviewed workbook: the full
// record table, both conflict sheets, the missing-machine sheet, the payment
// sheet with live formulas, and the machine assignment dump.
type Writer struct {
	authority string
	hospital  string
}

func NewWriter(authority, hospital string) *Writer {
	return &Writer{authority: authority, hospital: hospital}
}

// Write renders the workbook and returns the xlsx bytes.
func (w *Writer) Write(result *entities.ProcessingResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetResults); err != nil {
		return nil, apperrors.NewInternalError("failed to create workbook", err)
	}
	for _, name := range []string{
		sheetStaffConflicts, sheetMachineConflicts, sheetMissingMachine, sheetPayment, sheetMachineList,
	} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, apperrors.NewInternalError("failed to create sheet "+name, err)
		}
	}

	if err := w.writeResults(f, result); err != nil {
		return nil, err
	}
	w.writeStaffConflicts(f, result.StaffConflicts)
	w.writeMachineConflicts(f, result.MachineConflicts)
	w.writeMissingMachine(f, result.MissingMachine)
	if err := w.writePayment(f, result); err != nil {
		return nil, err
	}
	w.writeMachineList(f, result.Machines)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to serialize workbook", err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) writeResults(f *excelize.File, result *entities.ProcessingResult) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return apperrors.NewInternalError("failed to build style", err)
	}

	f.SetCellValue(sheetResults, "C1", w.authority)
	f.SetCellValue(sheetResults, "C2", w.hospital)
	f.SetCellValue(sheetResults, "J3", "DANH SÁCH PHẪU THUẬT")
	f.SetCellValue(sheetResults, "J5", result.Period)
	f.SetCellStyle(sheetResults, "C1", "C2", titleStyle)
	f.SetCellStyle(sheetResults, "J3", "J3", titleStyle)

	header := []string{
		"STT", "Mã BN", "Họ tên", "Giới", "Năm sinh", "Thẻ BHYT",
		"Ngày CĐ", "Ngày BĐ", "Ngày KT", "Tên kỹ thuật",
		"Loại PTTT", "Số lượng", "Thời gian (phút)",
		"PT Chính", "PT Phụ", "BS GM", "KTV GM", "TDC", "GV", "Mã máy",
	}
	const headerRow = 7
	setRow(f, sheetResults, headerRow, toAny(header))

	for i, rec := range result.Records {
		setRow(f, sheetResults, headerRow+1+i, []any{
			rec.Sequence, rec.PatientID, rec.PatientName, rec.Gender, rec.YearOfBirth,
			rec.InsuranceCard, rec.DiagnosisDate, rec.StartRaw, rec.EndRaw, rec.ProcedureName,
			string(rec.ProcedureType), rec.Quantity, rec.DurationMinutes,
			rec.PrimarySurgeon, rec.AssistantSurgeon, rec.Anesthesiologist,
			rec.AnesthesiaTech, rec.EquipmentOperator, rec.Auxiliary, rec.MachineCode,
		})
	}

	endRow := headerRow + len(result.Records)
	if err := w.styleResultTable(f, headerRow, endRow, len(header)); err != nil {
		return err
	}

	signRow := endRow + 2
	for col, label := range map[string]string{
		"C": "GIÁM ĐỐC", "G": "TCKT", "J": "KHTH", "P": "TRƯỞNG KHOA", "S": "NGƯỜI LẬP",
	} {
		cell := fmt.Sprintf("%s%d", col, signRow)
		f.SetCellValue(sheetResults, cell, label)
		f.SetCellStyle(sheetResults, cell, cell, titleStyle)
	}

	widths := []float64{7.3, 12, 25, 9, 9, 20, 17, 17, 17, 30, 10, 7, 10, 20, 20, 20, 20, 20, 15, 12}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetResults, col, col, width)
	}

	return nil
}

func (w *Writer) styleResultTable(f *excelize.File, headerRow, endRow, cols int) error {
	border := []excelize.Border{
		{Type: "top", Style: 1}, {Type: "bottom", Style: 1},
		{Type: "left", Style: 1}, {Type: "right", Style: 1},
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return apperrors.NewInternalError("failed to build style", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return apperrors.NewInternalError("failed to build style", err)
	}
	firstColStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return apperrors.NewInternalError("failed to build style", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(cols)
	f.SetCellStyle(sheetResults,
		fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headStyle)
	if endRow > headerRow {
		f.SetCellStyle(sheetResults,
			fmt.Sprintf("A%d", headerRow+1), fmt.Sprintf("A%d", endRow), firstColStyle)
		f.SetCellStyle(sheetResults,
			fmt.Sprintf("B%d", headerRow+1), fmt.Sprintf("%s%d", lastCol, endRow), bodyStyle)
	}
	return nil
}

func (w *Writer) writeStaffConflicts(f *excelize.File, conflicts []entities.StaffConflict) {
	setRow(f, sheetStaffConflicts, 1, toAny([]string{
		"Nhân viên", "Vai trò",
		"Mã BN 1", "Tên BN 1", "Tên KT 1", "BĐ 1", "KT 1",
		"Mã BN 2", "Tên BN 2", "Tên KT 2", "BĐ 2", "KT 2",
	}))
	for i, c := range conflicts {
		setRow(f, sheetStaffConflicts, 2+i, []any{
			c.StaffName, string(c.Role),
			c.First.PatientID, c.First.PatientName, c.First.ProcedureName,
			formatTime(c.First.Start), formatTime(c.First.End),
			c.Second.PatientID, c.Second.PatientName, c.Second.ProcedureName,
			formatTime(c.Second.Start), formatTime(c.Second.End),
		})
	}
}

func (w *Writer) writeMachineConflicts(f *excelize.File, conflicts []entities.MachineConflict) {
	setRow(f, sheetMachineConflicts, 1, toAny([]string{
		"Mã máy",
		"Mã BN 1", "Tên BN 1", "Tên KT 1", "BĐ 1", "KT 1",
		"Mã BN 2", "Tên BN 2", "Tên KT 2", "BĐ 2", "KT 2",
	}))
	for i, c := range conflicts {
		setRow(f, sheetMachineConflicts, 2+i, []any{
			c.MachineCode,
			c.First.PatientID, c.First.PatientName, c.First.ProcedureName,
			formatTime(c.First.Start), formatTime(c.First.End),
			c.Second.PatientID, c.Second.PatientName, c.Second.ProcedureName,
			formatTime(c.Second.Start), formatTime(c.Second.End),
		})
	}
}

func (w *Writer) writeMissingMachine(f *excelize.File, records []entities.SurgeryRecord) {
	setRow(f, sheetMissingMachine, 1, toAny([]string{"STT", "Mã BN", "Họ tên", "Ngày BĐ", "Tên kỹ thuật"}))
	for i, rec := range records {
		setRow(f, sheetMissingMachine, 2+i, []any{
			rec.Sequence, rec.PatientID, rec.PatientName, rec.StartRaw, rec.ProcedureName,
		})
	}
}

// writePayment lays out the payment sheet: header on row 7, unit prices on
// row 10, data from row 11 grouped by role with a caption line per group, a
// SUMPRODUCT amount formula per data row and SUM totals at the bottom. The
// quantity columns are the reduced set from the result, so the sheet width
// follows the data.
func (w *Writer) writePayment(f *excelize.File, result *entities.ProcessingResult) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return apperrors.NewInternalError("failed to build style", err)
	}

	payment := result.Payment
	header := append([]string{"STT", "HỌ TÊN"}, payment.Columns...)
	header = append(header, "THÀNH TIỀN")

	const headerRow = 7
	priceRow := headerRow + 3
	setRow(f, sheetPayment, headerRow, toAny(header))

	firstQtyCol := 3
	lastQtyCol := firstQtyCol + len(payment.Columns) - 1
	amountCol := lastQtyCol + 1

	for i, col := range payment.Columns {
		cell, _ := excelize.CoordinatesToCellName(firstQtyCol+i, priceRow)
		f.SetCellValue(sheetPayment, cell, payment.UnitPrices[col])
	}

	startName, _ := excelize.ColumnNumberToName(firstQtyCol)
	endName, _ := excelize.ColumnNumberToName(lastQtyCol)

	row := priceRow + 1
	firstDataRow := row
	var lastRole entities.StaffRole
	sequence := 0

	for _, pr := range payment.Rows {
		if pr.FirstRole != lastRole || sequence == 0 {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			f.SetCellValue(sheetPayment, cell, roleGroupLabels[pr.FirstRole])
			f.SetCellStyle(sheetPayment, cell, cell, titleStyle)
			lastRole = pr.FirstRole
			sequence = 0
			row++
		}
		sequence++

		values := []any{sequence, pr.Name}
		for _, col := range payment.Columns {
			values = append(values, pr.Quantities[col])
		}
		setRow(f, sheetPayment, row, values)

		if len(payment.Columns) > 0 {
			amountCell, _ := excelize.CoordinatesToCellName(amountCol, row)
			f.SetCellFormula(sheetPayment, amountCell, fmt.Sprintf(
				"SUMPRODUCT(%s%d:%s%d,%s%d:%s%d)",
				startName, row, endName, row, startName, priceRow, endName, priceRow,
			))
		}
		row++
	}

	totalRow := row
	f.SetCellValue(sheetPayment, fmt.Sprintf("A%d", totalRow), "TỔNG")
	for col := firstQtyCol; col <= amountCol; col++ {
		name, _ := excelize.ColumnNumberToName(col)
		cell := fmt.Sprintf("%s%d", name, totalRow)
		f.SetCellFormula(sheetPayment, cell, fmt.Sprintf(
			"SUM(%s%d:%s%d)", name, firstDataRow, name, totalRow-1,
		))
	}

	f.SetCellValue(sheetPayment, "C1", w.authority)
	f.SetCellValue(sheetPayment, "C2", w.hospital)
	f.SetCellStyle(sheetPayment, "C1", "C2", titleStyle)

	midName, _ := excelize.ColumnNumberToName(max(len(header)/2, 1))
	f.SetCellValue(sheetPayment, midName+"3", "BẢNG THANH TOÁN PHẪU THUẬT, THỦ THUẬT")
	f.SetCellStyle(sheetPayment, midName+"3", midName+"3", titleStyle)
	f.SetCellValue(sheetPayment, midName+"5", result.Period)

	return nil
}

func (w *Writer) writeMachineList(f *excelize.File, assignments []entities.MachineAssignment) {
	setRow(f, sheetMachineList, 1, toAny([]string{
		"Mã BN", "Tên bệnh nhân", "Ngày phẫu thuật", "Mã máy", "Tên phẫu thuật",
	}))
	for i, a := range assignments {
		setRow(f, sheetMachineList, 2+i, []any{
			a.Key.PatientID, a.Key.PatientName, a.Key.Date, a.MachineCode, a.Key.Procedure,
		})
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetSheetRow(sheet, cell, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}
