package services

import (
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// PaymentService pivots the record list into the per-staff payment table.
type PaymentService struct{}

func NewPaymentService() *PaymentService {
	return &PaymentService{}
}

// Build attributes each classified record's quantity to every staffed role on
// it, under the composite (procedure type, compensation tier) column. The
// column set is reduced after aggregation: any column whose total is zero is
// dropped, so the table's width depends on the data. Rows are grouped by the
// role each person first appeared in, checked in payroll priority order, and
// within a group keep first-appearance order.
func (s *PaymentService) Build(records []entities.SurgeryRecord, cfg *entities.ReportConfig) entities.PaymentTable {
	type accum struct {
		name       string
		firstRole  entities.StaffRole
		quantities map[string]float64
	}

	byName := make(map[string]*accum)
	var appearance []string

	for _, rec := range records {
		if rec.ProcedureType == "" {
			continue
		}
		for _, role := range entities.AllStaffRoles() {
			name := rec.StaffInRole(role)
			if name == "" {
				continue
			}
			a, seen := byName[name]
			if !seen {
				a = &accum{name: name, firstRole: role, quantities: make(map[string]float64)}
				byName[name] = a
				appearance = append(appearance, name)
			}
			col := entities.PaymentColumn(rec.ProcedureType, role.PayLabel())
			a.quantities[col] += rec.Quantity
		}
	}

	columnTotals := make(map[string]float64)
	for _, a := range byName {
		for col, q := range a.quantities {
			columnTotals[col] += q
		}
	}

	var columns []string
	for _, col := range entities.AllPaymentColumns() {
		if columnTotals[col] != 0 {
			columns = append(columns, col)
		}
	}

	unitPrices := make(map[string]float64, len(columns))
	for _, t := range entities.AllProcedureTypes() {
		for _, label := range entities.AllRoleLabels() {
			unitPrices[entities.PaymentColumn(t, label)] = cfg.UnitPrice(t, label)
		}
	}

	table := entities.PaymentTable{
		Columns:      columns,
		UnitPrices:   unitPrices,
		ColumnTotals: make(map[string]float64, len(columns)),
	}
	for _, col := range columns {
		table.ColumnTotals[col] = columnTotals[col]
	}

	for _, role := range entities.AllStaffRoles() {
		for _, name := range appearance {
			a := byName[name]
			if a.firstRole != role {
				continue
			}
			row := entities.PaymentRow{
				Name:       a.name,
				FirstRole:  a.firstRole,
				Quantities: make(map[string]float64, len(a.quantities)),
			}
			for _, col := range columns {
				q := a.quantities[col]
				if q == 0 {
					continue
				}
				row.Quantities[col] = q
				row.TotalQuantity += q
				row.TotalAmount += q * unitPrices[col]
			}
			table.GrandTotal += row.TotalAmount
			table.Rows = append(table.Rows, row)
		}
	}

	return table
}
