package entities

// PaymentColumn builds the composite column key for a payment cell, e.g.
// "P1-Chính". The full column space is the 9 procedure types × 3 role labels;
// the table retains only columns with a non-zero total.
func PaymentColumn(t ProcedureType, label RoleLabel) string {
	return string(t) + "-" + string(label)
}

// AllPaymentColumns returns the 27-column cartesian space in report order:
// procedure types outermost, role labels innermost.
func AllPaymentColumns() []string {
	cols := make([]string, 0, len(AllProcedureTypes())*len(AllRoleLabels()))
	for _, t := range AllProcedureTypes() {
		for _, label := range AllRoleLabels() {
			cols = append(cols, PaymentColumn(t, label))
		}
	}
	return cols
}

// PaymentRow is one staff member's line in the payment table.
type PaymentRow struct {
	Name string `json:"name"`

	// FirstRole is the role this person first appeared in, scanning records in
	// order and roles in priority order; it determines the row's group.
	FirstRole StaffRole `json:"first_role"`

	// Quantities maps retained column keys to accumulated billing quantity.
	Quantities map[string]float64 `json:"quantities"`

	TotalQuantity float64 `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// PaymentTable is the pivoted payroll view of one processing run. Columns is
// data-dependent: consumers must read it from the result rather than assume
// the full cartesian space.
type PaymentTable struct {
	Columns      []string           `json:"columns"`
	Rows         []PaymentRow       `json:"rows"`
	UnitPrices   map[string]float64 `json:"unit_prices"`
	ColumnTotals map[string]float64 `json:"column_totals"`
	GrandTotal   float64            `json:"grand_total"`
}
