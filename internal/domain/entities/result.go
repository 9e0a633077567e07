package entities

import "time"

// DurationWarning flags a record whose recorded duration falls outside the
// configured norm for its procedure type.
type DurationWarning struct {
	Record     SurgeryRecord `json:"record"`
	MinMinutes int           `json:"min_minutes"`
	MaxMinutes int           `json:"max_minutes"`
}

// Stats is the summary block computed over one processing run.
type Stats struct {
	TotalRecords         int     `json:"total_records"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	StaffConflictCount   int     `json:"staff_conflict_count"`
	MachineConflictCount int     `json:"machine_conflict_count"`
	MissingMachineCount  int     `json:"missing_machine_count"`
	LowQuantityCount     int     `json:"low_quantity_count"`
	DurationWarningCount int     `json:"duration_warning_count"`
	TotalPaymentAmount   float64 `json:"total_payment_amount"`
}

// ProcessingResult is the full output of one reconciliation run over a surgery
// list and its matching detail report.
type ProcessingResult struct {
	RunID  string `json:"run_id"`
	Period string `json:"period"`

	Records          []SurgeryRecord     `json:"records"`
	StaffConflicts   []StaffConflict     `json:"staff_conflicts"`
	MachineConflicts []MachineConflict   `json:"machine_conflicts"`
	Conflicts        []Conflict          `json:"conflicts"`
	MissingMachine   []SurgeryRecord     `json:"missing_machine"`
	DurationWarnings []DurationWarning   `json:"duration_warnings"`
	Payment          PaymentTable        `json:"payment"`
	Machines         []MachineAssignment `json:"machines"`

	Stats       Stats     `json:"stats"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RunSummary is the persisted trace of a completed run, kept for the audit
// listing rather than for replay.
type RunSummary struct {
	RunID          string    `json:"run_id" db:"run_id"`
	Period         string    `json:"period" db:"period"`
	RecordCount    int       `json:"record_count" db:"record_count"`
	ConflictCount  int       `json:"conflict_count" db:"conflict_count"`
	MissingMachine int       `json:"missing_machine" db:"missing_machine"`
	TotalPayment   float64   `json:"total_payment" db:"total_payment"`
	GeneratedAt    time.Time `json:"generated_at" db:"generated_at"`
}
