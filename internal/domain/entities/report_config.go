package entities

import "strings"

// TimeRule is the expected duration band, in minutes, for a procedure type.
type TimeRule struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ReportConfig is the configuration snapshot one processing run works from:
// unit prices per (procedure type, compensation tier), duration norms per
// procedure type, and the procedure-name substrings exempt from the missing
// machine check. The snapshot is immutable for the duration of a run.
type ReportConfig struct {
	Prices              map[ProcedureType]map[RoleLabel]float64 `json:"prices"`
	TimeRules           map[ProcedureType]TimeRule              `json:"time_rules"`
	IgnoredMachineNames []string                                `json:"ignored_machine_names"`
}

// DefaultReportConfig returns the hospital's standing price and time-norm
// tables. Stored overrides are merged over these so a partially configured
// store never loses a procedure type.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Prices: map[ProcedureType]map[RoleLabel]float64{
			SurgerySpecial:        {PayPrimary: 280000, PayAssistant: 200000, PayAuxiliary: 120000},
			SurgeryGrade1:         {PayPrimary: 125000, PayAssistant: 90000, PayAuxiliary: 70000},
			SurgeryGrade2:         {PayPrimary: 65000, PayAssistant: 50000, PayAuxiliary: 30000},
			SurgeryGrade3:         {PayPrimary: 50000, PayAssistant: 30000, PayAuxiliary: 15000},
			ProcedureSpecial:      {PayPrimary: 84000, PayAssistant: 60000, PayAuxiliary: 36000},
			ProcedureGrade1:       {PayPrimary: 37500, PayAssistant: 27000, PayAuxiliary: 21000},
			ProcedureGrade2:       {PayPrimary: 19500, PayAssistant: 15000, PayAuxiliary: 9000},
			ProcedureGrade3:       {PayPrimary: 15000, PayAssistant: 9000, PayAuxiliary: 4500},
			ProcedureUnclassified: {PayPrimary: 0, PayAssistant: 0, PayAuxiliary: 0},
		},
		TimeRules: map[ProcedureType]TimeRule{
			SurgerySpecial:        {Min: 180, Max: 240},
			SurgeryGrade1:         {Min: 120, Max: 180},
			SurgeryGrade2:         {Min: 60, Max: 180},
			SurgeryGrade3:         {Min: 60, Max: 120},
			ProcedureSpecial:      {Min: 180, Max: 240},
			ProcedureGrade1:       {Min: 120, Max: 180},
			ProcedureGrade2:       {Min: 60, Max: 180},
			ProcedureGrade3:       {Min: 60, Max: 120},
			ProcedureUnclassified: {Min: 0, Max: 0},
		},
		IgnoredMachineNames: []string{},
	}
}

// UnitPrice returns the configured price for a cell, 0 when absent.
func (c *ReportConfig) UnitPrice(t ProcedureType, label RoleLabel) float64 {
	if tier, ok := c.Prices[t]; ok {
		return tier[label]
	}
	return 0
}

// IsMachineExempt reports whether a procedure name contains any configured
// exempt substring. Matching is case-sensitive containment, not normalized.
func (c *ReportConfig) IsMachineExempt(procedureName string) bool {
	for _, fragment := range c.IgnoredMachineNames {
		if fragment != "" && strings.Contains(procedureName, fragment) {
			return true
		}
	}
	return false
}
