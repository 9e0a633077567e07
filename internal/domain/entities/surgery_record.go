package entities

import "time"

// ProcedureType is the severity classification of a surgery or procedure.
// P-prefixed values are surgery tiers, T-prefixed values are procedure tiers;
// TKPL is the unclassified procedure tier. An empty value means the source row
// carried no severity marker at all, which is a data-quality anomaly rather
// than an error.
type ProcedureType string

const (
	SurgerySpecial ProcedureType = "PĐB"
	SurgeryGrade1  ProcedureType = "P1"
	SurgeryGrade2  ProcedureType = "P2"
	SurgeryGrade3  ProcedureType = "P3"

	ProcedureSpecial      ProcedureType = "TĐB"
	ProcedureGrade1       ProcedureType = "T1"
	ProcedureGrade2       ProcedureType = "T2"
	ProcedureGrade3       ProcedureType = "T3"
	ProcedureUnclassified ProcedureType = "TKPL"
)

// AllProcedureTypes returns the nine procedure types in report column order.
func AllProcedureTypes() []ProcedureType {
	return []ProcedureType{
		SurgerySpecial, SurgeryGrade1, SurgeryGrade2, SurgeryGrade3,
		ProcedureSpecial, ProcedureGrade1, ProcedureGrade2, ProcedureGrade3,
		ProcedureUnclassified,
	}
}

// StaffRole identifies one of the six staffing slots on a surgery record.
type StaffRole string

const (
	RolePrimarySurgeon    StaffRole = "PT_CHINH"
	RoleAssistantSurgeon  StaffRole = "PT_PHU"
	RoleAnesthesiologist  StaffRole = "BS_GM"
	RoleAnesthesiaTech    StaffRole = "KTV_GM"
	RoleEquipmentOperator StaffRole = "TDC"
	RoleAuxiliary         StaffRole = "GV"
)

// AllStaffRoles returns the six roles in payroll priority order. The order is
// load-bearing: payment rows are grouped by the role in which a staff member
// first appears, checked in this sequence.
func AllStaffRoles() []StaffRole {
	return []StaffRole{
		RolePrimarySurgeon,
		RoleAssistantSurgeon,
		RoleAnesthesiologist,
		RoleAnesthesiaTech,
		RoleEquipmentOperator,
		RoleAuxiliary,
	}
}

// RoleLabel is the compensation tier a staffing role is paid under.
type RoleLabel string

const (
	PayPrimary   RoleLabel = "Chính"
	PayAssistant RoleLabel = "Phụ"
	PayAuxiliary RoleLabel = "Giúp việc"
)

// AllRoleLabels returns the three compensation tiers in column order.
func AllRoleLabels() []RoleLabel {
	return []RoleLabel{PayPrimary, PayAssistant, PayAuxiliary}
}

// PayLabel maps a staffing role to its compensation tier. The anesthesiologist
// is paid at the primary rate and the anesthesia technician at the assistant
// rate regardless of the surgical roles on the same record; this encodes the
// hospital's compensation scheme, not the operating-room hierarchy.
func (r StaffRole) PayLabel() RoleLabel {
	switch r {
	case RolePrimarySurgeon, RoleAnesthesiologist:
		return PayPrimary
	case RoleAssistantSurgeon, RoleAnesthesiaTech, RoleEquipmentOperator:
		return PayAssistant
	default:
		return PayAuxiliary
	}
}

// SurgeryRecord is one normalized row of the surgery list report.
type SurgeryRecord struct {
	Sequence      string        `json:"sequence"`
	PatientID     string        `json:"patient_id"`
	PatientName   string        `json:"patient_name"`
	Gender        string        `json:"gender"`
	YearOfBirth   string        `json:"year_of_birth"`
	InsuranceCard string        `json:"insurance_card"`
	DiagnosisDate string        `json:"diagnosis_date"`
	StartRaw      string        `json:"start_raw"`
	EndRaw        string        `json:"end_raw"`
	ProcedureName string        `json:"procedure_name"`
	ProcedureType ProcedureType `json:"procedure_type"`
	Quantity      float64       `json:"quantity"`

	// Start and End are nil when the source timestamps were unparseable; such
	// records are "unscheduled" and excluded from conflict detection.
	Start           *time.Time `json:"start"`
	End             *time.Time `json:"end"`
	DurationMinutes int        `json:"duration_minutes"`

	PrimarySurgeon    string `json:"primary_surgeon"`
	AssistantSurgeon  string `json:"assistant_surgeon"`
	Anesthesiologist  string `json:"anesthesiologist"`
	AnesthesiaTech    string `json:"anesthesia_tech"`
	EquipmentOperator string `json:"equipment_operator"`
	Auxiliary         string `json:"auxiliary"`

	// MachineCode is "" when the detail report recorded no machine for this
	// record, either explicitly or because the join key did not resolve.
	MachineCode string `json:"machine_code"`
}

// StaffInRole returns the name filling the given role slot, or "".
func (r *SurgeryRecord) StaffInRole(role StaffRole) string {
	switch role {
	case RolePrimarySurgeon:
		return r.PrimarySurgeon
	case RoleAssistantSurgeon:
		return r.AssistantSurgeon
	case RoleAnesthesiologist:
		return r.Anesthesiologist
	case RoleAnesthesiaTech:
		return r.AnesthesiaTech
	case RoleEquipmentOperator:
		return r.EquipmentOperator
	case RoleAuxiliary:
		return r.Auxiliary
	}
	return ""
}

// HasInterval reports whether the record carries a usable time interval.
func (r *SurgeryRecord) HasInterval() bool {
	return r.Start != nil && r.End != nil
}
