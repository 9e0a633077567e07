package entities

import "time"

// ConflictType distinguishes the two resource kinds a conflict is detected on.
type ConflictType string

const (
	ConflictTypeStaff   ConflictType = "STAFF"
	ConflictTypeMachine ConflictType = "MACHINE"
)

// StaffConflict is a pair of records that share one staff member in the same
// role at overlapping times. The same person in two different roles is not a
// conflict; the grouping key includes the role on purpose.
type StaffConflict struct {
	ID             string        `json:"id"`
	StaffName      string        `json:"staff_name"`
	Role           StaffRole     `json:"role"`
	First          SurgeryRecord `json:"first"`
	Second         SurgeryRecord `json:"second"`
	OverlapMinutes int           `json:"overlap_minutes"`
}

// MachineConflict is a pair of records booked on the same machine at
// overlapping times.
type MachineConflict struct {
	ID             string        `json:"id"`
	MachineCode    string        `json:"machine_code"`
	First          SurgeryRecord `json:"first"`
	Second         SurgeryRecord `json:"second"`
	OverlapMinutes int           `json:"overlap_minutes"`
}

// Conflict is the flattened view of either conflict kind, shaped for the
// review UI and the narrative generator.
type Conflict struct {
	ID             string       `json:"id"`
	ResourceName   string       `json:"resource_name"`
	Type           ConflictType `json:"type"`
	SurgeryA       string       `json:"surgery_a"`
	SurgeryB       string       `json:"surgery_b"`
	StartA         time.Time    `json:"start_a"`
	EndA           time.Time    `json:"end_a"`
	StartB         time.Time    `json:"start_b"`
	EndB           time.Time    `json:"end_b"`
	OverlapMinutes int          `json:"overlap_minutes"`
}
