package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// ConflictService finds pairs of records that double-book a resource: the
// same person in the same role, or the same machine, at overlapping times.
type ConflictService struct{}

func NewConflictService() *ConflictService {
	return &ConflictService{}
}

type staffGroupKey struct {
	role entities.StaffRole
	name string
}

// DetectStaffConflicts groups records by (role, name) across the six staffing
// slots and tests every pair within a group. The role is part of the key: one
// person working two roles at once is not flagged. Records without a usable
// interval never enter a group.
func (s *ConflictService) DetectStaffConflicts(records []entities.SurgeryRecord) []entities.StaffConflict {
	groups := make(map[staffGroupKey][]entities.SurgeryRecord)
	var order []staffGroupKey

	for _, rec := range records {
		if !rec.HasInterval() {
			continue
		}
		for _, role := range entities.AllStaffRoles() {
			name := rec.StaffInRole(role)
			if name == "" {
				continue
			}
			key := staffGroupKey{role: role, name: name}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], rec)
		}
	}

	var conflicts []entities.StaffConflict
	for _, key := range order {
		group := groups[key]
		sortByStart(group)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if !intervalsOverlap(group[i], group[j]) {
					continue
				}
				conflicts = append(conflicts, entities.StaffConflict{
					ID:             uuid.NewString(),
					StaffName:      key.name,
					Role:           key.role,
					First:          group[i],
					Second:         group[j],
					OverlapMinutes: overlapMinutes(group[i], group[j]),
				})
			}
		}
	}

	return conflicts
}

// DetectMachineConflicts groups records by machine code and tests every pair.
// Records with no machine or no interval are skipped; the missing-machine
// report handles the former.
func (s *ConflictService) DetectMachineConflicts(records []entities.SurgeryRecord) []entities.MachineConflict {
	groups := make(map[string][]entities.SurgeryRecord)
	var order []string

	for _, rec := range records {
		if rec.MachineCode == "" || !rec.HasInterval() {
			continue
		}
		if _, seen := groups[rec.MachineCode]; !seen {
			order = append(order, rec.MachineCode)
		}
		groups[rec.MachineCode] = append(groups[rec.MachineCode], rec)
	}

	var conflicts []entities.MachineConflict
	for _, machine := range order {
		group := groups[machine]
		sortByStart(group)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if !intervalsOverlap(group[i], group[j]) {
					continue
				}
				conflicts = append(conflicts, entities.MachineConflict{
					ID:             uuid.NewString(),
					MachineCode:    machine,
					First:          group[i],
					Second:         group[j],
					OverlapMinutes: overlapMinutes(group[i], group[j]),
				})
			}
		}
	}

	return conflicts
}

// Flatten merges both conflict kinds into the single shape the review UI and
// the narrative prompt consume, staff conflicts first.
func (s *ConflictService) Flatten(staff []entities.StaffConflict, machine []entities.MachineConflict) []entities.Conflict {
	out := make([]entities.Conflict, 0, len(staff)+len(machine))
	for _, c := range staff {
		out = append(out, flattenPair(c.ID, c.StaffName, entities.ConflictTypeStaff, c.First, c.Second, c.OverlapMinutes))
	}
	for _, c := range machine {
		out = append(out, flattenPair(c.ID, c.MachineCode, entities.ConflictTypeMachine, c.First, c.Second, c.OverlapMinutes))
	}
	return out
}

func flattenPair(id, resource string, kind entities.ConflictType, a, b entities.SurgeryRecord, overlap int) entities.Conflict {
	return entities.Conflict{
		ID:             id,
		ResourceName:   resource,
		Type:           kind,
		SurgeryA:       a.ProcedureName,
		SurgeryB:       b.ProcedureName,
		StartA:         *a.Start,
		EndA:           *a.End,
		StartB:         *b.Start,
		EndB:           *b.End,
		OverlapMinutes: overlap,
	}
}

func sortByStart(group []entities.SurgeryRecord) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Start.Before(*group[j].Start)
	})
}

// intervalsOverlap is inclusive: touching endpoints count as a collision.
func intervalsOverlap(a, b entities.SurgeryRecord) bool {
	return !a.Start.After(*b.End) && !b.Start.After(*a.End)
}

func overlapMinutes(a, b entities.SurgeryRecord) int {
	end := minTime(*a.End, *b.End)
	start := maxTime(*a.Start, *b.Start)
	return int(math.Round(end.Sub(start).Minutes()))
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
