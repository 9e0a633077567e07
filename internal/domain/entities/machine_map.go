package entities

// MachineKey joins a surgery-list row to the machine recorded for it in the
// per-department detail report. The original export joined these sheets on a
// "-"-concatenated string, which collides when procedure names themselves
// contain "-"; a struct key removes the ambiguity. Date is the procedure end
// date in yyyy-mm-dd form.
type MachineKey struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Procedure   string `json:"procedure"`
}

// MachineAssignment is one resolved (key, machine) pair, preserved in the
// order the detail report listed it.
type MachineAssignment struct {
	Key         MachineKey `json:"key"`
	MachineCode string     `json:"machine_code"`
}

// MachineMap is the lookup built from the detail report. A present key with an
// empty machine code means "explicitly no machine recorded for this block",
// which is distinct from an absent key.
type MachineMap struct {
	entries map[MachineKey]string
	order   []MachineKey
}

// NewMachineMap creates an empty machine map.
func NewMachineMap() *MachineMap {
	return &MachineMap{entries: make(map[MachineKey]string)}
}

// Set records the machine for a key. Re-setting an existing key overwrites the
// machine but keeps the key's original position.
func (m *MachineMap) Set(key MachineKey, machine string) {
	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = machine
}

// Resolve returns the machine for a key, or "" when the key is absent.
func (m *MachineMap) Resolve(key MachineKey) string {
	return m.entries[key]
}

// Lookup returns the machine for a key and whether the key is present.
func (m *MachineMap) Lookup(key MachineKey) (string, bool) {
	machine, ok := m.entries[key]
	return machine, ok
}

// Len returns the number of keys in the map.
func (m *MachineMap) Len() int {
	return len(m.entries)
}

// Assignments returns all entries in detail-report order.
func (m *MachineMap) Assignments() []MachineAssignment {
	out := make([]MachineAssignment, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, MachineAssignment{Key: key, MachineCode: m.entries[key]})
	}
	return out
}
