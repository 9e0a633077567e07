package entities

import "strings"

// Grid is a decoded spreadsheet: row-major raw cell text, no semantic
// interpretation. Rows may be ragged because the codec drops trailing empty
// cells, so all access goes through Cell.
type Grid [][]string

// Cell returns the trimmed value at (row, col), or "" when the coordinate
// falls outside the grid.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}
