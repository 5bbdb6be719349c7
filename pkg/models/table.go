package models

import "strings"

// RawTable is an untyped registry extract: one header row plus string records.
// Readers normalize every cell to a string so the preprocessor sees the same
// shape regardless of backend.
type RawTable struct {
	Header  []string
	Records [][]string
}

// Index returns the position of a column, or -1.
func (t *RawTable) Index(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
			return i
		}
	}
	return -1
}

// Len returns the number of records.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Records) {
		return ""
	}
	rec := t.Records[row]
	if col >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[col])
}
