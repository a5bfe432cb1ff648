// Package sheet reads and writes the pool spreadsheet and turns its rows into typed weekly facts.
package sheet

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptySheet is returned when a sheet has no header row
	ErrEmptySheet = errors.New("sheet is empty")
	// ErrWeekNotFound is returned when no row matches the requested week
	ErrWeekNotFound = errors.New("week not found")
	// ErrColumnNotFound is returned when a required column header is missing
	ErrColumnNotFound = errors.New("column not found")
)

// Row is one data row keyed by header. Missing cells are empty strings.
type Row map[string]string

// Get returns the trimmed cell for a header
func (r Row) Get(header string) string {
	return strings.TrimSpace(r[header])
}

// Table is a header row plus data rows, header order preserved
type Table struct {
	Headers []string
	Rows    []Row
}

// FromValues builds a table from a raw value grid whose first row is the header
func FromValues(values [][]string) *Table {
	if len(values) == 0 {
		return &Table{}
	}
	headers := make([]string, len(values[0]))
	copy(headers, values[0])

	rows := make([]Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return &Table{Headers: headers, Rows: rows}
}

// Empty reports whether the table has no rows
func (t *Table) Empty() bool {
	return t == nil || len(t.Headers) == 0 || len(t.Rows) == 0
}

// FindHeader returns the first header matching re
func (t *Table) FindHeader(re *regexp.Regexp) (string, bool) {
	for _, h := range t.Headers {
		if re.MatchString(strings.TrimSpace(h)) {
			return h, true
		}
	}
	return "", false
}

// HasHeader reports whether a header exists, ignoring surrounding space
func (t *Table) HasHeader(name string) bool {
	for _, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return true
		}
	}
	return false
}

// Grid is a raw value grid as exchanged with the spreadsheet. Row 0 is the header.
// Rows may be ragged.
type Grid [][]string

// Header returns the header row
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Cell returns the value at r, c or an empty string when out of range
func (g Grid) Cell(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return g[r][c]
}

// Set writes a value, padding the row as needed
func (g Grid) Set(r, c int, v string) {
	if r < 0 || r >= len(g) || c < 0 {
		return
	}
	for len(g[r]) <= c {
		g[r] = append(g[r], "")
	}
	g[r][c] = v
}

// Column returns the index of the first header accepted by match, or -1
func (g Grid) Column(match func(header string) bool) int {
	for i, h := range g.Header() {
		if match(strings.TrimSpace(h)) {
			return i
		}
	}
	return -1
}

// ColumnFold returns the index of the header equal to name ignoring case, or -1
func (g Grid) ColumnFold(name string) int {
	return g.Column(func(h string) bool { return strings.EqualFold(h, name) })
}

// InsertColumn inserts an empty column with the given header at index at.
// Rows shorter than at are padded.
func (g Grid) InsertColumn(at int, header string) {
	for r := range g {
		row := g[r]
		for len(row) < at {
			row = append(row, "")
		}
		cell := ""
		if r == 0 {
			cell = header
		}
		row = append(row, "")
		copy(row[at+1:], row[at:])
		row[at] = cell
		g[r] = row
	}
}

// Table converts the grid into a keyed table
func (g Grid) Table() *Table {
	return FromValues(g)
}

// Clone deep-copies the grid
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]string(nil), row...)
	}
	return out
}
