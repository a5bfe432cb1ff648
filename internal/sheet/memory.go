package sheet

import (
	"context"
	"fmt"
	"sync"
)

// MemorySource is an in-process Source. Used by tests and dry runs.
type MemorySource struct {
	mu     sync.Mutex
	sheets map[string]Grid
	reads  map[string]int
	err    error
}

// NewMemorySource creates a source holding the given sheets
func NewMemorySource(sheets map[string]Grid) *MemorySource {
	m := &MemorySource{sheets: make(map[string]Grid), reads: make(map[string]int)}
	for name, g := range sheets {
		m.sheets[name] = g.Clone()
	}
	return m
}

// FailWith makes every subsequent read return err. Pass nil to recover.
func (m *MemorySource) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Reads returns how many times a sheet was read
func (m *MemorySource) Reads(sheet string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[sheet]
}

// Values returns a copy of the sheet. A missing sheet is an empty grid.
func (m *MemorySource) Values(_ context.Context, sheet string) (Grid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[sheet]++
	if m.err != nil {
		return nil, m.err
	}
	return m.sheets[sheet].Clone(), nil
}

// Update replaces the sheet from A1, keeping rows beyond the new grid
func (m *MemorySource) Update(_ context.Context, sheet string, values Grid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cur := m.sheets[sheet].Clone()
	for r, row := range values {
		if r >= len(cur) {
			cur = append(cur, nil)
		}
		for c, v := range row {
			cur.Set(r, c, v)
		}
	}
	m.sheets[sheet] = cur
	return nil
}

// Append adds rows to the end of the sheet
func (m *MemorySource) Append(_ context.Context, sheet string, rows Grid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if len(rows) == 0 {
		return fmt.Errorf("append to %q: no rows", sheet)
	}
	m.sheets[sheet] = append(m.sheets[sheet], rows.Clone()...)
	return nil
}

// Snapshot returns a copy of a sheet as stored
func (m *MemorySource) Snapshot(sheet string) Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sheets[sheet].Clone()
}
