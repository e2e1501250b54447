// Package dataset loads the platform CSV exports into normalized event tables.
package dataset

import (
	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/tags"
)

// Table is an ordered set of events with the union of their source columns.
type Table struct {
	Columns []string
	Events  []models.Event

	// present records which columns each source file carried, so a missing
	// column reads as absent rather than empty.
	present map[models.Source]map[string]struct{}
}

// NewTable creates a table for events of a single source.
func NewTable(source models.Source, columns []string, events []models.Event) *Table {
	cols := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		cols[c] = struct{}{}
	}
	return &Table{
		Columns: columns,
		Events:  events,
		present: map[models.Source]map[string]struct{}{source: cols},
	}
}

// Len returns the number of events.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Events)
}

// Cell returns the raw value of column col in row i. ok is false when the
// row's source file did not have that column.
func (t *Table) Cell(i int, col string) (value string, ok bool) {
	ev := t.Events[i]
	if !t.HasColumn(ev.Source, col) {
		return "", false
	}
	return ev.Raw[col], true
}

// HasColumn reports whether the file loaded for src carried col.
func (t *Table) HasColumn(src models.Source, col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.present[src][col]
	return ok
}

// AbsentColumns returns the columns of cols that src's file did not carry.
func (t *Table) AbsentColumns(src models.Source, cols ...string) []string {
	var out []string
	for _, c := range cols {
		if c != "" && !t.HasColumn(src, c) {
			out = append(out, c)
		}
	}
	return out
}

// Filter returns a new table holding the events keep accepts.
// Columns and column presence are shared with the receiver.
func (t *Table) Filter(keep func(models.Event) bool) *Table {
	out := &Table{Columns: t.Columns, present: t.present, Events: make([]models.Event, 0, len(t.Events))}
	for _, ev := range t.Events {
		if keep(ev) {
			out.Events = append(out.Events, ev)
		}
	}
	return out
}

// Concat joins tables row-wise. Columns are the union of all inputs in
// first-seen order.
func Concat(tables ...*Table) *Table {
	out := &Table{present: make(map[models.Source]map[string]struct{})}
	seen := make(map[string]struct{})

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out.Columns = append(out.Columns, c)
		}
		for src, cols := range t.present {
			merged, ok := out.present[src]
			if !ok {
				merged = make(map[string]struct{}, len(cols))
				out.present[src] = merged
			}
			for c := range cols {
				merged[c] = struct{}{}
			}
		}
		out.Events = append(out.Events, t.Events...)
	}
	return out
}

// UnifyTags sets UnifiedTag on every event in place.
func UnifyTags(t *Table, m *tags.Mapping) {
	for i := range t.Events {
		ev := &t.Events[i]
		ev.UnifiedTag = tags.Unify(ev.PrimaryCategory, ev.SecondaryCategory, m)
	}
}

// Set holds the per-source tables and their concatenation.
type Set struct {
	Tables map[models.Source]*Table
	All    *Table
}

// NewSet concatenates the per-source tables in platform order.
func NewSet(tables map[models.Source]*Table) *Set {
	ordered := make([]*Table, 0, len(tables))
	for _, src := range models.Platforms {
		if t, ok := tables[src]; ok {
			ordered = append(ordered, t)
		}
	}
	return &Set{Tables: tables, All: Concat(ordered...)}
}

// Table returns the base table for a source selector; All yields the
// concatenation. A platform without a loaded table yields an empty table.
func (s *Set) Table(src models.Source) *Table {
	if src == models.SourceAll {
		return s.All
	}
	if t, ok := s.Tables[src]; ok {
		return t
	}
	return &Table{}
}

// RowCounts returns the number of events per platform.
func (s *Set) RowCounts() map[models.Source]int {
	out := make(map[models.Source]int, len(s.Tables)+1)
	for src, t := range s.Tables {
		out[src] = t.Len()
	}
	out[models.SourceAll] = s.All.Len()
	return out
}
