// Package aggregate computes the chart views from an event table.
// Every function is pure and returns an empty, non-nil slice for empty input.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/eventscope/models"
)

// Tag columns accepted by the group-by views.
const (
	ColumnPrimary   = "primary_category"
	ColumnSecondary = "secondary_category"
	ColumnUnified   = "unified_tag"
	ColumnVenue     = "venue"
)

// Field returns the value of a named normalized column.
func Field(ev models.Event, column string) (string, error) {
	switch column {
	case ColumnPrimary:
		return ev.PrimaryCategory, nil
	case ColumnSecondary:
		return ev.SecondaryCategory, nil
	case ColumnUnified:
		return ev.UnifiedTag, nil
	case ColumnVenue:
		return ev.Venue, nil
	default:
		return "", fmt.Errorf("unknown column: %s", column)
	}
}

// Explode splits a multi-valued cell. Parts are trimmed, empty parts dropped
// and duplicates within the cell collapsed so each value counts once per record.
// An empty separator keeps the cell whole.
func Explode(cell, sep string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if sep == "" {
		return []string{cell}
	}

	parts := strings.Split(cell, sep)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Map counts the exploded values of one record.
func Map(cell, sep string) map[string]int {
	counts := make(map[string]int)
	for _, v := range Explode(cell, sep) {
		counts[v]++
	}
	return counts
}

// Reduce aggregates a slice of per-record count maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for label, count := range counts {
			finalResults[label] += count
		}
	}

	return finalResults
}
