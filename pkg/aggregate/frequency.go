package aggregate

import (
	"sort"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/dataset"
)

// CategoryFrequency counts the values of column across t, exploding
// multi-valued cells on sep, and drops categories seen fewer than minCount
// times. Results are ordered by count descending, then label.
func CategoryFrequency(t *dataset.Table, column string, minCount int, sep string) ([]models.CategoryCount, error) {
	intermediate := make([]map[string]int, 0, t.Len())
	for _, ev := range eventsOf(t) {
		cell, err := Field(ev, column)
		if err != nil {
			return nil, err
		}
		intermediate = append(intermediate, Map(cell, sep))
	}

	totals := Reduce(intermediate)

	out := make([]models.CategoryCount, 0, len(totals))
	for label, count := range totals {
		if count < minCount {
			continue
		}
		out = append(out, models.CategoryCount{Label: label, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func eventsOf(t *dataset.Table) []models.Event {
	if t == nil {
		return nil
	}
	return t.Events
}
