package aggregate

import (
	"sort"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/dataset"
)

// MeanDuration averages event durations per value of groupBy. Records without
// a duration are ignored and a group with no durations is left out, so the
// result never holds NaN. Rows with an empty group value are skipped.
// Results are ordered by tag.
func MeanDuration(t *dataset.Table, groupBy string) ([]models.TagDuration, error) {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[string]*acc)

	for _, ev := range eventsOf(t) {
		key, err := Field(ev, groupBy)
		if err != nil {
			return nil, err
		}
		if key == "" || !ev.HasDuration {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.sum += ev.Duration
		g.n++
	}

	out := make([]models.TagDuration, 0, len(groups))
	for tag, g := range groups {
		if g.n == 0 {
			continue
		}
		out = append(out, models.TagDuration{Tag: tag, MeanDuration: g.sum / float64(g.n)})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}
