package aggregate

import (
	"sort"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/dataset"
)

// VenueRanking counts events per venue and returns ranks skip+1 through
// skip+limit. Ranks count from 1 over all venues. Empty venue names are not
// ranked.
func VenueRanking(t *dataset.Table, skip, limit int) []models.VenueCount {
	counts := make(map[string]int)
	for _, ev := range eventsOf(t) {
		if ev.Venue == "" {
			continue
		}
		counts[ev.Venue]++
	}

	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, kv{k, v})
	}

	// Sort by count (descending), name breaks ties
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(ss) || limit <= 0 {
		return []models.VenueCount{}
	}
	end := skip + limit
	if end > len(ss) {
		end = len(ss)
	}

	out := make([]models.VenueCount, 0, end-skip)
	for i := skip; i < end; i++ {
		out = append(out, models.VenueCount{Rank: i + 1, Venue: ss[i].Key, Count: ss[i].Value})
	}
	return out
}
