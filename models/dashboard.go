package models

// Selection holds the three user-facing selector values.
type Selection struct {
	MapSource  Source `json:"map_source" yaml:"map_source"`
	MapTag     string `json:"map_tag" yaml:"map_tag"`
	FreqSource Source `json:"freq_source" yaml:"freq_source"`
}

// TagAll disables the map tag filter.
const TagAll = "All"

// DefaultSelection shows everything.
func DefaultSelection() Selection {
	return Selection{MapSource: SourceAll, MapTag: TagAll, FreqSource: SourceAll}
}

// MapPoint is one plotted event.
type MapPoint struct {
	Lat   float64 `json:"lat" yaml:"lat"`
	Lon   float64 `json:"lon" yaml:"lon"`
	Color string  `json:"color" yaml:"color"`
}

// CategoryCount is one bar of the category frequency chart.
type CategoryCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// TagDuration is one bar of the average duration chart.
type TagDuration struct {
	Tag          string  `json:"tag" yaml:"tag"`
	MeanDuration float64 `json:"mean_duration" yaml:"mean_duration"`
}

// VenueCount is one row of the venue ranking.
type VenueCount struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Venue string `json:"venue" yaml:"venue"`
	Count int    `json:"count" yaml:"count"`
}

// Dashboard bundles every derived view for one selection.
type Dashboard struct {
	Selection Selection       `json:"selection" yaml:"selection"`
	Points    []MapPoint      `json:"points" yaml:"points"`
	Frequency []CategoryCount `json:"frequency" yaml:"frequency"`
	Durations []TagDuration   `json:"durations" yaml:"durations"`
	Venues    []VenueCount    `json:"venues" yaml:"venues"`
	RowCounts map[Source]int  `json:"row_counts" yaml:"row_counts"`
}

// Option is a selector entry with its display label.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Options lists the values accepted by each selector.
type Options struct {
	MapSources  []Option `json:"map_sources" yaml:"map_sources"`
	MapTags     []Option `json:"map_tags" yaml:"map_tags"`
	FreqSources []Option `json:"freq_sources" yaml:"freq_sources"`
}
