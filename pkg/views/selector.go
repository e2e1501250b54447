// Package views narrows the unified event table to what the map shows.
package views

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/dataset"
	"github.com/dtnitsch/eventscope/pkg/tags"
)

var (
	// ErrUnknownSource is returned for a source selector value outside the options.
	ErrUnknownSource = errors.New("unknown source")
	// ErrUnknownTag is returned for a tag selector value the mapping does not know.
	ErrUnknownTag = errors.New("unknown tag")
)

// Select returns the rows for a map source and tag. The source picks the
// base table (All is the concatenation). A tag other than All then keeps rows
// whose unified tag equals it. With TagScopeAll the tag filter runs on the
// concatenated table regardless of source.
func Select(set *dataset.Set, source models.Source, tag string, scope models.TagScope) *dataset.Table {
	if tag == "" || tag == models.TagAll {
		return set.Table(source)
	}

	base := set.Table(source)
	if scope == models.TagScopeAll {
		base = set.All
	}
	return base.Filter(func(ev models.Event) bool {
		return ev.UnifiedTag == tag
	})
}

// ParseSelection validates raw selector values. Empty values mean All.
// A tag is accepted when it is a mapping key or a unified category name.
func ParseSelection(mapSource, mapTag, freqSource string, m *tags.Mapping) (models.Selection, error) {
	sel := models.DefaultSelection()

	src, err := models.ParseSource(mapSource)
	if err != nil {
		return sel, fmt.Errorf("%w: map source %q", ErrUnknownSource, mapSource)
	}
	sel.MapSource = src

	freq, err := models.ParseSource(freqSource)
	if err != nil {
		return sel, fmt.Errorf("%w: frequency source %q", ErrUnknownSource, freqSource)
	}
	sel.FreqSource = freq

	if mapTag != "" && mapTag != models.TagAll {
		if !isKnownTag(mapTag, m) {
			return sel, fmt.Errorf("%w: %q", ErrUnknownTag, mapTag)
		}
		sel.MapTag = mapTag
	}
	return sel, nil
}

func isKnownTag(tag string, m *tags.Mapping) bool {
	if m.HasKey(tag) {
		return true
	}
	for _, v := range m.Values() {
		if v == tag {
			return true
		}
	}
	return false
}

// MapPoints projects rows with a valid position to plotted points.
func MapPoints(t *dataset.Table) []models.MapPoint {
	points := make([]models.MapPoint, 0, t.Len())
	for _, ev := range t.Events {
		if !ev.GeoValid {
			continue
		}
		points = append(points, models.MapPoint{Lat: ev.Lat, Lon: ev.Lon, Color: ev.Color})
	}
	return points
}

// FrequencyColumn returns the tag column charted for a frequency source.
func FrequencyColumn(src models.Source) string {
	switch src {
	case models.SourceEventBrite:
		return "secondary_category"
	case models.SourceEventim:
		return "primary_category"
	default:
		return "unified_tag"
	}
}
