// Package geofence drops events whose coordinates fall outside a rectangle.
package geofence

import (
	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/dataset"
)

// Contains reports whether a valid position lies strictly inside b.
// An invalid position is never contained, even by an open box.
func Contains(b models.Bounds, lat, lon float64, valid bool) bool {
	if !valid {
		return false
	}
	if b.MinLat != nil && !(lat > *b.MinLat) {
		return false
	}
	if b.MaxLat != nil && !(lat < *b.MaxLat) {
		return false
	}
	if b.MinLon != nil && !(lon > *b.MinLon) {
		return false
	}
	if b.MaxLon != nil && !(lon < *b.MaxLon) {
		return false
	}
	return true
}

// Apply returns the events of t that satisfy every box.
// With no boxes the table is returned unchanged.
func Apply(t *dataset.Table, boxes ...models.Bounds) *dataset.Table {
	active := boxes[:0:0]
	for _, b := range boxes {
		if !b.IsZero() {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return t
	}

	return t.Filter(func(ev models.Event) bool {
		for _, b := range active {
			if !Contains(b, ev.Lat, ev.Lon, ev.GeoValid) {
				return false
			}
		}
		return true
	})
}

// BoxesFor returns the boxes configured for a platform: the shared box
// first, then the platform's own. Disabled config yields none.
func BoxesFor(cfg models.GeofenceConfig, src models.Source) []models.Bounds {
	if !cfg.Enabled {
		return nil
	}
	boxes := []models.Bounds{cfg.All}
	if b, ok := cfg.PerSource[src]; ok {
		boxes = append(boxes, b)
	}
	return boxes
}

// Berlin returns the Berlin dashboard bounding boxes:
// every source below 52.5N / 13.5E, EventBrite additionally below 53N.
func Berlin() models.GeofenceConfig {
	lat, lon, ebLat := 52.5, 13.5, 53.0
	return models.GeofenceConfig{
		Enabled: true,
		All:     models.Bounds{MaxLat: &lat, MaxLon: &lon},
		PerSource: map[models.Source]models.Bounds{
			models.SourceEventBrite: {MaxLat: &ebLat},
		},
	}
}
