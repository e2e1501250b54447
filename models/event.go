package models

// Event is one row of a platform export after normalization.
type Event struct {
	Source Source `json:"source" yaml:"source"`
	Color  string `json:"color" yaml:"color"`

	Lat      float64 `json:"lat" yaml:"lat"`
	Lon      float64 `json:"lon" yaml:"lon"`
	GeoValid bool    `json:"geo_valid" yaml:"geo_valid"` // false when lat or lon did not parse

	PrimaryCategory   string `json:"primary_category" yaml:"primary_category"`
	SecondaryCategory string `json:"secondary_category" yaml:"secondary_category"`
	UnifiedTag        string `json:"unified_tag" yaml:"unified_tag"`

	Venue       string  `json:"venue" yaml:"venue"`
	Duration    float64 `json:"duration" yaml:"duration"` // days
	HasDuration bool    `json:"has_duration" yaml:"has_duration"`

	// Raw holds every cell of the source CSV row keyed by header.
	Raw map[string]string `json:"-" yaml:"-"`
}

// Bounds is a latitude/longitude rectangle. A nil bound is open.
type Bounds struct {
	MinLat *float64 `yaml:"min_lat,omitempty" json:"min_lat,omitempty"`
	MaxLat *float64 `yaml:"max_lat,omitempty" json:"max_lat,omitempty"`
	MinLon *float64 `yaml:"min_lon,omitempty" json:"min_lon,omitempty"`
	MaxLon *float64 `yaml:"max_lon,omitempty" json:"max_lon,omitempty"`
}

// IsZero reports whether no bound is set.
func (b Bounds) IsZero() bool {
	return b.MinLat == nil && b.MaxLat == nil && b.MinLon == nil && b.MaxLon == nil
}
