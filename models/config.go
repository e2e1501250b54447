// Package models defines data structures for configuration, events and views.
package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when --config is not given.
const DefaultConfigPath = "eventscope.yaml"

// TagScope controls which table the map tag filter narrows. The default is
// TagScopeSource: the tag filter runs after the source filter, so a source
// and a tag together select their intersection. TagScopeAll tags the
// concatenated table instead.
type TagScope string

const (
	// TagScopeSource narrows the source-filtered table. Default.
	TagScopeSource TagScope = "source"
	// TagScopeAll narrows the concatenated table and ignores the source filter.
	TagScopeAll TagScope = "all"
)

// Config is the runtime configuration loaded from YAML.
type Config struct {
	MappingPath string         `yaml:"mapping_path"`
	Sources     []SourceConfig `yaml:"sources"`
	Views       ViewsConfig    `yaml:"views"`
	Geofence    GeofenceConfig `yaml:"geofence"`
	Server      ServerConfig   `yaml:"server"`
}

// SourceConfig names the CSV file and the columns used for one platform.
type SourceConfig struct {
	Name            Source `yaml:"name"`
	Path            string `yaml:"path"`
	LatColumn       string `yaml:"lat_column"`
	LonColumn       string `yaml:"lon_column"`
	PrimaryColumn   string `yaml:"primary_column"`
	SecondaryColumn string `yaml:"secondary_column"`
	VenueColumn     string `yaml:"venue_column"`
	DurationColumn  string `yaml:"duration_column"`
}

// ViewsConfig tunes the aggregations.
type ViewsConfig struct {
	MinCategoryCount *int     `yaml:"min_category_count"`
	Separator        string   `yaml:"separator"`
	DurationGroupBy  string   `yaml:"duration_group_by"`
	VenueSkip        *int     `yaml:"venue_skip"`
	VenueLimit       *int     `yaml:"venue_limit"`
	TagScope         TagScope `yaml:"tag_scope"`
}

// GeofenceConfig holds the optional bounding boxes. All applies to every
// source; PerSource adds bounds for a single platform.
type GeofenceConfig struct {
	Enabled   bool              `yaml:"enabled"`
	All       Bounds            `yaml:"all"`
	PerSource map[Source]Bounds `yaml:"per_source"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	ListenAddress  string        `yaml:"listen_address"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// DefaultSources returns the column layout of the two platform exports.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:            SourceEventBrite,
			Path:            "data/EventBrite/DataFrame.csv",
			LatColumn:       "primary_venue.address.latitude",
			LonColumn:       "primary_venue.address.longitude",
			PrimaryColumn:   "categories1name",
			SecondaryColumn: "tags1display_name",
			VenueColumn:     "primary_venue.name",
			DurationColumn:  "event_duration",
		},
		{
			Name:            SourceEventim,
			Path:            "data/Eventim/DataFrame.csv",
			LatColumn:       "products0typeAttributes0liveEntertainment0location0geoLocation0latitude",
			LonColumn:       "products0typeAttributes0liveEntertainment0location0geoLocation0longitude",
			PrimaryColumn:   "categories1name",
			SecondaryColumn: "tags1display_name",
			VenueColumn:     "products0typeAttributes0liveEntertainment0location0name",
			DurationColumn:  "event_duration",
		},
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig reads a YAML config file. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.MappingPath == "" {
		c.MappingPath = "constants/mapping.yaml"
	}

	defaults := DefaultSources()
	if len(c.Sources) == 0 {
		c.Sources = defaults
	}
	for i := range c.Sources {
		for _, d := range defaults {
			if d.Name == c.Sources[i].Name {
				c.Sources[i].fillFrom(d)
			}
		}
	}

	if c.Views.MinCategoryCount == nil {
		c.Views.MinCategoryCount = intPtr(15)
	}
	if c.Views.Separator == "" {
		c.Views.Separator = ";"
	}
	if c.Views.DurationGroupBy == "" {
		c.Views.DurationGroupBy = "primary_category"
	}
	if c.Views.VenueSkip == nil {
		c.Views.VenueSkip = intPtr(1)
	}
	if c.Views.VenueLimit == nil {
		c.Views.VenueLimit = intPtr(10)
	}
	if c.Views.TagScope == "" {
		c.Views.TagScope = TagScopeSource
	}

	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8501"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
}

func intPtr(v int) *int {
	return &v
}

func (s *SourceConfig) fillFrom(d SourceConfig) {
	if s.Path == "" {
		s.Path = d.Path
	}
	if s.LatColumn == "" {
		s.LatColumn = d.LatColumn
	}
	if s.LonColumn == "" {
		s.LonColumn = d.LonColumn
	}
	if s.PrimaryColumn == "" {
		s.PrimaryColumn = d.PrimaryColumn
	}
	if s.SecondaryColumn == "" {
		s.SecondaryColumn = d.SecondaryColumn
	}
	if s.VenueColumn == "" {
		s.VenueColumn = d.VenueColumn
	}
	if s.DurationColumn == "" {
		s.DurationColumn = d.DurationColumn
	}
}

// Validate rejects configurations the pipeline cannot run.
func (c *Config) Validate() error {
	seen := make(map[Source]bool)
	for _, s := range c.Sources {
		if s.Name != SourceEventBrite && s.Name != SourceEventim {
			return fmt.Errorf("invalid source name: %q", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source: %s", s.Name)
		}
		seen[s.Name] = true
	}
	if c.Views.TagScope != TagScopeSource && c.Views.TagScope != TagScopeAll {
		return fmt.Errorf("invalid tag_scope: %q (want source or all)", c.Views.TagScope)
	}
	if *c.Views.MinCategoryCount < 0 || *c.Views.VenueLimit < 0 || *c.Views.VenueSkip < 0 {
		return fmt.Errorf("view limits must not be negative")
	}
	switch c.Views.DurationGroupBy {
	case "primary_category", "secondary_category", "unified_tag":
	default:
		return fmt.Errorf("invalid duration_group_by: %q", c.Views.DurationGroupBy)
	}
	return nil
}

// Source returns the config for one platform.
func (c *Config) Source(name Source) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceConfig{}, false
}
