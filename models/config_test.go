package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventscope.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MappingPath != "constants/mapping.yaml" {
		t.Errorf("MappingPath = %q", cfg.MappingPath)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 default sources, got %d", len(cfg.Sources))
	}
	if *cfg.Views.MinCategoryCount != 15 || cfg.Views.Separator != ";" {
		t.Errorf("unexpected view defaults: %+v", cfg.Views)
	}
	if *cfg.Views.VenueSkip != 1 || *cfg.Views.VenueLimit != 10 {
		t.Errorf("venue skip/limit = %d/%d, want 1/10", *cfg.Views.VenueSkip, *cfg.Views.VenueLimit)
	}
	if cfg.Views.TagScope != TagScopeSource {
		t.Errorf("TagScope = %q", cfg.Views.TagScope)
	}
	if cfg.Views.DurationGroupBy != "primary_category" {
		t.Errorf("DurationGroupBy = %q", cfg.Views.DurationGroupBy)
	}
	if cfg.Geofence.Enabled {
		t.Error("geofence should be disabled by default")
	}
	if cfg.Server.ListenAddress != ":8501" || cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
}

func TestLoadConfig_OverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("EVENTSCOPE_TEST_DATA", "/srv/exports")
	path := writeConfig(t, `
mapping_path: tags.yaml
sources:
  - name: Eventim
    path: ${EVENTSCOPE_TEST_DATA}/eventim.csv
views:
  min_category_count: 3
  venue_skip: 0
  tag_scope: all
server:
  listen_address: 127.0.0.1:9000
  read_timeout: 2s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MappingPath != "tags.yaml" {
		t.Errorf("MappingPath = %q", cfg.MappingPath)
	}
	if len(cfg.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(cfg.Sources))
	}
	src, ok := cfg.Source(SourceEventim)
	if !ok {
		t.Fatal("Eventim source not found")
	}
	if src.Path != "/srv/exports/eventim.csv" {
		t.Errorf("Path = %q", src.Path)
	}
	// Columns not given in the file come from the platform defaults.
	if src.VenueColumn != "products0typeAttributes0liveEntertainment0location0name" {
		t.Errorf("VenueColumn = %q", src.VenueColumn)
	}
	if _, ok := cfg.Source(SourceEventBrite); ok {
		t.Error("EventBrite should not be configured")
	}

	if *cfg.Views.MinCategoryCount != 3 {
		t.Errorf("MinCategoryCount = %d", *cfg.Views.MinCategoryCount)
	}
	if *cfg.Views.VenueSkip != 0 {
		t.Errorf("explicit venue_skip 0 was replaced by %d", *cfg.Views.VenueSkip)
	}
	if cfg.Views.TagScope != TagScopeAll {
		t.Errorf("TagScope = %q", cfg.Views.TagScope)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_ExplicitZeroKept(t *testing.T) {
	path := writeConfig(t, `
views:
  min_category_count: 0
  venue_limit: 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg.Views.MinCategoryCount != 0 {
		t.Errorf("MinCategoryCount = %d, want explicit 0", *cfg.Views.MinCategoryCount)
	}
	if *cfg.Views.VenueLimit != 0 {
		t.Errorf("VenueLimit = %d, want explicit 0", *cfg.Views.VenueLimit)
	}
}

func TestLoadConfig_ShippedFileUsesDefaultPaths(t *testing.T) {
	t.Setenv("EVENTSCOPE_DATA_DIR", "")

	cfg, err := LoadConfig(filepath.Join("..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	for _, want := range DefaultSources() {
		got, ok := cfg.Source(want.Name)
		if !ok {
			t.Fatalf("%s not configured", want.Name)
		}
		if got.Path != want.Path {
			t.Errorf("%s path = %q, want %q", want.Name, got.Path, want.Path)
		}
	}
	if cfg.Geofence.Enabled {
		t.Error("shipped config should leave the geofence disabled")
	}
	if *cfg.Views.MinCategoryCount != 15 || *cfg.Views.VenueLimit != 10 || *cfg.Views.VenueSkip != 1 {
		t.Errorf("shipped view settings differ from defaults: %+v", cfg.Views)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad yaml", "views: [", "parse yaml"},
		{"unknown source", "sources:\n  - name: Ticketmaster\n", "invalid source name"},
		{"duplicate source", "sources:\n  - name: Eventim\n  - name: Eventim\n", "duplicate source"},
		{"bad tag scope", "views:\n  tag_scope: everything\n", "invalid tag_scope"},
		{"negative limit", "views:\n  venue_limit: -1\n", "must not be negative"},
		{"bad group by", "views:\n  duration_group_by: venue\n", "invalid duration_group_by"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
