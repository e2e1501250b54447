package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/geofence"
	"github.com/dtnitsch/eventscope/pkg/metrics"
	"github.com/dtnitsch/eventscope/pkg/tags"
)

const header = "name,lat,lon,categories1name,tags1display_name,venue,event_duration\n"

// setupConfig writes both exports into a temp dir and returns a config
// pointing at them.
func setupConfig(t *testing.T, eventbrite, eventim string) *models.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := models.DefaultConfig()
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		src.Path = filepath.Join(dir, string(src.Name)+".csv")
		src.LatColumn, src.LonColumn, src.VenueColumn = "lat", "lon", "venue"

		body := eventbrite
		if src.Name == models.SourceEventim {
			body = eventim
		}
		if err := os.WriteFile(src.Path, []byte(header+body), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", src.Path, err)
		}
	}
	return cfg
}

func scenarioMapping() *tags.Mapping {
	return tags.NewMapping([2]string{"Jazz", "Music"})
}

func TestRun_Scenario(t *testing.T) {
	cfg := setupConfig(t,
		"a,52.51,13.40,Jazz,Concert,A-Trane,1\nb,52.52,13.41,Jazz,Concert,B-Flat,2\n",
		"c,52.40,13.30,Sports,,Olympiastadion,\n",
	)
	p := New(cfg, scenarioMapping(), nil, nil)

	all, err := p.Run(context.Background(), models.DefaultSelection())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(all.Points) != 3 {
		t.Errorf("All/All points = %d, want 3", len(all.Points))
	}
	if len(all.Frequency) != 0 {
		t.Errorf("Frequency = %v, want empty below threshold 15", all.Frequency)
	}
	wantDur := []models.TagDuration{{Tag: "Jazz", MeanDuration: 1.5}}
	if !reflect.DeepEqual(all.Durations, wantDur) {
		t.Errorf("Durations = %v, want %v", all.Durations, wantDur)
	}
	if all.RowCounts[models.SourceAll] != 3 {
		t.Errorf("RowCounts[All] = %d, want 3", all.RowCounts[models.SourceAll])
	}

	music, err := p.Run(context.Background(), models.Selection{MapSource: models.SourceAll, MapTag: "Music", FreqSource: models.SourceAll})
	if err != nil {
		t.Fatalf("Run(Music) error = %v", err)
	}
	if len(music.Points) != 2 {
		t.Errorf("All/Music points = %d, want 2", len(music.Points))
	}
	for _, pt := range music.Points {
		if pt.Color != models.ColorEventBrite {
			t.Errorf("Music point color = %q, want EventBrite color", pt.Color)
		}
	}
}

func TestRun_FrequencySourceAndVenues(t *testing.T) {
	var eb, ev strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&eb, "e%d,52.5,13.4,Jazz,Konzert,Venue%d,1\n", i, i%4)
	}
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&ev, "v%d,52.4,13.3,Sport,,Arena,\n", i)
	}
	cfg := setupConfig(t, eb.String(), ev.String())
	p := New(cfg, scenarioMapping(), nil, nil)

	tests := []struct {
		name string
		freq models.Source
		want []models.CategoryCount
	}{
		{name: "unified", freq: models.SourceAll, want: []models.CategoryCount{{Label: "Music", Count: 16}}},
		{name: "eventbrite uses secondary", freq: models.SourceEventBrite, want: []models.CategoryCount{{Label: "Konzert", Count: 16}}},
		{name: "eventim uses primary", freq: models.SourceEventim, want: []models.CategoryCount{{Label: "Jazz", Count: 16}, {Label: "Sport", Count: 15}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := models.DefaultSelection()
			sel.FreqSource = tt.freq
			dash, err := p.Run(context.Background(), sel)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(dash.Frequency, tt.want) {
				t.Errorf("Frequency = %v, want %v", dash.Frequency, tt.want)
			}
		})
	}

	// Arena (15) is the busiest venue overall and must be skipped.
	dash, err := p.Run(context.Background(), models.DefaultSelection())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(dash.Venues) != 4 {
		t.Fatalf("Venues = %v, want 4 entries", dash.Venues)
	}
	for _, v := range dash.Venues {
		if v.Venue == "Arena" {
			t.Error("busiest venue should be excluded")
		}
	}

	// Narrowed to Eventim, only Arena remains and ranks first: nothing left.
	sel := models.DefaultSelection()
	sel.MapSource = models.SourceEventim
	dash, err = p.Run(context.Background(), sel)
	if err != nil {
		t.Fatalf("Run(Eventim) error = %v", err)
	}
	if len(dash.Venues) != 0 {
		t.Errorf("Eventim venues = %v, want empty", dash.Venues)
	}
}

func TestRun_MissingExportAborts(t *testing.T) {
	cfg := setupConfig(t, "a,52.5,13.4,Jazz,Concert,A,1\n", "")
	if err := os.Remove(cfg.Sources[1].Path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	p := New(cfg, scenarioMapping(), nil, m)

	dash, err := p.Run(context.Background(), models.DefaultSelection())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Run() error = %v, want os.ErrNotExist", err)
	}
	if dash != nil {
		t.Error("Run() returned a partial dashboard")
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues("error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
}

func TestRun_Geofence(t *testing.T) {
	cfg := setupConfig(t,
		"in,52.45,13.40,Jazz,Concert,A,1\nnorth,52.90,13.40,Jazz,Concert,B,1\nbad,,,Jazz,Concert,C,1\n",
		"in,52.40,13.30,Sport,,D,\neast,52.40,14.00,Sport,,E,\n",
	)
	cfg.Geofence = geofence.Berlin()
	p := New(cfg, scenarioMapping(), nil, nil)

	dash, err := p.Run(context.Background(), models.DefaultSelection())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(dash.Points) != 2 {
		t.Errorf("points = %d, want 2 inside the box", len(dash.Points))
	}
	if dash.RowCounts[models.SourceEventBrite] != 1 || dash.RowCounts[models.SourceEventim] != 1 {
		t.Errorf("RowCounts = %v, want 1 per source", dash.RowCounts)
	}
}

func TestRun_Idempotent(t *testing.T) {
	cfg := setupConfig(t,
		"a,52.51,13.40,Jazz,Concert,A,1\nb,52.52,13.41,Rock,Live,B,3\n",
		"c,52.40,13.30,Sports,,C,2\n",
	)
	minCount := 1
	cfg.Views.MinCategoryCount = &minCount
	p := New(cfg, scenarioMapping(), nil, nil)

	first, err := p.Run(context.Background(), models.DefaultSelection())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := p.Run(context.Background(), models.DefaultSelection())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs over unchanged input differ:\n%+v\n%+v", first, second)
	}
}

func TestRun_EventimWithoutSecondaryColumn(t *testing.T) {
	cfg := setupConfig(t,
		"a,52.51,13.40,Jazz,Concert,A-Trane,1\n",
		"",
	)
	eventim, _ := cfg.Source(models.SourceEventim)
	body := "name,lat,lon,categories1name,venue,event_duration\n" +
		"c,52.40,13.30,Sports,Olympiastadion,3\n" +
		"d,52.41,13.31,Jazz,Quasimodo,\n"
	if err := os.WriteFile(eventim.Path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", eventim.Path, err)
	}
	minCount := 1
	cfg.Views.MinCategoryCount = &minCount

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := New(cfg, scenarioMapping(), logger, nil)

	sel := models.DefaultSelection()
	sel.FreqSource = models.SourceEventim
	dash, err := p.Run(context.Background(), sel)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if dash.RowCounts[models.SourceEventim] != 2 || dash.RowCounts[models.SourceAll] != 3 {
		t.Errorf("RowCounts = %v", dash.RowCounts)
	}
	want := []models.CategoryCount{{Label: "Jazz", Count: 2}, {Label: "Sports", Count: 1}}
	if !reflect.DeepEqual(dash.Frequency, want) {
		t.Errorf("Frequency = %v, want %v", dash.Frequency, want)
	}

	// Mapped Eventim rows still unify; unmapped ones have no secondary to fall back on.
	set, err := p.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	unified := map[string]string{}
	for _, ev := range set.Tables[models.SourceEventim].Events {
		unified[ev.PrimaryCategory] = ev.UnifiedTag
	}
	if unified["Jazz"] != "Music" || unified["Sports"] != "" {
		t.Errorf("unified tags = %v", unified)
	}

	if !strings.Contains(logs.String(), "optional columns absent") || !strings.Contains(logs.String(), "tags1display_name") {
		t.Errorf("expected a warning naming the absent column, got %s", logs.String())
	}
}
