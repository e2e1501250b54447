// Package pipeline runs load, normalize, filter and aggregate end to end.
//
// Order of operations, fixed for every run:
//
//	load each source -> geofence -> unify tags -> concatenate
//	-> source filter -> tag filter -> aggregate
//
// Nothing is cached between runs; each call re-reads the exports.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/aggregate"
	"github.com/dtnitsch/eventscope/pkg/dataset"
	"github.com/dtnitsch/eventscope/pkg/geofence"
	"github.com/dtnitsch/eventscope/pkg/metrics"
	"github.com/dtnitsch/eventscope/pkg/storage"
	"github.com/dtnitsch/eventscope/pkg/tags"
	"github.com/dtnitsch/eventscope/pkg/views"
)

// Pipeline holds the read-only inputs shared by every run.
type Pipeline struct {
	cfg     *models.Config
	mapping *tags.Mapping
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a pipeline. logger and m may be nil.
func New(cfg *models.Config, mapping *tags.Mapping, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{cfg: cfg, mapping: mapping, logger: logger, metrics: m}
}

// Mapping returns the tag mapping the pipeline unifies with.
func (p *Pipeline) Mapping() *tags.Mapping {
	return p.mapping
}

// Build loads every configured source and returns the normalized set.
// Any load failure aborts the run.
func (p *Pipeline) Build(ctx context.Context) (*dataset.Set, error) {
	tables := make(map[models.Source]*dataset.Table, len(p.cfg.Sources))

	for _, src := range p.cfg.Sources {
		t, err := dataset.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		loaded := t.Len()
		if absent := t.AbsentColumns(src.Name, dataset.OptionalColumns(src)...); len(absent) > 0 {
			p.logger.Warn("optional columns absent, values read as empty",
				"source", src.Name,
				"path", src.Path,
				"columns", absent,
			)
		}

		t = geofence.Apply(t, geofence.BoxesFor(p.cfg.Geofence, src.Name)...)
		dataset.UnifyTags(t, p.mapping)

		attrs := []any{
			"source", src.Name,
			"path", src.Path,
			"rows", loaded,
			"kept", t.Len(),
			"columns", len(t.Columns),
		}
		if stats, err := storage.GetFileStats(src.Path); err == nil {
			attrs = append(attrs, "size_bytes", stats.SizeBytes, "modified", stats.ModTime)
		}
		p.logger.Debug("source loaded", attrs...)
		tables[src.Name] = t
	}

	set := dataset.NewSet(tables)
	p.metrics.SetRows(set.RowCounts())
	return set, nil
}

// Run computes every view for sel from freshly loaded data.
func (p *Pipeline) Run(ctx context.Context, sel models.Selection) (dash *models.Dashboard, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveRun(start, err) }()

	set, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}

	dash, err = p.Views(set, sel)
	if err != nil {
		return nil, err
	}

	p.logger.Info("dashboard computed",
		"map_source", sel.MapSource,
		"map_tag", sel.MapTag,
		"freq_source", sel.FreqSource,
		"points", len(dash.Points),
		"categories", len(dash.Frequency),
		"duration_groups", len(dash.Durations),
		"venues", len(dash.Venues),
		"elapsed", time.Since(start).String(),
	)
	return dash, nil
}

// Views derives the dashboard from an already built set.
// The frequency and duration charts cover the whole unified table; the map
// points and the venue ranking follow the map selection.
func (p *Pipeline) Views(set *dataset.Set, sel models.Selection) (*models.Dashboard, error) {
	vc := p.cfg.Views
	selected := views.Select(set, sel.MapSource, sel.MapTag, vc.TagScope)

	freq, err := aggregate.CategoryFrequency(set.All, views.FrequencyColumn(sel.FreqSource), *vc.MinCategoryCount, vc.Separator)
	if err != nil {
		return nil, fmt.Errorf("category frequency: %w", err)
	}

	durations, err := aggregate.MeanDuration(set.All, vc.DurationGroupBy)
	if err != nil {
		return nil, fmt.Errorf("mean duration: %w", err)
	}

	return &models.Dashboard{
		Selection: sel,
		Points:    views.MapPoints(selected),
		Frequency: freq,
		Durations: durations,
		Venues:    aggregate.VenueRanking(selected, *vc.VenueSkip, *vc.VenueLimit),
		RowCounts: set.RowCounts(),
	}, nil
}
