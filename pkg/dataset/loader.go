package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dtnitsch/eventscope/models"
)

// ErrMissingColumn is returned when a CSV lacks a position column.
var ErrMissingColumn = errors.New("missing required column")

// OptionalColumns returns the configured category, venue and duration
// columns. A source file without one of them still loads; its rows read the
// value as empty and Table.Cell reports it absent.
func OptionalColumns(src models.SourceConfig) []string {
	return []string{src.PrimaryColumn, src.SecondaryColumn, src.VenueColumn, src.DurationColumn}
}

// Load reads one platform export. A missing file is returned as an error
// wrapping os.ErrNotExist.
func Load(ctx context.Context, src models.SourceConfig) (*Table, error) {
	// Path comes from operator configuration, not request input
	f, err := os.Open(filepath.Clean(src.Path)) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("open %s export: %w", src.Name, err)
	}
	defer f.Close()

	t, err := Read(ctx, f, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Path, err)
	}
	return t, nil
}

// Read parses CSV data for one platform.
func Read(ctx context.Context, r io.Reader, src models.SourceConfig) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make([]string, len(header))
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		columns[i] = h
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}

	for _, k := range []string{src.LatColumn, src.LonColumn} {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, k)
		}
	}

	color := src.Name.Color()
	var events []models.Event

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		raw := make(map[string]string, len(columns))
		for i, name := range columns {
			if i < len(rec) {
				if _, exists := raw[name]; !exists {
					raw[name] = rec[i]
				}
			}
		}
		get := func(name string) string {
			return strings.TrimSpace(raw[name])
		}

		lat, latErr := parseFloat(get(src.LatColumn))
		lon, lonErr := parseFloat(get(src.LonColumn))
		dur, durErr := parseFloat(get(src.DurationColumn))

		ev := models.Event{
			Source:            src.Name,
			Color:             color,
			PrimaryCategory:   get(src.PrimaryColumn),
			SecondaryCategory: get(src.SecondaryColumn),
			Venue:             get(src.VenueColumn),
			Raw:               raw,
		}
		if latErr == nil && lonErr == nil {
			ev.Lat, ev.Lon, ev.GeoValid = lat, lon, true
		}
		if durErr == nil {
			ev.Duration, ev.HasDuration = dur, true
		}
		events = append(events, ev)
	}

	return NewTable(src.Name, columns, events), nil
}

// parseFloat rejects empty cells and NaN, which pandas exports for missing values.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != v {
		return 0, errors.New("not a number")
	}
	return v, nil
}
