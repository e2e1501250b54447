package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtnitsch/eventscope/pkg/dataset"
)

// RunInfo summarizes a stored export.
type RunInfo struct {
	RunID       string
	EventCount  int
	MappingSize int
}

// WriteTable stores t under a new run id in one transaction and returns the id.
func (db *DB) WriteTable(ctx context.Context, t *dataset.Table, mappingSize int) (string, error) {
	runID := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, event_count, mapping_size) VALUES (?, ?, ?)`,
		runID, t.Len(), mappingSize,
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (run_id, row_index, source, color, lat, lon,
			primary_category, secondary_category, unified_tag, venue, duration_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, ev := range t.Events {
		var lat, lon, dur sql.NullFloat64
		if ev.GeoValid {
			lat = sql.NullFloat64{Float64: ev.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: ev.Lon, Valid: true}
		}
		if ev.HasDuration {
			dur = sql.NullFloat64{Float64: ev.Duration, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			runID, i, string(ev.Source), ev.Color, lat, lon,
			nullString(ev.PrimaryCategory), nullString(ev.SecondaryCategory),
			nullString(ev.UnifiedTag), nullString(ev.Venue), dur,
		); err != nil {
			return "", fmt.Errorf("failed to insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return runID, nil
}

// GetRun returns the summary of a stored export.
func (db *DB) GetRun(ctx context.Context, runID string) (*RunInfo, error) {
	info := &RunInfo{RunID: runID}
	err := db.QueryRowContext(ctx,
		`SELECT event_count, mapping_size FROM runs WHERE run_id = ?`, runID,
	).Scan(&info.EventCount, &info.MappingSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return info, nil
}

// CountByTag returns stored event counts per unified tag for a run.
func (db *DB) CountByTag(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT COALESCE(unified_tag, ''), COUNT(*)
		FROM events WHERE run_id = ?
		GROUP BY unified_tag
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		out[tag] += n
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
