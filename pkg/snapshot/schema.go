package snapshot

const schema = `
PRAGMA foreign_keys = ON;

-- One row per export run
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    event_count INTEGER NOT NULL DEFAULT 0,
    mapping_size INTEGER NOT NULL DEFAULT 0
);

-- Unified events, nullable where the source value was missing
CREATE TABLE IF NOT EXISTS events (
    event_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    source TEXT NOT NULL,               -- EventBrite, Eventim
    color TEXT NOT NULL,
    lat REAL,                           -- NULL when unparsable
    lon REAL,
    primary_category TEXT,
    secondary_category TEXT,
    unified_tag TEXT,
    venue TEXT,
    duration_days REAL,                 -- NULL when missing

    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, row_index)
);

CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
CREATE INDEX IF NOT EXISTS idx_events_unified_tag ON events(unified_tag);
CREATE INDEX IF NOT EXISTS idx_events_venue ON events(venue);
`
