package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    completed            INTEGER NOT NULL DEFAULT 0,
    planned_amount       REAL NOT NULL,
    planned_rate         REAL NOT NULL,
    planned_picks        INTEGER NOT NULL,
    planned_hours        REAL NOT NULL,
    planned_date         TEXT NOT NULL,
    planned_type         TEXT NOT NULL,
    planned_status       TEXT NOT NULL,
    planned_note         TEXT,
    actual_amount        REAL NOT NULL,
    actual_rate          REAL NOT NULL,
    actual_picks         INTEGER NOT NULL,
    actual_hours         REAL NOT NULL,
    actual_date          TEXT NOT NULL,
    actual_type          TEXT NOT NULL,
    actual_status        TEXT NOT NULL,
    actual_note          TEXT
);

CREATE TABLE IF NOT EXISTS records (
    date                 TEXT PRIMARY KEY,
    amount               REAL NOT NULL,
    picks                INTEGER NOT NULL CHECK (picks >= 0),
    rate                 REAL NOT NULL,
    shift_type           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    imported_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goals_position ON goals(position);
CREATE INDEX IF NOT EXISTS idx_goals_actual_date ON goals(actual_date);
`
