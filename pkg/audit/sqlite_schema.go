package audit

// SchemaVersion is the current audit database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
const Schema = `
-- Execution outcomes, one row per processed entry, append-only
CREATE TABLE IF NOT EXISTS outcomes (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    path TEXT NOT NULL,
    fingerprint TEXT,

    action TEXT NOT NULL,
    simulated BOOLEAN NOT NULL,
    success BOOLEAN NOT NULL,
    error_kind TEXT,
    error TEXT,

    bytes_affected INTEGER NOT NULL DEFAULT 0,
    categories TEXT,
    decision_reason TEXT,
    archive_destination TEXT,

    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_path ON outcomes(path);
CREATE INDEX IF NOT EXISTS idx_outcomes_fingerprint ON outcomes(fingerprint);
CREATE INDEX IF NOT EXISTS idx_outcomes_timestamp ON outcomes(timestamp);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `
INSERT OR IGNORE INTO schema_version (version) VALUES (?);
`
