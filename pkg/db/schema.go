package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs table: one row per externalization invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL,
    mode TEXT NOT NULL,                -- requested mode: auto, single, directory
    effective_mode TEXT NOT NULL,      -- what actually ran: single or directory
    input_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    payload_bytes INTEGER NOT NULL DEFAULT 0,
    blob_count INTEGER NOT NULL DEFAULT 0,
    chunk_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Blobs recorded per run, mirroring the manifest entries
CREATE TABLE IF NOT EXISTS run_blobs (
    blob_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    detector TEXT NOT NULL,
    strategy TEXT NOT NULL,
    payload_bytes INTEGER NOT NULL DEFAULT 0,
    chunk_count INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, key)
);

CREATE INDEX IF NOT EXISTS idx_run_blobs_run ON run_blobs(run_id);
`
