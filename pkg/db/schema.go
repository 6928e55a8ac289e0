package db

// Only user-editable defaults live here, never request or response content.
const schema = `
PRAGMA journal_mode = WAL;

CREATE TABLE IF NOT EXISTS preferences (
    workflow   TEXT NOT NULL CHECK (workflow IN ('extract', 'stamp')),
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (workflow, key)
);
`
