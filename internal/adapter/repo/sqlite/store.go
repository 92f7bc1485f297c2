package sqliterepo

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS plan_executions (
	id             TEXT PRIMARY KEY,
	fingerprint    TEXT NOT NULL UNIQUE,
	algorithm      TEXT NOT NULL,
	objective      TEXT NOT NULL,
	action_ids     TEXT NOT NULL,
	total_cost     REAL NOT NULL,
	planning_ms    INTEGER NOT NULL,
	nodes_expanded INTEGER NOT NULL,
	success        INTEGER NOT NULL,
	reason         TEXT,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS action_definitions (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS state_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id    TEXT NOT NULL,
	type        TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	payload     TEXT
);

CREATE INDEX IF NOT EXISTS idx_state_events_agent ON state_events(agent_id, occurred_at);
`

// Store wraps an embedded SQLite database for single-node deployments that
// do not want to run postgres.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
