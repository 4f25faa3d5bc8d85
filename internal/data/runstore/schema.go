package runstore

import (
	"database/sql"
	"fmt"
)

const SchemaVersion = 1

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS runs (
  run_id TEXT NOT NULL PRIMARY KEY,
  schema_version INTEGER NOT NULL,
  ts_utc TEXT NOT NULL,
  module_name TEXT NOT NULL DEFAULT '',
  entity_count INTEGER NOT NULL,
  pod_count INTEGER NOT NULL,
  opaque_count INTEGER NOT NULL,
  alias_count INTEGER NOT NULL,
  ignored_count INTEGER NOT NULL,
  rename_count INTEGER NOT NULL,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts_utc);

CREATE TABLE IF NOT EXISTS diagnostics (
  run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
  context TEXT NOT NULL,
  namespace TEXT NOT NULL DEFAULT '',
  code TEXT NOT NULL,
  message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);

CREATE TABLE IF NOT EXISTS renames (
  run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
  bridge_name TEXT NOT NULL,
  original_name TEXT NOT NULL,
  namespace TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_renames_run ON renames(run_id);
`,
	},
}

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, m := range migrations {
		var applied int
		err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, m.version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if applied > 0 {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}
