// Package runstore persists per-run analysis results: summary counts, the
// diagnostic stream, and every rename decision. Kept so watch-mode churn can
// be inspected after the fact.
package runstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"database/sql"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Run is one persisted analysis run.
type Run struct {
	ID            string
	Timestamp     time.Time
	SchemaVersion int
	ModuleName    string
	EntityCount   int
	PodCount      int
	OpaqueCount   int
	AliasCount    int
	IgnoredCount  int
	RenameCount   int
	Diagnostics   []DiagnosticRow
	Renames       []RenameRow
}

type DiagnosticRow struct {
	Context   string
	Namespace string
	Code      string
	Message   string
}

type RenameRow struct {
	BridgeName   string
	OriginalName string
	Namespace    string
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("run store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("run store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create run store directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite run store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite run store %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.SchemaVersion == 0 {
		run.SchemaVersion = SchemaVersion
	}
	if run.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported run schema version %d", run.SchemaVersion)
	}

	return s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.Exec(`
INSERT INTO runs (
  run_id, schema_version, ts_utc, module_name, entity_count, pod_count,
  opaque_count, alias_count, ignored_count, rename_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.SchemaVersion,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.ModuleName,
			run.EntityCount,
			run.PodCount,
			run.OpaqueCount,
			run.AliasCount,
			run.IgnoredCount,
			run.RenameCount,
		)
		if err != nil {
			return err
		}
		for _, d := range run.Diagnostics {
			if _, err := tx.Exec(
				`INSERT INTO diagnostics (run_id, context, namespace, code, message) VALUES (?, ?, ?, ?, ?)`,
				run.ID, d.Context, d.Namespace, d.Code, d.Message,
			); err != nil {
				return err
			}
		}
		for _, r := range run.Renames {
			if _, err := tx.Exec(
				`INSERT INTO renames (run_id, bridge_name, original_name, namespace) VALUES (?, ?, ?, ?)`,
				run.ID, r.BridgeName, r.OriginalName, r.Namespace,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// LoadRun fetches one run with its diagnostics and renames.
func (s *Store) LoadRun(runID string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var run Run
	var ts string
	err := s.db.QueryRow(`
SELECT run_id, schema_version, ts_utc, module_name, entity_count, pod_count,
       opaque_count, alias_count, ignored_count, rename_count
FROM runs WHERE run_id = ?`, runID).Scan(
		&run.ID, &run.SchemaVersion, &ts, &run.ModuleName, &run.EntityCount,
		&run.PodCount, &run.OpaqueCount, &run.AliasCount, &run.IgnoredCount,
		&run.RenameCount,
	)
	if err != nil {
		return Run{}, fmt.Errorf("load run %q: %w", runID, err)
	}
	if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
		run.Timestamp = parsed
	}

	rows, err := s.db.Query(`SELECT context, namespace, code, message FROM diagnostics WHERE run_id = ?`, runID)
	if err != nil {
		return Run{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var d DiagnosticRow
		if err := rows.Scan(&d.Context, &d.Namespace, &d.Code, &d.Message); err != nil {
			return Run{}, err
		}
		run.Diagnostics = append(run.Diagnostics, d)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	renameRows, err := s.db.Query(`SELECT bridge_name, original_name, namespace FROM renames WHERE run_id = ?`, runID)
	if err != nil {
		return Run{}, err
	}
	defer renameRows.Close()
	for renameRows.Next() {
		var r RenameRow
		if err := renameRows.Scan(&r.BridgeName, &r.OriginalName, &r.Namespace); err != nil {
			return Run{}, err
		}
		run.Renames = append(run.Renames, r)
	}
	return run, renameRows.Err()
}

func (s *Store) withRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !strings.Contains(strings.ToLower(err.Error()), "busy") &&
			!strings.Contains(strings.ToLower(err.Error()), "locked") {
			break
		}
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, err)
}
