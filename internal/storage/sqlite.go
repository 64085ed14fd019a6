package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/ctxtrack/internal/models"
)

// SQLite stores the snapshot in a single-table SQLite database: one row per
// context holding its serialized record, plus meta rows for the active
// pointer and the switch stack.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and initialises the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storage.OpenSQLite: %w", err)
	}
	s := &SQLite{db: db, path: path}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage.OpenSQLite createSchema: %w", err)
	}
	return s, nil
}

// Path returns the backing database path.
func (s *SQLite) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contexts (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("createSchema exec: %w", err)
		}
	}
	return nil
}

// Load reads all context rows and the meta table into a snapshot.
func (s *SQLite) Load() (*models.Snapshot, error) {
	snap := models.NewSnapshot()

	rows, err := s.db.Query(`SELECT name, data FROM contexts`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan: %w", err)
		}
		var c models.Context
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("sqlite.Load %q: %w: %v", name, ErrCorrupt, err)
		}
		snap.Contexts[name] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: rows: %w", err)
	}

	var active string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = 'active'`).Scan(&active)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite.Load: active: %w", err)
	}
	snap.Active = active

	var stackJSON string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = 'stack'`).Scan(&stackJSON)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite.Load: stack: %w", err)
	}
	if stackJSON != "" {
		if err := json.Unmarshal([]byte(stackJSON), &snap.Stack); err != nil {
			return nil, fmt.Errorf("sqlite.Load stack: %w: %v", ErrCorrupt, err)
		}
	}

	return snap, nil
}

// Save replaces all persisted rows with snap inside a single transaction.
func (s *SQLite) Save(snap *models.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite.Save: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec(`DELETE FROM contexts`); err != nil {
		return fmt.Errorf("sqlite.Save: clear: %w", err)
	}
	for name, c := range snap.Contexts {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("sqlite.Save: marshal %q: %w", name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO contexts (name, data) VALUES (?, ?)`, name, string(data),
		); err != nil {
			return fmt.Errorf("sqlite.Save: insert %q: %w", name, err)
		}
	}

	stackJSON, err := json.Marshal(snap.Stack)
	if err != nil {
		return fmt.Errorf("sqlite.Save: marshal stack: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('active', ?)`, snap.Active,
	); err != nil {
		return fmt.Errorf("sqlite.Save: active: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('stack', ?)`, string(stackJSON),
	); err != nil {
		return fmt.Errorf("sqlite.Save: stack: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Save: commit: %w", err)
	}
	return nil
}
