// Package storage provides durable persistence for the full context snapshot,
// abstracting over a flat JSON file and a SQLite database so the store is
// backend-agnostic.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-ports/ctxtrack/internal/models"
)

// ErrCorrupt is returned when previously persisted data cannot be parsed.
// A corrupt store is never partially loaded.
var ErrCorrupt = errors.New("corrupt context data")

// Backend persists and retrieves the full snapshot.
//
// Save fully overwrites persisted state and must be atomic to an external
// reader: a concurrent reader never observes a half-written store, even when
// two processes race (last writer wins).
type Backend interface {
	// Load returns the persisted snapshot, or an empty one when no prior
	// data exists. Unparseable data fails with an error wrapping ErrCorrupt.
	Load() (*models.Snapshot, error)
	// Save replaces the persisted state with snap.
	Save(snap *models.Snapshot) error
	Close() error
}

// Supported backend kinds.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// Open creates the backend of the given kind rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case KindJSON, "":
		return NewJSONFile(filepath.Join(dir, "contexts.json")), nil
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, "contexts.db"))
	default:
		return nil, fmt.Errorf("storage.Open: unknown backend %q", kind)
	}
}
