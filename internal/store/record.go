package store

import (
	"encoding/json"
	"fmt"

	"github.com/go-ports/ctxtrack/internal/models"
)

// requiredRecordFields must all be present in an import record.
var requiredRecordFields = []string{"name", "state", "created_at", "updated_at"}

// Export returns the full record of the named context, suitable for
// serialization and later Import into another store.
func (s *Store) Export(name string) (*models.Context, error) {
	c, ok := s.snap.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("store.Export %q: %w", name, ErrNotFound)
	}
	return c.Clone(), nil
}

// Import adds a context from a serialized record. The record must carry every
// required field and a resolvable state; malformed records are rejected
// without touching the store. Without overwrite, an existing name fails.
func (s *Store) Import(data []byte, overwrite bool) (*models.Context, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("store.Import: not a JSON object: %w: %v", ErrValidation, err)
	}
	for _, field := range requiredRecordFields {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("store.Import: missing field %q: %w", field, ErrValidation)
		}
	}

	var c models.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("store.Import: malformed record: %w: %v", ErrValidation, err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("store.Import: empty name: %w", ErrValidation)
	}
	if c.State.Name == "" {
		return nil, fmt.Errorf("store.Import: empty state: %w", ErrValidation)
	}
	if _, std := models.ParseState(c.State.Name); !std && c.State.Glyph == "" {
		return nil, fmt.Errorf("store.Import: custom state %q has no glyph: %w",
			c.State.Name, ErrValidation)
	}

	if _, exists := s.snap.Contexts[c.Name]; exists && !overwrite {
		return nil, fmt.Errorf("store.Import %q: %w", c.Name, ErrDuplicate)
	}

	next := s.snap.Clone()
	next.Contexts[c.Name] = c.Clone()
	if err := s.commit(next); err != nil {
		return nil, err
	}

	cp := c.Clone()
	s.hooks.EmitImported(cp)
	return cp, nil
}
