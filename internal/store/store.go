// Package store implements the context store: the authoritative in-memory
// collection of contexts, the active pointer, and the switch stack, with every
// mutation committed through a storage backend before it becomes visible.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-ports/ctxtrack/internal/hooks"
	"github.com/go-ports/ctxtrack/internal/models"
	"github.com/go-ports/ctxtrack/internal/storage"
)

// Sentinel errors for the operation failure taxonomy.
// All are matched with errors.Is; messages carry the offending name.
var (
	ErrNotFound   = errors.New("context not found")
	ErrDuplicate  = errors.New("context already exists")
	ErrValidation = errors.New("invalid input")
	ErrEmptyStack = errors.New("context stack is empty")
)

// Store owns the in-memory snapshot and mediates all mutations through a
// storage backend. Every operation either fully applies (in memory and
// persisted) or fully fails with no partial mutation visible afterwards:
// mutations run on a clone of the snapshot that is swapped in only after the
// backend save succeeds. Hooks fire after commit and cannot roll back.
type Store struct {
	backend storage.Backend
	hooks   *hooks.Registry
	snap    *models.Snapshot
}

// Open loads the persisted snapshot from backend. A load failure is fatal;
// the store cannot operate on unreadable state.
func Open(backend storage.Backend, reg *hooks.Registry) (*Store, error) {
	snap, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	if reg == nil {
		reg = hooks.NewRegistry()
	}
	return &Store{backend: backend, hooks: reg, snap: snap}, nil
}

// commit persists next and swaps it in as the current snapshot.
// On save failure the previous snapshot stays in place untouched.
func (s *Store) commit(next *models.Snapshot) error {
	if err := s.backend.Save(next); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	s.snap = next
	return nil
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Create adds a new context and makes it active.
func (s *Store) Create(name, description string, tags []string, metadata map[string]any) (*models.Context, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("store.Create: empty name: %w", ErrValidation)
	}
	if _, ok := s.snap.Contexts[name]; ok {
		return nil, fmt.Errorf("store.Create %q: %w", name, ErrDuplicate)
	}

	c := models.NewContext(name, description, tags)
	c.Metadata = metadata

	next := s.snap.Clone()
	next.Contexts[name] = c
	next.Active = name
	if err := s.commit(next); err != nil {
		return nil, err
	}

	s.hooks.EmitCreated(c.Clone())
	return c.Clone(), nil
}

// Get returns a copy of the named context.
func (s *Store) Get(name string) (*models.Context, error) {
	c, ok := s.snap.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("store.Get %q: %w", name, ErrNotFound)
	}
	return c.Clone(), nil
}

// Active returns a copy of the active context, or nil when none is active.
func (s *Store) Active() *models.Context {
	if s.snap.Active == "" {
		return nil
	}
	c, ok := s.snap.Contexts[s.snap.Active]
	if !ok {
		return nil
	}
	return c.Clone()
}

// ActiveName returns the active context name, or "" when none is active.
func (s *Store) ActiveName() string { return s.snap.Active }

// Delete removes the named context. Deleting the active context pops the
// stack to restore the previously active one; stack entries whose contexts
// were deleted in the meantime are discarded during that pop.
func (s *Store) Delete(name string) error {
	c, ok := s.snap.Contexts[name]
	if !ok {
		return fmt.Errorf("store.Delete %q: %w", name, ErrNotFound)
	}
	deleted := c.Clone()

	next := s.snap.Clone()
	delete(next.Contexts, name)
	if next.Active == name {
		next.Active = ""
		for len(next.Stack) > 0 {
			top := next.Stack[len(next.Stack)-1]
			next.Stack = next.Stack[:len(next.Stack)-1]
			if _, ok := next.Contexts[top]; ok {
				next.Active = top
				break
			}
		}
	}
	if err := s.commit(next); err != nil {
		return err
	}

	s.hooks.EmitDeleted(deleted)
	return nil
}

// ---------------------------------------------------------------------------
// Switching
// ---------------------------------------------------------------------------

// Switch makes name the active context. The stack is not touched.
func (s *Store) Switch(name string) (*models.Context, error) {
	c, ok := s.snap.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("store.Switch %q: %w", name, ErrNotFound)
	}

	next := s.snap.Clone()
	next.Active = name
	if err := s.commit(next); err != nil {
		return nil, err
	}

	cp := c.Clone()
	s.hooks.EmitSwitched(cp)
	return cp, nil
}

// Push saves the current active context on the stack, then switches to name.
func (s *Store) Push(name string) (*models.Context, error) {
	c, ok := s.snap.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("store.Push %q: %w", name, ErrNotFound)
	}

	next := s.snap.Clone()
	if next.Active != "" {
		next.Stack = append(next.Stack, next.Active)
	}
	next.Active = name
	if err := s.commit(next); err != nil {
		return nil, err
	}

	cp := c.Clone()
	s.hooks.EmitSwitched(cp)
	return cp, nil
}

// Pop switches back to the most recently pushed context. Popping an entry
// whose context was deleted is an error and leaves the stack unchanged;
// recover with ClearStack or by recreating the context.
func (s *Store) Pop() (*models.Context, error) {
	if len(s.snap.Stack) == 0 {
		return nil, fmt.Errorf("store.Pop: %w", ErrEmptyStack)
	}
	name := s.snap.Stack[len(s.snap.Stack)-1]
	c, ok := s.snap.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("store.Pop %q: %w", name, ErrNotFound)
	}

	next := s.snap.Clone()
	next.Stack = next.Stack[:len(next.Stack)-1]
	next.Active = name
	if err := s.commit(next); err != nil {
		return nil, err
	}

	cp := c.Clone()
	s.hooks.EmitSwitched(cp)
	return cp, nil
}

// StackNames returns a copy of the switch stack, top of stack last.
func (s *Store) StackNames() []string {
	return append([]string(nil), s.snap.Stack...)
}

// ClearStack empties the switch stack. The active context is unchanged.
func (s *Store) ClearStack() error {
	next := s.snap.Clone()
	next.Stack = nil
	return s.commit(next)
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// SetState updates the state of the named context. stateName outside the
// standard set defines a custom state and requires a glyph; a glyph given
// with a standard state overrides its display glyph.
func (s *Store) SetState(name, stateName, glyph string) (*models.Context, error) {
	c, ok := s.snap.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("store.SetState %q: %w", name, ErrNotFound)
	}

	state, std := models.ParseState(stateName)
	switch {
	case std && glyph != "":
		state.Glyph = glyph
	case !std && glyph != "":
		state = models.Custom(stateName, glyph)
	case !std:
		return nil, fmt.Errorf("store.SetState: unknown state %q requires a glyph: %w",
			stateName, ErrValidation)
	}

	old := c.State
	next := s.snap.Clone()
	next.Contexts[name].SetState(state)
	if err := s.commit(next); err != nil {
		return nil, err
	}

	cp := s.snap.Contexts[name].Clone()
	s.hooks.EmitStateChanged(cp, old)
	return cp, nil
}

// AddNote appends a timestamped note to the named context.
func (s *Store) AddNote(name, text string, tags []string) (*models.Note, error) {
	if _, ok := s.snap.Contexts[name]; !ok {
		return nil, fmt.Errorf("store.AddNote %q: %w", name, ErrNotFound)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("store.AddNote: empty note text: %w", ErrValidation)
	}

	next := s.snap.Clone()
	note := next.Contexts[name].AddNote(text, tags)
	if err := s.commit(next); err != nil {
		return nil, err
	}

	noteCopy := *note
	noteCopy.Tags = append([]string(nil), note.Tags...)
	s.hooks.EmitNoteAdded(s.snap.Contexts[name].Clone(), &noteCopy)
	return &noteCopy, nil
}

// ClearNotes removes all notes from the named context.
func (s *Store) ClearNotes(name string) error {
	if _, ok := s.snap.Contexts[name]; !ok {
		return fmt.Errorf("store.ClearNotes %q: %w", name, ErrNotFound)
	}

	next := s.snap.Clone()
	c := next.Contexts[name]
	c.Notes = nil
	c.UpdatedAt = time.Now().UTC()
	return s.commit(next)
}

// SetMeta sets one metadata key on the named context. value must be
// JSON-representable; nil deletes the key.
func (s *Store) SetMeta(name, key string, value any) error {
	if _, ok := s.snap.Contexts[name]; !ok {
		return fmt.Errorf("store.SetMeta %q: %w", name, ErrNotFound)
	}
	if key == "" {
		return fmt.Errorf("store.SetMeta: empty key: %w", ErrValidation)
	}

	next := s.snap.Clone()
	c := next.Contexts[name]
	if value == nil {
		delete(c.Metadata, key)
	} else {
		if c.Metadata == nil {
			c.Metadata = make(map[string]any)
		}
		c.Metadata[key] = value
	}
	c.UpdatedAt = time.Now().UTC()
	return s.commit(next)
}

// ---------------------------------------------------------------------------
// Listing and search
// ---------------------------------------------------------------------------

// Filter narrows List results. All set fields must match (conjunction).
type Filter struct {
	State      string // exact state name
	Tag        string // exact tag membership
	Query      string // case-insensitive substring over name/description/notes
	IncludeAll bool   // include completed and cancelled contexts
	Recent     bool   // order by most recently updated instead of creation order
}

// List returns contexts matching f, in creation order unless f.Recent is set.
// Terminal states (completed, cancelled) are excluded unless f.IncludeAll.
func (s *Store) List(f Filter) []*models.Context {
	queryLower := strings.ToLower(f.Query)

	var out []*models.Context
	for _, c := range s.snap.Contexts {
		if !f.IncludeAll && c.State.IsTerminal() && f.State != c.State.Name {
			continue
		}
		if f.State != "" && c.State.Name != f.State {
			continue
		}
		if f.Tag != "" && !c.HasTag(f.Tag) {
			continue
		}
		if queryLower != "" && !c.Matches(queryLower) {
			continue
		}
		out = append(out, c.Clone())
	}

	if f.Recent {
		sortByRecency(out)
	} else {
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].Name < out[j].Name
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out
}

// Search returns contexts whose name, description, note text, or tags contain
// query (case-insensitive), most recently updated first.
func (s *Store) Search(query string) []*models.Context {
	queryLower := strings.ToLower(query)

	var out []*models.Context
	for _, c := range s.snap.Contexts {
		if c.Matches(queryLower) {
			out = append(out, c.Clone())
		}
	}
	sortByRecency(out)
	return out
}

// sortByRecency orders contexts by UpdatedAt descending, name ascending as
// the stable tie-break.
func sortByRecency(cs []*models.Context) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].UpdatedAt.Equal(cs[j].UpdatedAt) {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].UpdatedAt.After(cs[j].UpdatedAt)
	})
}

// Names returns all context names in no particular order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.snap.Contexts))
	for name := range s.snap.Contexts {
		names = append(names, name)
	}
	return names
}

// Len returns the number of stored contexts.
func (s *Store) Len() int { return len(s.snap.Contexts) }
