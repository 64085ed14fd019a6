// Package models defines the core data types for the context tracker.
package models

import (
	"strings"
	"time"
)

// State is a context progress label paired with a display glyph.
// The zero value is not a valid state; use ParseState or Custom.
type State struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// Standard states, in display order.
var (
	StateActive     = State{Name: "active", Glyph: "🔵"}
	StateInProgress = State{Name: "in-progress", Glyph: "💻"}
	StateOnHold     = State{Name: "on-hold", Glyph: "⏸️"}
	StateInReview   = State{Name: "in-review", Glyph: "👀"}
	StateBlocked    = State{Name: "blocked", Glyph: "🚫"}
	StatePending    = State{Name: "pending", Glyph: "⏳"}
	StateCompleted  = State{Name: "completed", Glyph: "✅"}
	StateCancelled  = State{Name: "cancelled", Glyph: "❌"}
)

// StandardStates lists the built-in states in display order.
var StandardStates = []State{
	StateActive, StateInProgress, StateOnHold, StateInReview,
	StateBlocked, StatePending, StateCompleted, StateCancelled,
}

// ParseState resolves a standard state by name.
// Returns false for names outside the standard set.
func ParseState(name string) (State, bool) {
	for _, s := range StandardStates {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
}

// Custom builds a caller-defined state from a name and glyph.
func Custom(name, glyph string) State {
	return State{Name: name, Glyph: glyph}
}

// IsTerminal reports whether the state marks finished work.
// Terminal contexts are hidden from default listings.
func (s State) IsTerminal() bool {
	return s.Name == StateCompleted.Name || s.Name == StateCancelled.Name
}

// Note is a single timestamped entry on a context.
// CreatedAt is set once and never changes.
type Note struct {
	Text      string    `json:"text"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Context is one named unit of tracked work.
// Name is the primary key and immutable after creation.
type Context struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	State       State          `json:"state"`
	Tags        []string       `json:"tags,omitempty"`
	Notes       []Note         `json:"notes,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewContext constructs a Context in the active state with creation and
// update times stamped to now.
func NewContext(name, description string, tags []string) *Context {
	now := time.Now().UTC()
	return &Context{
		Name:        name,
		Description: description,
		State:       StateActive,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddNote appends a note and refreshes UpdatedAt.
func (c *Context) AddNote(text string, tags []string) *Note {
	now := time.Now().UTC()
	c.Notes = append(c.Notes, Note{Text: text, Tags: tags, CreatedAt: now})
	c.UpdatedAt = now
	return &c.Notes[len(c.Notes)-1]
}

// SetState replaces the state and refreshes UpdatedAt.
func (c *Context) SetState(s State) {
	c.State = s
	c.UpdatedAt = time.Now().UTC()
}

// RecentNotes returns up to n of the most recent notes, oldest first.
func (c *Context) RecentNotes(n int) []Note {
	if n <= 0 || len(c.Notes) == 0 {
		return nil
	}
	if n > len(c.Notes) {
		n = len(c.Notes)
	}
	return c.Notes[len(c.Notes)-n:]
}

// Matches reports whether the lowercased query is a substring of the
// context name, description, any note text, or any tag.
func (c *Context) Matches(queryLower string) bool {
	if strings.Contains(strings.ToLower(c.Name), queryLower) ||
		strings.Contains(strings.ToLower(c.Description), queryLower) {
		return true
	}
	for _, n := range c.Notes {
		if strings.Contains(strings.ToLower(n.Text), queryLower) {
			return true
		}
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), queryLower) {
			return true
		}
	}
	return false
}

// HasTag reports exact tag membership.
func (c *Context) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the context.
func (c *Context) Clone() *Context {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	cp.Notes = make([]Note, len(c.Notes))
	for i, n := range c.Notes {
		cp.Notes[i] = n
		cp.Notes[i].Tags = append([]string(nil), n.Tags...)
	}
	cp.Metadata = cloneValueMap(c.Metadata)
	return &cp
}

// Snapshot is the full persisted state: every context, the active pointer,
// and the switch stack (top of stack last).
type Snapshot struct {
	Contexts map[string]*Context `json:"contexts"`
	Active   string              `json:"active,omitempty"`
	Stack    []string            `json:"stack,omitempty"`
}

// NewSnapshot returns an empty snapshot with an initialised contexts map.
func NewSnapshot() *Snapshot {
	return &Snapshot{Contexts: make(map[string]*Context)}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	cp := &Snapshot{
		Contexts: make(map[string]*Context, len(s.Contexts)),
		Active:   s.Active,
		Stack:    append([]string(nil), s.Stack...),
	}
	for name, c := range s.Contexts {
		cp.Contexts[name] = c.Clone()
	}
	return cp
}

// cloneValueMap deep-copies a metadata map of JSON-representable values.
// Nested maps and slices are copied; scalars are value types already.
func cloneValueMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = cloneValue(v)
	}
	return cp
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneValueMap(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneValue(e)
		}
		return cp
	default:
		return v
	}
}
