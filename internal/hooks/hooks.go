// Package hooks implements the lifecycle hook registry: registered callbacks
// invoked synchronously after a store mutation commits. A failing or panicking
// hook is logged and skipped, never propagated to the caller.
package hooks

import (
	"fmt"
	"log/slog"

	"github.com/go-ports/ctxtrack/internal/models"
)

// Hook receives lifecycle notifications. Implementations get a deep copy of
// the affected context and cannot roll back the underlying mutation.
// Embed NopHook to implement only the events of interest.
type Hook interface {
	Name() string
	ContextCreated(c *models.Context)
	ContextSwitched(c *models.Context)
	ContextDeleted(c *models.Context)
	ContextImported(c *models.Context)
	StateChanged(c *models.Context, old models.State)
	NoteAdded(c *models.Context, n *models.Note)
}

// NopHook is a Hook with no-op handlers for every event.
type NopHook struct{}

func (NopHook) ContextCreated(*models.Context) {}

func (NopHook) ContextSwitched(*models.Context) {}

func (NopHook) ContextDeleted(*models.Context) {}

func (NopHook) ContextImported(*models.Context) {}

func (NopHook) StateChanged(*models.Context, models.State) {}

func (NopHook) NoteAdded(*models.Context, *models.Note) {}

// Registry holds registered hooks and dispatches events to them in
// registration order.
type Registry struct {
	hooks []Hook
}

// NewRegistry returns an empty hook registry.
func NewRegistry() *Registry { return &Registry{} }

// Register appends h to the dispatch list.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int { return len(r.hooks) }

// EmitCreated notifies all hooks that c was created.
func (r *Registry) EmitCreated(c *models.Context) {
	r.each("created", func(h Hook) { h.ContextCreated(c) })
}

// EmitSwitched notifies all hooks that c became active.
func (r *Registry) EmitSwitched(c *models.Context) {
	r.each("switched", func(h Hook) { h.ContextSwitched(c) })
}

// EmitDeleted notifies all hooks that c was deleted.
func (r *Registry) EmitDeleted(c *models.Context) {
	r.each("deleted", func(h Hook) { h.ContextDeleted(c) })
}

// EmitImported notifies all hooks that c was imported.
func (r *Registry) EmitImported(c *models.Context) {
	r.each("imported", func(h Hook) { h.ContextImported(c) })
}

// EmitStateChanged notifies all hooks of a state change on c.
func (r *Registry) EmitStateChanged(c *models.Context, old models.State) {
	r.each("state-changed", func(h Hook) { h.StateChanged(c, old) })
}

// EmitNoteAdded notifies all hooks that n was appended to c.
func (r *Registry) EmitNoteAdded(c *models.Context, n *models.Note) {
	r.each("note-added", func(h Hook) { h.NoteAdded(c, n) })
}

// each invokes fn for every hook, containing panics so one misbehaving hook
// cannot break the mutation that already committed.
func (r *Registry) each(event string, fn func(Hook)) {
	for _, h := range r.hooks {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Warn("hook panicked",
						"hook", h.Name(), "event", event, "err", fmt.Sprint(rec))
				}
			}()
			fn(h)
		}()
	}
}
