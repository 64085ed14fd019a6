package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ctxtrack/internal/models"
)

// ---------------------------------------------------------------------------
// ParseState
// ---------------------------------------------------------------------------

func TestParseState_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name      string
		in        string
		wantGlyph string
		wantOK    bool
	}{
		{"active", "active", "🔵", true},
		{"in-progress", "in-progress", "💻", true},
		{"blocked", "blocked", "🚫", true},
		{"completed", "completed", "✅", true},
		{"unknown name", "shipping", "", false},
		{"empty string", "", "", false},
		{"uppercase is not standard", "Active", "", false},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			s, ok := models.ParseState(tc.in)
			c.Assert(ok, qt.Equals, tc.wantOK)
			if ok {
				c.Assert(s.Name, qt.Equals, tc.in)
				c.Assert(s.Glyph, qt.Equals, tc.wantGlyph)
			}
		})
	}
}

func TestIsTerminal_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Assert(models.StateCompleted.IsTerminal(), qt.IsTrue)
	c.Assert(models.StateCancelled.IsTerminal(), qt.IsTrue)
	c.Assert(models.StateActive.IsTerminal(), qt.IsFalse)
	c.Assert(models.StateBlocked.IsTerminal(), qt.IsFalse)
	c.Assert(models.Custom("shipping", "🚀").IsTerminal(), qt.IsFalse)
}

// ---------------------------------------------------------------------------
// Context
// ---------------------------------------------------------------------------

func TestNewContext_HappyPath(t *testing.T) {
	c := qt.New(t)

	ctx := models.NewContext("alpha", "first context", []string{"go"})
	c.Assert(ctx.Name, qt.Equals, "alpha")
	c.Assert(ctx.Description, qt.Equals, "first context")
	c.Assert(ctx.State, qt.Equals, models.StateActive)
	c.Assert(ctx.Tags, qt.DeepEquals, []string{"go"})
	c.Assert(ctx.Notes, qt.HasLen, 0)
	c.Assert(ctx.CreatedAt.IsZero(), qt.IsFalse)
	c.Assert(ctx.UpdatedAt, qt.Equals, ctx.CreatedAt)
}

func TestAddNote_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("notes accumulate in call order", func(c *qt.C) {
		ctx := models.NewContext("alpha", "", nil)
		ctx.AddNote("first", nil)
		ctx.AddNote("second", []string{"tag"})
		ctx.AddNote("third", nil)

		c.Assert(ctx.Notes, qt.HasLen, 3)
		c.Assert(ctx.Notes[0].Text, qt.Equals, "first")
		c.Assert(ctx.Notes[1].Text, qt.Equals, "second")
		c.Assert(ctx.Notes[1].Tags, qt.DeepEquals, []string{"tag"})
		c.Assert(ctx.Notes[2].Text, qt.Equals, "third")
	})

	c.Run("adding a note refreshes UpdatedAt", func(c *qt.C) {
		ctx := models.NewContext("alpha", "", nil)
		before := ctx.UpdatedAt
		time.Sleep(time.Millisecond)
		note := ctx.AddNote("progress", nil)
		c.Assert(ctx.UpdatedAt.After(before), qt.IsTrue)
		c.Assert(note.CreatedAt, qt.Equals, ctx.UpdatedAt)
	})
}

func TestRecentNotes_HappyPath(t *testing.T) {
	c := qt.New(t)

	ctx := models.NewContext("alpha", "", nil)
	for _, text := range []string{"one", "two", "three", "four"} {
		ctx.AddNote(text, nil)
	}

	recent := ctx.RecentNotes(2)
	c.Assert(recent, qt.HasLen, 2)
	c.Assert(recent[0].Text, qt.Equals, "three")
	c.Assert(recent[1].Text, qt.Equals, "four")

	c.Assert(ctx.RecentNotes(10), qt.HasLen, 4)
	c.Assert(ctx.RecentNotes(0), qt.HasLen, 0)
}

func TestMatches_HappyPath(t *testing.T) {
	c := qt.New(t)

	ctx := models.NewContext("payments-api", "Stripe integration", []string{"backend"})
	ctx.AddNote("webhook retries are flaky", nil)

	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"name substring", "payments", true},
		{"description substring", "stripe", true},
		{"note substring", "flaky", true},
		{"tag substring", "back", true},
		{"no match", "frontend", false},
	}
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(ctx.Matches(tc.query), qt.Equals, tc.want)
		})
	}
}

func TestClone_HappyPath(t *testing.T) {
	c := qt.New(t)

	ctx := models.NewContext("alpha", "desc", []string{"go"})
	ctx.AddNote("note", []string{"t"})
	ctx.Metadata = map[string]any{"sprint": map[string]any{"points": 5.0}}

	cp := ctx.Clone()
	c.Assert(cp, qt.DeepEquals, ctx)

	// Mutating the clone must not leak back into the original.
	cp.Tags[0] = "rust"
	cp.Notes[0].Text = "changed"
	cp.Metadata["sprint"].(map[string]any)["points"] = 8.0
	c.Assert(ctx.Tags[0], qt.Equals, "go")
	c.Assert(ctx.Notes[0].Text, qt.Equals, "note")
	c.Assert(ctx.Metadata["sprint"].(map[string]any)["points"], qt.Equals, 5.0)
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

func TestSnapshotClone_HappyPath(t *testing.T) {
	c := qt.New(t)

	snap := models.NewSnapshot()
	snap.Contexts["alpha"] = models.NewContext("alpha", "", nil)
	snap.Active = "alpha"
	snap.Stack = []string{"beta"}

	cp := snap.Clone()
	c.Assert(cp, qt.DeepEquals, snap)

	cp.Contexts["alpha"].Description = "changed"
	cp.Stack[0] = "gamma"
	c.Assert(snap.Contexts["alpha"].Description, qt.Equals, "")
	c.Assert(snap.Stack[0], qt.Equals, "beta")
}
