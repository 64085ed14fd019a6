// Package e2e_test contains end-to-end tests that exercise the full ctx CLI
// by importing the root command and running it in-process with a temporary
// ctx home. Output is captured via cobra's SetOut so tests can run
// concurrently without affecting os.Stdout.
package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/ctxtrack/cmd/ctx/root"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with the provided args and returns the
// captured stdout output along with any execution error.
func runCmd(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return buf.String(), execErr
}

// run is runCmd for commands expected to succeed.
func run(c *qt.C, home string, args ...string) string {
	c.TB.Helper()
	out, err := runCmd(c.TB, append([]string{"--ctx-home", home}, args...)...)
	c.Assert(err, qt.IsNil, qt.Commentf("args: %v, output: %s", args, out))
	return out
}

// ---------------------------------------------------------------------------
// Help and init
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "ctxtrack")
	c.Assert(out, qt.Contains, "create")
	c.Assert(out, qt.Contains, "switch")
}

func TestInit_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out := run(c, home, "init")
	c.Assert(out, qt.Contains, "Context home initialized")
	c.Assert(out, qt.Contains, home)
}

// ---------------------------------------------------------------------------
// Create, status, list
// ---------------------------------------------------------------------------

func TestCreateAndStatus_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	out := run(c, home, "create", "payments", "-d", "refactor the payments flow", "-t", "backend,go")
	c.Assert(out, qt.Contains, "Created context")
	c.Assert(out, qt.Contains, "payments")

	out = run(c, home, "status")
	c.Assert(out, qt.Contains, "payments")
	c.Assert(out, qt.Contains, "[active]")
	c.Assert(out, qt.Contains, "refactor the payments flow")
}

func TestCreate_DuplicateFails(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")
	_, err := runCmd(t, "--ctx-home", home, "create", "alpha")
	c.Assert(err, qt.IsNotNil)
}

func TestBareInvocation_ShowsActiveContext(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	out := run(c, home)
	c.Assert(out, qt.Contains, "No active context")

	run(c, home, "create", "alpha")
	out = run(c, home)
	c.Assert(out, qt.Contains, "alpha")
}

func TestList_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha", "-t", "backend")
	run(c, home, "create", "beta")
	run(c, home, "create", "done")
	run(c, home, "set-state", "completed", "-c", "done")

	out := run(c, home, "list")
	c.Assert(out, qt.Contains, "alpha")
	c.Assert(out, qt.Contains, "beta")
	c.Assert(out, qt.Not(qt.Contains), "done")

	out = run(c, home, "list", "--all")
	c.Assert(out, qt.Contains, "done")

	out = run(c, home, "list", "--tag", "backend")
	c.Assert(out, qt.Contains, "alpha")
	c.Assert(out, qt.Not(qt.Contains), "beta")

	out = run(c, home, "list", "-s", "completed")
	c.Assert(out, qt.Contains, "done")
}

// ---------------------------------------------------------------------------
// Notes and state
// ---------------------------------------------------------------------------

func TestNoteFlow_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")
	out := run(c, home, "note", "fixed", "the", "flaky", "test")
	c.Assert(out, qt.Contains, "Noted on alpha")

	run(c, home, "note", "second entry", "-t", "log")

	out = run(c, home, "notes")
	c.Assert(out, qt.Contains, "fixed the flaky test")
	c.Assert(out, qt.Contains, "second entry")
	c.Assert(strings.Index(out, "fixed") < strings.Index(out, "second"), qt.IsTrue)

	out = run(c, home, "notes", "-n", "1")
	c.Assert(out, qt.Not(qt.Contains), "fixed the flaky test")
	c.Assert(out, qt.Contains, "second entry")
}

func TestSetState_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")
	out := run(c, home, "set-state", "in-progress")
	c.Assert(out, qt.Contains, "alpha is now in-progress")

	out = run(c, home, "set-state", "shipping", "-e", "🚀")
	c.Assert(out, qt.Contains, "shipping")

	// Custom state without a glyph is rejected.
	_, err := runCmd(t, "--ctx-home", home, "set-state", "landing")
	c.Assert(err, qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Switch, push, pop, stack
// ---------------------------------------------------------------------------

func TestInterruptionFlow_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")
	run(c, home, "set-state", "in-progress")
	run(c, home, "note", "started")
	run(c, home, "create", "beta")
	run(c, home, "switch", "alpha")

	out := run(c, home, "push", "beta")
	c.Assert(out, qt.Contains, "Pushed alpha")

	out = run(c, home, "stack")
	c.Assert(out, qt.Contains, "beta")
	c.Assert(out, qt.Contains, "(active)")
	c.Assert(out, qt.Contains, "alpha")

	out = run(c, home, "pop")
	c.Assert(out, qt.Contains, "Switched back to")
	c.Assert(out, qt.Contains, "alpha")

	// alpha kept its state and notes across the interruption.
	out = run(c, home, "status")
	c.Assert(out, qt.Contains, "[in-progress]")
	c.Assert(out, qt.Contains, "started")
}

func TestPop_EmptyStackFails(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")
	_, err := runCmd(t, "--ctx-home", home, "pop")
	c.Assert(err, qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDelete_RequiresConfirmation(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")

	out := run(c, home, "delete", "alpha")
	c.Assert(out, qt.Contains, "--yes")

	out = run(c, home, "list", "--all")
	c.Assert(out, qt.Contains, "alpha")

	out = run(c, home, "delete", "alpha", "--yes")
	c.Assert(out, qt.Contains, "Deleted context alpha")

	out = run(c, home, "list")
	c.Assert(out, qt.Contains, "No contexts found")
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func TestSearch_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha", "-d", "payments backend")
	run(c, home, "create", "beta", "-d", "frontend polish")
	run(c, home, "note", "tricky payments edge case", "-c", "beta")

	out := run(c, home, "search", "payments")
	c.Assert(out, qt.Contains, "alpha")
	c.Assert(out, qt.Contains, "beta")

	out = run(c, home, "search", "zzz-nothing")
	c.Assert(out, qt.Contains, "No contexts match")
}

// ---------------------------------------------------------------------------
// Export and import
// ---------------------------------------------------------------------------

func TestExportImport_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha", "-d", "round trip", "-t", "go")
	run(c, home, "note", "first note")

	out := run(c, home, "export", "alpha")
	var record map[string]any
	c.Assert(json.Unmarshal([]byte(out), &record), qt.IsNil)
	c.Assert(record["name"], qt.Equals, "alpha")

	// Export to a file, then import into a fresh home.
	file := filepath.Join(t.TempDir(), "alpha.json")
	run(c, home, "export", "alpha", "-o", file)

	other := t.TempDir()
	out = run(c, other, "import", file)
	c.Assert(out, qt.Contains, "Imported context")
	c.Assert(out, qt.Contains, "alpha")

	out = run(c, other, "status", "alpha")
	c.Assert(out, qt.Contains, "round trip")
	c.Assert(out, qt.Contains, "first note")

	// A second import without --overwrite fails, with --overwrite succeeds.
	_, err := runCmd(t, "--ctx-home", other, "import", file)
	c.Assert(err, qt.IsNotNil)
	run(c, other, "import", file, "--overwrite")
}

func TestExport_JSONPathQuery(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha", "-d", "queried")

	out := run(c, home, "export", "alpha", "-q", "$.description")
	c.Assert(strings.TrimSpace(out), qt.Equals, `"queried"`)
}

func TestImport_FromStdin(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha", "-d", "via stdin")
	out := run(c, home, "export", "alpha")

	other := t.TempDir()
	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetIn(strings.NewReader(out))
	root.SetArgs([]string{"--ctx-home", other, "import", "-"})
	c.Assert(root.ExecuteContext(context.Background()), qt.IsNil)
	c.Assert(buf.String(), qt.Contains, "Imported context")
}

// ---------------------------------------------------------------------------
// Metadata
// ---------------------------------------------------------------------------

func TestMeta_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "create", "alpha")
	out := run(c, home, "meta", "sprint", "2026-08")
	c.Assert(out, qt.Contains, "Set sprint on alpha")

	out = run(c, home, "meta", "sprint")
	c.Assert(out, qt.Contains, "2026-08")

	out = run(c, home, "meta", "sprint", "--delete")
	c.Assert(out, qt.Contains, "Removed sprint from alpha")
}

// ---------------------------------------------------------------------------
// Backends
// ---------------------------------------------------------------------------

func TestSQLiteBackend_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	run(c, home, "--backend", "sqlite", "create", "alpha", "-d", "stored in sqlite")
	run(c, home, "--backend", "sqlite", "note", "persisted")

	out := run(c, home, "--backend", "sqlite", "status")
	c.Assert(out, qt.Contains, "stored in sqlite")
	c.Assert(out, qt.Contains, "persisted")

	// The database file exists; the JSON file does not.
	_, err := os.Stat(filepath.Join(home, "contexts.db"))
	c.Assert(err, qt.IsNil)
	_, err = os.Stat(filepath.Join(home, "contexts.json"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestConfiguredBackend_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("backend: sqlite\n"), 0o644)
	c.Assert(err, qt.IsNil)

	run(c, home, "create", "alpha")
	_, err = os.Stat(filepath.Join(home, "contexts.db"))
	c.Assert(err, qt.IsNil)
}
