// Package notescmd implements the `ctx notes` command.
package notescmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/format"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx notes`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	context string
	limit   int
	reverse bool
	clear   bool
	yes     bool
}

// New creates the notes command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "notes",
		Short: "Show (or clear) the notes of a context",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.context, "context", "c", "", "Context name (default: active)")
	f.IntVarP(&c.limit, "limit", "n", 0, "Show only the most recent N notes")
	f.BoolVarP(&c.reverse, "reverse", "r", false, "Show newest first")
	f.BoolVar(&c.clear, "clear", false, "Remove all notes from the context")
	f.BoolVarP(&c.yes, "yes", "y", false, "Skip the confirmation prompt for --clear")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.CtxHome, c.ctx.Backend)
	if err != nil {
		return err
	}
	defer svc.Close()

	name := c.context
	if name == "" {
		name = svc.Store().ActiveName()
	}
	if name == "" {
		return fmt.Errorf("no active context; pass --context")
	}

	out := cmd.OutOrStdout()

	if c.clear {
		if !c.yes {
			fmt.Fprintf(out, "This clears all notes on %q. Re-run with --yes to confirm.\n", name)
			return nil
		}
		if err := svc.Store().ClearNotes(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared notes on %s\n", name)
		return nil
	}

	target, err := svc.Store().Get(name)
	if err != nil {
		return err
	}
	if len(target.Notes) == 0 {
		fmt.Fprintf(out, "No notes on %s\n", name)
		return nil
	}

	notes := target.Notes
	if c.limit > 0 {
		notes = target.RecentNotes(c.limit)
	}
	fmt.Fprint(out, format.NoteLines(notes, c.reverse))
	return nil
}
