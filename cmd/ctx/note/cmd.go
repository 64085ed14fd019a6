// Package notecmd implements the `ctx note` command.
package notecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx note`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	tags    string
	context string
}

// New creates the note command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "note <text>...",
		Short: "Append a timestamped note to a context (default: the active one)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.tags, "tags", "t", "", "Comma-separated note tags")
	f.StringVarP(&c.context, "context", "c", "", "Context name (default: active)")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
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

	text := strings.Join(args, " ")
	if _, err := svc.Store().AddNote(name, text, shared.SplitCSV(c.tags)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Noted on %s\n", name)
	return nil
}
