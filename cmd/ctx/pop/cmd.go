// Package popcmd implements the `ctx pop` command.
package popcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx pop`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the pop command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "pop",
		Short: "Switch back to the most recently pushed context",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
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

	popped, err := svc.Store().Pop()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Switched back to %s %s\n", popped.State.Glyph, popped.Name)
	return nil
}
