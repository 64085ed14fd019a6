// Package pushcmd implements the `ctx push` command.
package pushcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx push`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the push command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "push <name>",
		Short: "Push the active context on the stack and switch",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
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

	previous := svc.Store().ActiveName()
	pushed, err := svc.Store().Push(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previous != "" && previous != pushed.Name {
		fmt.Fprintf(out, "Pushed %s, switched to %s %s\n", previous, pushed.State.Glyph, pushed.Name)
	} else {
		fmt.Fprintf(out, "Switched to %s %s\n", pushed.State.Glyph, pushed.Name)
	}
	return nil
}
