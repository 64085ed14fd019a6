// Package stackcmd implements the `ctx stack` command.
package stackcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/format"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx stack`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	clear bool
}

// New creates the stack command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "stack",
		Short: "Show (or clear) the context switch stack",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.clear, "clear", false, "Empty the stack")
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

	out := cmd.OutOrStdout()

	if c.clear {
		if err := svc.Store().ClearStack(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Stack cleared.")
		return nil
	}

	stack := svc.Store().StackNames()
	active := svc.Store().ActiveName()
	if len(stack) == 0 && active == "" {
		fmt.Fprintln(out, "Stack is empty.")
		return nil
	}
	fmt.Fprint(out, format.StackLines(stack, active))
	return nil
}
