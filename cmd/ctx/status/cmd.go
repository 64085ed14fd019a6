// Package statuscmd implements the `ctx status` command.
package statuscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/format"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx status`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	verbose bool
}

// New creates the status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "status [name]",
		Short: "Show a context (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", false, "Show all notes and metadata")
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

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		target, err := svc.Store().Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(out, format.ContextDetail(target, c.verbose))
		return nil
	}

	active := svc.Store().Active()
	if active == nil {
		fmt.Fprintln(out, "No active context. Use 'ctx create <name>' to start one.")
		return nil
	}
	fmt.Fprint(out, format.ContextDetail(active, c.verbose))
	return nil
}
