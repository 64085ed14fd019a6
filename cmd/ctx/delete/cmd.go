// Package deletecmd implements the `ctx delete` command.
package deletecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	yes bool
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a context and all its notes",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Skip the confirmation prompt")
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

	name := args[0]
	out := cmd.OutOrStdout()

	if !c.yes {
		target, err := svc.Store().Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "This deletes context %q and its %d notes. Re-run with --yes to confirm.\n",
			target.Name, len(target.Notes))
		return nil
	}

	if err := svc.Store().Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted context %s\n", name)
	if active := svc.Store().ActiveName(); active != "" {
		fmt.Fprintf(out, "Active context is now %s\n", active)
	}
	return nil
}
