// Package searchcmd implements the `ctx search` command.
package searchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/format"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx search`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the search command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Search contexts by name, description, notes, and tags",
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

	results := svc.Store().Search(args[0])
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No contexts match %q.\n", args[0])
		return nil
	}
	active := svc.Store().ActiveName()
	for _, c := range results {
		fmt.Fprintln(out, format.ContextLine(c, active))
	}
	return nil
}
