// Package createcmd implements the `ctx create` command.
package createcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx create`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	description string
	tags        string
}

// New creates the create command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new context and make it active",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.description, "description", "d", "", "Context description")
	f.StringVarP(&c.tags, "tags", "t", "", "Comma-separated tags")

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

	created, err := svc.Store().Create(args[0], c.description, shared.SplitCSV(c.tags), nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created context %s %s (now active)\n",
		created.State.Glyph, created.Name)
	return nil
}
