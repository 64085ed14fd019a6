// Package statecmd implements the `ctx set-state` command.
package statecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/models"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx set-state`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	emoji   string
	context string
}

// New creates the set-state command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}

	names := make([]string, len(models.StandardStates))
	for i, s := range models.StandardStates {
		names[i] = s.Name
	}

	c.cmd = &cobra.Command{
		Use:   "set-state <state>",
		Short: "Set the state of a context (default: the active one)",
		Long: "Set the state of a context. Standard states: " +
			strings.Join(names, ", ") +
			".\nAny other name defines a custom state and requires --emoji.",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.emoji, "emoji", "e", "", "Display glyph (required for custom states)")
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

	updated, err := svc.Store().SetState(name, args[0], c.emoji)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n",
		updated.State.Glyph, updated.Name, updated.State.Name)
	return nil
}
