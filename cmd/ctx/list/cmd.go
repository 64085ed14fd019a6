// Package listcmd implements the `ctx list` command.
package listcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/format"
	"github.com/go-ports/ctxtrack/internal/service"
	"github.com/go-ports/ctxtrack/internal/store"
)

// Command implements `ctx list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	all    bool
	state  string
	tag    string
	search string
	recent bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.BoolVarP(&c.all, "all", "a", false, "Include completed and cancelled contexts")
	f.StringVarP(&c.state, "state", "s", "", "Filter by exact state name")
	f.StringVar(&c.tag, "tag", "", "Filter by tag")
	f.StringVar(&c.search, "search", "", "Filter by substring over name/description/notes")
	f.BoolVar(&c.recent, "recent", false, "Order by most recently updated")

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

	contexts := svc.Store().List(store.Filter{
		State:      c.state,
		Tag:        c.tag,
		Query:      c.search,
		IncludeAll: c.all || svc.Config.List.IncludeAll,
		Recent:     c.recent || svc.Config.List.Recent,
	})

	out := cmd.OutOrStdout()
	if len(contexts) == 0 {
		fmt.Fprintln(out, "No contexts found.")
		return nil
	}
	active := svc.Store().ActiveName()
	for _, c := range contexts {
		fmt.Fprintln(out, format.ContextLine(c, active))
	}
	return nil
}
