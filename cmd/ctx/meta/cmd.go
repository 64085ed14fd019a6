// Package metacmd implements the `ctx meta` command.
package metacmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx meta`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	context string
	remove  bool
}

// New creates the meta command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "meta <key> [value]",
		Short: "Get or set a metadata key on a context (default: the active one)",
		Long: "Get or set a metadata key on a context. Values are parsed as JSON " +
			"when possible, otherwise stored as plain strings.",
		Args: cobra.RangeArgs(1, 2),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.context, "context", "c", "", "Context name (default: active)")
	f.BoolVar(&c.remove, "delete", false, "Remove the key")

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

	key := args[0]
	out := cmd.OutOrStdout()

	if c.remove {
		if err := svc.Store().SetMeta(name, key, nil); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s from %s\n", key, name)
		return nil
	}

	if len(args) == 1 {
		target, err := svc.Store().Get(name)
		if err != nil {
			return err
		}
		value, ok := target.Metadata[key]
		if !ok {
			return fmt.Errorf("meta: %s has no key %q", name, key)
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("meta: marshal: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	value := parseValue(args[1])
	if err := svc.Store().SetMeta(name, key, value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s on %s\n", key, name)
	return nil
}

// parseValue interprets raw as JSON when it parses, else as a plain string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
