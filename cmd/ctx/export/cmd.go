// Package exportcmd implements the `ctx export` command.
package exportcmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yalp/jsonpath"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	output string
	query  string
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export [name]",
		Short: "Export a context record as JSON (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVarP(&c.output, "output", "o", "", "Write to a file instead of stdout")
	f.StringVarP(&c.query, "query", "q", "", "Extract a JSONPath expression from the record (e.g. $.state.name)")

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

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		name = svc.Store().ActiveName()
	}
	if name == "" {
		return fmt.Errorf("no active context; pass a name")
	}

	record, err := svc.Store().Export(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal: %w", err)
	}

	if c.query != "" {
		// JSONPath operates on the generic JSON form of the record.
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		result, err := jsonpath.Read(doc, c.query)
		if err != nil {
			return fmt.Errorf("export: query %q: %w", c.query, err)
		}
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("export: marshal query result: %w", err)
		}
	}

	if c.output != "" {
		if err := os.WriteFile(c.output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", name, c.output)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
