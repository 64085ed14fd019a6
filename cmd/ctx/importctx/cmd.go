// Package importcmd implements the `ctx import` command.
package importcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	"github.com/go-ports/ctxtrack/internal/service"
)

// Command implements `ctx import`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	overwrite bool
}

// New creates the import command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Import a context record from a JSON file (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.overwrite, "overwrite", false, "Replace an existing context with the same name")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	svc, err := service.New(c.ctx.CtxHome, c.ctx.Backend)
	if err != nil {
		return err
	}
	defer svc.Close()

	imported, err := svc.Store().Import(data, c.overwrite)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported context %s %s (%d notes)\n",
		imported.State.Glyph, imported.Name, len(imported.Notes))
	return nil
}
