// Package rootcmd wires the root cobra.Command for the ctx CLI binary.
package rootcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/ctxtrack/cmd/ctx/config"
	createcmd "github.com/go-ports/ctxtrack/cmd/ctx/create"
	deletecmd "github.com/go-ports/ctxtrack/cmd/ctx/delete"
	exportcmd "github.com/go-ports/ctxtrack/cmd/ctx/export"
	importcmd "github.com/go-ports/ctxtrack/cmd/ctx/importctx"
	initcmd "github.com/go-ports/ctxtrack/cmd/ctx/init"
	listcmd "github.com/go-ports/ctxtrack/cmd/ctx/list"
	mcpcmd "github.com/go-ports/ctxtrack/cmd/ctx/mcp"
	metacmd "github.com/go-ports/ctxtrack/cmd/ctx/meta"
	notecmd "github.com/go-ports/ctxtrack/cmd/ctx/note"
	notescmd "github.com/go-ports/ctxtrack/cmd/ctx/notes"
	popcmd "github.com/go-ports/ctxtrack/cmd/ctx/pop"
	pushcmd "github.com/go-ports/ctxtrack/cmd/ctx/push"
	searchcmd "github.com/go-ports/ctxtrack/cmd/ctx/search"
	"github.com/go-ports/ctxtrack/cmd/ctx/shared"
	stackcmd "github.com/go-ports/ctxtrack/cmd/ctx/stack"
	statecmd "github.com/go-ports/ctxtrack/cmd/ctx/state"
	statuscmd "github.com/go-ports/ctxtrack/cmd/ctx/status"
	switchcmd "github.com/go-ports/ctxtrack/cmd/ctx/switchctx"
	"github.com/go-ports/ctxtrack/internal/buildinfo"
	"github.com/go-ports/ctxtrack/internal/format"
	"github.com/go-ports/ctxtrack/internal/service"
)

// New creates and returns the root cobra.Command for the ctx CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "ctx",
		Short:         "ctxtrack — named work contexts for developers and agents",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare `ctx` shows the active context, not help.
		RunE: func(cmd *cobra.Command, _ []string) error { return runStatus(cmd, ctx) },
	}

	root.PersistentFlags().StringVar(
		&ctx.CtxHome, "ctx-home", "",
		"Override ctx home directory (default: $CTX_HOME env → persisted config → ~/.ctx)",
	)
	root.PersistentFlags().StringVar(
		&ctx.Backend, "backend", "",
		"Override storage backend: json | sqlite (default: configured backend)",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		createcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		switchcmd.New(ctx).Cmd(),
		statuscmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		statecmd.New(ctx).Cmd(),
		notecmd.New(ctx).Cmd(),
		notescmd.New(ctx).Cmd(),
		metacmd.New(ctx).Cmd(),
		pushcmd.New(ctx).Cmd(),
		popcmd.New(ctx).Cmd(),
		stackcmd.New(ctx).Cmd(),
		searchcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		importcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}

// runStatus renders the active context for a bare `ctx` invocation.
func runStatus(cmd *cobra.Command, ctx *shared.Context) error {
	svc, err := service.New(ctx.CtxHome, ctx.Backend)
	if err != nil {
		return err
	}
	defer svc.Close()

	active := svc.Store().Active()
	if active == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No active context. Use 'ctx create <name>' to start one.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), format.ContextDetail(active, false))
	return nil
}
