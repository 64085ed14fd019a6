// Package mcp provides the stdio MCP server exposing context tools for coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/ctxtrack/internal/buildinfo"
	"github.com/go-ports/ctxtrack/internal/models"
	"github.com/go-ports/ctxtrack/internal/service"
	"github.com/go-ports/ctxtrack/internal/store"
)

const statusDescription = `Get the active work context: its state, description, tags, and recent notes. Call this at session start so your work lands in the right context. Use ctx_list to see every context.` //nolint:lll

const noteDescription = `Append a timestamped note to a context. Use this to record progress, decisions, and findings as you work — notes are the context's running log and persist across sessions.` //nolint:lll

const setStateDescription = `Set the state of a context. Standard states: active, in-progress, on-hold, in-review, blocked, pending, completed, cancelled. Any other name defines a custom state and requires a glyph.` //nolint:lll

// NewServer creates and registers all context tools on a new MCP server.
// It is intentionally separate from Serve so that tests and other callers can
// obtain a fully configured server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("ctxtrack", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, ctxHome string) error {
	svc, err := service.New(ctxHome, "")
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires all context tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("ctx_status",
		mcp.WithDescription(statusDescription),
		mcp.WithString("name",
			mcp.Description("Context name. Defaults to the active context."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStatus(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("ctx_create",
		mcp.WithDescription("Create a new named work context and make it active."),
		mcp.WithString("name",
			mcp.Description("Unique context name."),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("Free-text description of the work."),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags for filtering."),
			mcp.WithStringItems(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreate(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("ctx_switch",
		mcp.WithDescription("Switch the active context. The switch stack is not touched; use the CLI push/pop for stacked switching."),
		mcp.WithString("name",
			mcp.Description("Context to activate."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSwitch(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("ctx_note",
		mcp.WithDescription(noteDescription),
		mcp.WithString("text",
			mcp.Description("Note text."),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Context name. Defaults to the active context."),
		),
		mcp.WithArray("tags",
			mcp.Description("Note tags."),
			mcp.WithStringItems(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNote(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("ctx_set_state",
		mcp.WithDescription(setStateDescription),
		mcp.WithString("state",
			mcp.Description("State name."),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Context name. Defaults to the active context."),
		),
		mcp.WithString("glyph",
			mcp.Description("Display glyph; required for custom states."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSetState(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("ctx_search",
		mcp.WithDescription("Search contexts by substring over name, description, notes, and tags. Most recently updated first."),
		mcp.WithString("query",
			mcp.Description("Search terms."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearch(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("ctx_list",
		mcp.WithDescription("List contexts. Completed and cancelled contexts are hidden unless include_all is set."),
		mcp.WithString("state",
			mcp.Description("Filter by exact state name."),
		),
		mcp.WithString("tag",
			mcp.Description("Filter by tag."),
		),
		mcp.WithBoolean("include_all",
			mcp.Description("Include completed and cancelled contexts."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

// resolveName returns the explicit name argument or falls back to the active
// context.
func resolveName(svc *service.Service, req mcp.CallToolRequest) (string, error) {
	if name := req.GetString("name", ""); name != "" {
		return name, nil
	}
	if active := svc.Store().ActiveName(); active != "" {
		return active, nil
	}
	return "", fmt.Errorf("no active context; pass a name")
}

func handleStatus(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := resolveName(svc, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := svc.Store().Get(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(contextPayload(c, svc.Store().ActiveName()))
}

func handleCreate(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	c, err := svc.Store().Create(
		name,
		req.GetString("description", ""),
		req.GetStringSlice("tags", nil),
		nil,
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(contextPayload(c, svc.Store().ActiveName()))
}

func handleSwitch(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := svc.Store().Switch(req.GetString("name", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(contextPayload(c, svc.Store().ActiveName()))
}

func handleNote(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := resolveName(svc, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := svc.Store().AddNote(name,
		req.GetString("text", ""),
		req.GetStringSlice("tags", nil),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"context":    name,
		"text":       note.Text,
		"tags":       note.Tags,
		"created_at": note.CreatedAt,
	})
}

func handleSetState(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := resolveName(svc, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := svc.Store().SetState(name,
		req.GetString("state", ""),
		req.GetString("glyph", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(contextPayload(c, svc.Store().ActiveName()))
}

func handleSearch(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	results := svc.Store().Search(query)

	clean := make([]map[string]any, 0, len(results))
	for _, c := range results {
		clean = append(clean, summaryPayload(c))
	}
	return jsonResult(map[string]any{
		"total":    len(clean),
		"contexts": clean,
	})
}

func handleList(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results := svc.Store().List(store.Filter{
		State:      req.GetString("state", ""),
		Tag:        req.GetString("tag", ""),
		IncludeAll: req.GetBool("include_all", false),
	})

	clean := make([]map[string]any, 0, len(results))
	for _, c := range results {
		clean = append(clean, summaryPayload(c))
	}
	return jsonResult(map[string]any{
		"total":    len(clean),
		"active":   svc.Store().ActiveName(),
		"contexts": clean,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// contextPayload is the full tool response form of a context.
func contextPayload(c *models.Context, activeName string) map[string]any {
	notes := make([]map[string]any, 0, len(c.Notes))
	for _, n := range c.RecentNotes(10) {
		notes = append(notes, map[string]any{
			"text":       n.Text,
			"tags":       n.Tags,
			"created_at": n.CreatedAt,
		})
	}
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"state":       c.State.Name,
		"glyph":       c.State.Glyph,
		"tags":        c.Tags,
		"active":      c.Name == activeName,
		"note_count":  len(c.Notes),
		"notes":       notes,
		"updated_at":  c.UpdatedAt,
	}
}

// summaryPayload is the abbreviated list/search response form.
func summaryPayload(c *models.Context) map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"state":       c.State.Name,
		"glyph":       c.State.Glyph,
		"tags":        c.Tags,
		"note_count":  len(c.Notes),
		"updated_at":  c.UpdatedAt,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
