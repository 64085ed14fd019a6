// Package shared holds the context passed to all CLI commands.
package shared

import "strings"

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// CtxHome overrides the ctx home directory.
	// When empty, resolution falls through to CTX_HOME env var → persisted config → ~/.ctx.
	CtxHome string

	// Backend overrides the configured storage backend ("json" or "sqlite").
	Backend string
}

// SplitCSV splits a comma-separated flag value into trimmed non-empty parts.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
