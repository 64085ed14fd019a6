// Package format renders contexts, notes, and the switch stack for terminal
// output. Commands print the returned strings via cobra's OutOrStdout.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-ports/ctxtrack/internal/models"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("31"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	stateColors = map[string]lipgloss.Color{
		"active":      lipgloss.Color("39"),
		"in-progress": lipgloss.Color("45"),
		"on-hold":     lipgloss.Color("214"),
		"in-review":   lipgloss.Color("135"),
		"blocked":     lipgloss.Color("196"),
		"pending":     lipgloss.Color("226"),
		"completed":   lipgloss.Color("70"),
		"cancelled":   lipgloss.Color("240"),
	}
)

// stateStyle returns a color style for a state, grey for custom states.
func stateStyle(s models.State) lipgloss.Style {
	color, ok := stateColors[s.Name]
	if !ok {
		color = lipgloss.Color("250")
	}
	return lipgloss.NewStyle().Foreground(color)
}

// timestamp formats a time for display.
func timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// ContextLine renders a one-line summary of a context for listings.
// activeName marks the active context with a marker prefix.
func ContextLine(c *models.Context, activeName string) string {
	marker := "  "
	if c.Name == activeName {
		marker = "* "
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(c.State.Glyph)
	b.WriteString(" ")
	b.WriteString(nameStyle.Render(c.Name))
	b.WriteString(" ")
	b.WriteString(stateStyle(c.State).Render("[" + c.State.Name + "]"))
	if c.Description != "" {
		b.WriteString(" " + c.Description)
	}
	if len(c.Notes) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (%d notes)", len(c.Notes))))
	}
	if len(c.Tags) > 0 {
		b.WriteString(" " + tagStyle.Render("#"+strings.Join(c.Tags, " #")))
	}
	return b.String()
}

// ContextDetail renders the full status view of a context.
// With verbose, all notes and metadata keys are included; otherwise the five
// most recent notes.
func ContextDetail(c *models.Context, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n",
		c.State.Glyph,
		nameStyle.Render(c.Name),
		stateStyle(c.State).Render("["+c.State.Name+"]"))
	if c.Description != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("description:"), c.Description)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("tags:"),
			tagStyle.Render(strings.Join(c.Tags, ", ")))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("created:"),
		dimStyle.Render(timestamp(c.CreatedAt)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("updated:"),
		dimStyle.Render(timestamp(c.UpdatedAt)))

	notes := c.RecentNotes(5)
	if verbose {
		notes = c.Notes
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, "%s\n", labelStyle.Render(
			fmt.Sprintf("notes (%d of %d):", len(notes), len(c.Notes))))
		b.WriteString(NoteLines(notes, false))
	}
	if verbose && len(c.Metadata) > 0 {
		fmt.Fprintf(&b, "%s\n", labelStyle.Render("metadata:"))
		for k, v := range c.Metadata {
			fmt.Fprintf(&b, "  %s: %v\n", k, v)
		}
	}
	return b.String()
}

// NoteLines renders notes one per line, oldest first unless reverse is set.
func NoteLines(notes []models.Note, reverse bool) string {
	ordered := notes
	if reverse {
		ordered = make([]models.Note, len(notes))
		for i, n := range notes {
			ordered[len(notes)-1-i] = n
		}
	}

	var b strings.Builder
	for _, n := range ordered {
		fmt.Fprintf(&b, "  %s %s", dimStyle.Render(timestamp(n.CreatedAt)), n.Text)
		if len(n.Tags) > 0 {
			b.WriteString(" " + tagStyle.Render("#"+strings.Join(n.Tags, " #")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// StackLines renders the switch stack top-first, with the active context on top.
func StackLines(stack []string, activeName string) string {
	var b strings.Builder
	if activeName != "" {
		fmt.Fprintf(&b, "* %s %s\n", nameStyle.Render(activeName), dimStyle.Render("(active)"))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  %s\n", stack[i])
	}
	return b.String()
}
