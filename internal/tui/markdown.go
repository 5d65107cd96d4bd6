package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown converts assistant markdown to styled ANSI output at the
// given width. Falls back to raw text if the renderer is unavailable.
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	// glamour adds trailing newlines; trim for inline display.
	return strings.TrimRight(out, "\n")
}
