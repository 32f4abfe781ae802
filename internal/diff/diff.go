// Package diff shows how a file would change when rewritten.
package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff from before to after, labelled with name.
// It returns "" when the two are equal.
func Unified(name, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(name, name+" (formatted)", before, edits))
}

// Render wraps a unified diff in a markdown diff fence. With color on, the
// fence is rendered with Glamour for terminal output.
func Render(unified string, color bool) string {
	if unified == "" {
		return ""
	}

	// Wrap in markdown diff code fence
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)
	if !color {
		return unified
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return unified
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return unified
	}

	return rendered
}
