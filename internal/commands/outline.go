package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/orgtree/internal/outline"
	"github.com/gerunddev/orgtree/internal/styles"
	"github.com/gerunddev/orgtree/internal/tui"
)

// highlight paints the bytes of s at the matched offsets.
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseEntries parses the files matched by patterns and flattens their
// headlines. Files that fail to parse are logged and skipped.
func (a *app) parseEntries(patterns []string) ([]outline.Entry, error) {
	files, err := a.expand(patterns)
	if err != nil {
		return nil, err
	}
	var entries []outline.Entry
	for _, p := range a.parseAll(files) {
		if p.err != nil {
			continue
		}
		entries = append(entries, outline.Flatten(p.root, a.cfg.Keywords())...)
	}
	return entries, nil
}

func (a *app) findCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find QUERY [PATTERN...]",
		Short: "Fuzzy find headlines",
		Long: `Fuzzy match QUERY against "Parent / Child" headline paths in the files
matched by the patterns (default: the current directory) and print the best
matches first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args[1:]
			if len(patterns) == 0 {
				patterns = []string{"."}
			}
			entries, err := a.parseEntries(patterns)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color := a.color(out)
			matches := outline.Find(entries, args[0])
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			for _, m := range matches {
				label := m.Label()
				if color {
					label = highlight(label, m.MatchedIndexes)
				}
				fmt.Fprintf(out, "%s:%d: %s\n", m.Path, m.Line, label)
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.DimStyle.Render("no matches"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum matches to print (0 for all)")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats PATTERN...",
		Short: "Count headlines, tasks, lists and blocks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.expand(args)
			if err != nil {
				return err
			}

			var total outline.Stats
			failed := 0
			for _, p := range a.parseAll(files) {
				if p.err != nil {
					failed++
					continue
				}
				s := outline.Collect(p.root, a.cfg.TodoKeywords, a.cfg.DoneKeywords)
				s.Bytes = p.size
				total.Add(s)
			}

			out := cmd.OutOrStdout()
			if err := total.Format(out); err != nil {
				return err
			}
			if failed > 0 {
				fmt.Fprintln(out, styles.WarningStyle.Render(fmt.Sprintf("%d file(s) failed to parse", failed)))
			}
			return nil
		},
	}
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse FILE",
		Short: "Browse the headlines of a file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.parseFile(args[0])
			if p.err != nil {
				return p.err
			}
			entries := outline.Flatten(p.root, a.cfg.Keywords())
			if len(entries) == 0 {
				return fmt.Errorf("%s has no headlines", args[0])
			}
			preview := tui.MarkdownPreview(a.idMap(cmd.Context()), a.convertOptions())
			return tui.Browse(args[0], entries, preview)
		},
	}
}
