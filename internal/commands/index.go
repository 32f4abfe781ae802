package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gerunddev/orgtree/internal/index"
	"github.com/gerunddev/orgtree/internal/styles"
	"github.com/gerunddev/orgtree/internal/tui"
)

func (a *app) openIndex(ctx context.Context) (*index.Index, error) {
	return index.Open(ctx, a.cfg.IndexPath)
}

// updateIndex indexes the changed files among paths and drops files that
// no longer exist.
func (a *app) updateIndex(ctx context.Context, ix *index.Index, paths []string, status func(string)) (tui.IndexResult, error) {
	start := time.Now()
	var r tui.IndexResult

	var changed []string
	for _, path := range paths {
		need, err := ix.NeedsUpdate(ctx, path)
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}
		if !need {
			r.Skipped++
			a.log.Skipped(path, "unchanged")
			continue
		}
		changed = append(changed, path)
	}

	status(fmt.Sprintf("Parsing %d changed file(s)...", len(changed)))
	for _, p := range a.parseAll(changed) {
		if p.err != nil {
			r.Errors = append(r.Errors, p.err)
			continue
		}
		status("Indexing " + p.path)
		if err := ix.Update(ctx, p.path, p.root, a.cfg.Keywords()); err != nil {
			return r, err
		}
		r.Updated++
	}

	pruned, err := ix.Prune(ctx)
	if err != nil {
		return r, err
	}
	r.Pruned = pruned
	r.Duration = time.Since(start)
	a.log.IndexUpdated(r.Updated, r.Skipped, len(r.Errors), r.Duration)
	return r, nil
}

func (a *app) indexCmd() *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "index [PATTERN...]",
		Short: "Index headlines and IDs of many files",
		Long: `Record the headlines and :ID: properties of the files matched by the
patterns in a SQLite database (index_path). Unchanged files are skipped and
files that no longer exist are dropped.

The index resolves ID links during export and backs "index search" and
"index id".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			files, err := a.expand(args)
			if err != nil {
				return err
			}

			ix, err := a.openIndex(ctx)
			if err != nil {
				return err
			}
			defer ix.Close()

			out := cmd.OutOrStdout()
			work := func(status func(string)) (tui.IndexResult, error) {
				return a.updateIndex(ctx, ix, files, status)
			}

			var r tui.IndexResult
			if progress {
				r, err = tui.RunWithProgress(out, work)
			} else {
				r, err = work(func(string) {})
				fmt.Fprint(out, tui.Summary(r, err))
			}
			for _, e := range r.Errors {
				fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+e.Error()))
			}
			if err != nil {
				if progress {
					return err
				}
				return errReported
			}
			if len(r.Errors) > 0 {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&progress, "progress", "p", false, "show a spinner while indexing")
	cmd.AddCommand(a.indexSearchCmd(), a.indexIDCmd())
	return cmd
}

func printHit(cmd *cobra.Command, h index.Hit) {
	label := h.Title
	if h.Todo != "" {
		label = h.Todo + " " + label
	}
	if len(h.Tags) > 0 {
		label += " " + styles.TagStyle.Render(":"+strings.Join(h.Tags, ":")+":")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s\n", h.Path, h.Line, label)
}

func (a *app) indexSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Find indexed headlines whose title contains TERM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfg.IndexPath); err != nil {
				return fmt.Errorf("no index at %s: run \"orgtree index\" first", a.cfg.IndexPath)
			}
			ix, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			defer ix.Close()

			hits, err := ix.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for _, h := range hits {
				printHit(cmd, h)
			}
			if len(hits) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.DimStyle.Render("no matches"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum results (0 for all)")
	return cmd
}

func (a *app) indexIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "id ID",
		Short: "Show where an org ID is defined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfg.IndexPath); err != nil {
				return fmt.Errorf("no index at %s: run \"orgtree index\" first", a.cfg.IndexPath)
			}
			ix, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			defer ix.Close()

			h, err := ix.LookupID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printHit(cmd, h)
			return nil
		},
	}
}
