package commands

import (
	"fmt"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/diff"
	"github.com/gerunddev/orgtree/internal/styles"
)

// rewrite atomically replaces path with content, keeping its permissions.
func (a *app) rewrite(path, content, reason string) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := renameio.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.log.FileWritten(path, reason)
	return nil
}

func (a *app) fmtCmd() *cobra.Command {
	var write, showDiff bool

	cmd := &cobra.Command{
		Use:   "fmt FILE...",
		Short: "Rewrite files in canonical org form",
		Long: `Print each file in canonical form: a blank line after property runs and
between body elements, lists re-indented and renumbered, block markers
upper-cased.

With --diff print a unified diff instead; with --write replace the files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				before, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				p := a.parseFile(path)
				if p.err != nil {
					return p.err
				}
				after := convert.Org(p.root)

				if showDiff {
					if u := diff.Unified(path, string(before), after); u != "" {
						fmt.Fprint(out, diff.Render(u, a.color(out)))
					}
				}
				if write {
					if string(before) == after {
						a.log.Skipped(path, "already formatted")
						continue
					}
					if err := a.rewrite(path, after, "formatted"); err != nil {
						return err
					}
					continue
				}
				if !showDiff {
					fmt.Fprint(out, after)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the files")
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "show a diff against the canonical form")
	return cmd
}

func (a *app) idsCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "ids FILE...",
		Short: "Give every headline an :ID: property",
		Long: `Add an :ID: drawer property holding a fresh UUID to every headline that
lacks one. Without --write only the count is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				p := a.parseFile(path)
				if p.err != nil {
					return p.err
				}
				n := convert.AssignIDs(p.root)
				if n == 0 {
					a.log.Skipped(path, "every headline has an ID")
					fmt.Fprintln(out, styles.DimStyle.Render(fmt.Sprintf("  %s: nothing to add", path)))
					continue
				}
				if !write {
					fmt.Fprintf(out, "%s: %d ID(s) to add\n", path, n)
					continue
				}
				if err := a.rewrite(path, convert.Org(p.root), "ids added"); err != nil {
					return err
				}
				fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("✓ %s: added %d ID(s)", path, n)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the IDs back to the files")
	return cmd
}
