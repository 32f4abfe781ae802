package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gerunddev/orgtree/internal/styles"
	"github.com/gerunddev/orgtree/internal/tangle"
)

func (a *app) tangleCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tangle FILE...",
		Short: "Write source blocks to the files named by :tangle",
		Long: `Write the SRC blocks carrying a :tangle header argument to the files they
name. Header arguments are inherited from "header-args" properties of the
document and enclosing headlines. Relative paths resolve against the
directory of the org file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				p := a.parseFile(path)
				if p.err != nil {
					return p.err
				}
				targets, err := tangle.Collect(p.root, filepath.Dir(path))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := tangle.Write(targets, dryRun); err != nil {
					return err
				}
				for _, t := range targets {
					a.log.Tangled(t.Path, len(t.Blocks), dryRun)
					verb := "✓ wrote"
					if dryRun {
						verb = "would write"
					}
					fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("%s %s (%d block(s))", verb, t.Path, len(t.Blocks))))
				}
				if len(targets) == 0 {
					fmt.Fprintln(out, styles.DimStyle.Render(fmt.Sprintf("  %s: nothing to tangle", path)))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report the targets without writing them")
	return cmd
}
