package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/outline"
	"github.com/gerunddev/orgtree/internal/parser"
	"github.com/gerunddev/orgtree/internal/styles"
)

// readRoot parses path, or standard input when path is "-".
func (a *app) readRoot(cmd *cobra.Command, path string) (*parser.Root, error) {
	if path != "-" {
		p := a.parseFile(path)
		return p.root, p.err
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return parser.ParseOrg(string(data), a.parserOptions()...)
}

func (a *app) parseCmd() *cobra.Command {
	var format string
	var headlines bool

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the parsed tree of a file",
		Long: `Print the tree of FILE ("-" reads standard input).

Formats: json, yaml, dump (Go values) and tree (an indented outline).
--headlines limits the tree to headlines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.readRoot(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "tree" {
				opts := a.renderOptions(out)
				opts.HeadlinesOnly = headlines
				return outline.Render(out, root, opts)
			}
			f, err := convert.ParseFormat(format)
			if err != nil {
				return err
			}
			enc := convert.NewEncoder(out, f)
			enc.Color = a.color(out)
			return enc.Encode(root)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml, dump or tree")
	cmd.Flags().BoolVar(&headlines, "headlines", false, "print only headlines in the tree format")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check PATTERN...",
		Short: "Check that files parse",
		Long: `Parse every file matched by the patterns and report the ones that fail.
A pattern is a file, a directory (searched for *.org) or a ** glob.

Exits with status 1 when any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.expand(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, p := range a.parseAll(files) {
				if p.err != nil {
					failed++
					fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+p.err.Error()))
					continue
				}
				if a.verbose {
					fmt.Fprintln(out, styles.SuccessStyle.Render("✓ "+p.path))
				}
			}

			summary := fmt.Sprintf("Checked %d file(s): %d ok, %d failed", len(files), len(files)-failed, failed)
			if failed > 0 {
				fmt.Fprintln(out, styles.ErrorStyle.Render(summary))
				return errReported
			}
			fmt.Fprintln(out, styles.SuccessStyle.Render(summary))
			return nil
		},
	}
}
