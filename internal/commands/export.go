package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/index"
)

// idMap loads org ID link targets from the index. A missing index yields
// an empty map.
func (a *app) idMap(ctx context.Context) map[string]string {
	if _, err := os.Stat(a.cfg.IndexPath); err != nil {
		a.log.Debug("no index, ID links keep their IDs", "index", a.cfg.IndexPath)
		return nil
	}
	ix, err := index.Open(ctx, a.cfg.IndexPath)
	if err != nil {
		a.log.Warn("failed to open index", "index", a.cfg.IndexPath, "error", err)
		return nil
	}
	defer ix.Close()

	ids, err := ix.IDMap(ctx)
	if err != nil {
		a.log.Warn("failed to read ids", "index", a.cfg.IndexPath, "error", err)
		return nil
	}
	return ids
}

func (a *app) exportCmd() *cobra.Command {
	var to, outDir string

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Export files to Markdown or HTML",
		Long: `Export org files to Obsidian flavoured Markdown or to HTML.

ID links are resolved to file names through the index (see "orgtree index").
Without --out the result is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ext string
			switch to {
			case "md", "markdown":
				ext = ".md"
			case "html":
				ext = ".html"
			default:
				return fmt.Errorf("unsupported export format '%s': must be md or html", to)
			}

			ids := a.idMap(cmd.Context())
			opts := a.convertOptions()
			for _, path := range args {
				p := a.parseFile(path)
				if p.err != nil {
					return p.err
				}

				var out string
				var err error
				if ext == ".md" {
					out, err = convert.OrgToMarkdown(p.root, ids, opts)
					out += "\n"
				} else {
					out, err = convert.OrgToHTML(p.root, ids, opts)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if outDir == "" {
					fmt.Fprint(cmd.OutOrStdout(), out)
					continue
				}
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", outDir, err)
				}
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				if err := a.rewrite(filepath.Join(outDir, base+ext), out, "exported"); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "md", "export format: md or html")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write exported files to")
	return cmd
}
