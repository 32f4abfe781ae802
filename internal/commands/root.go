// Package commands implements the orgtree command line.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gerunddev/orgtree/internal/config"
	"github.com/gerunddev/orgtree/internal/convert"
	"github.com/gerunddev/orgtree/internal/logger"
	"github.com/gerunddev/orgtree/internal/outline"
	"github.com/gerunddev/orgtree/internal/parser"
	"github.com/gerunddev/orgtree/internal/styles"
)

// errReported is returned by commands that already printed why they failed.
var errReported = errors.New("failed")

// app holds the state shared by every subcommand.
type app struct {
	version  string
	cfgFile  string
	verbose  bool
	noColor  bool
	cfg      *config.Config
	log      *logger.Logger
	closeLog func()
}

// NewRootCmd builds the orgtree command tree.
func NewRootCmd(version string) *cobra.Command {
	root, _ := newRootCmd(version)
	return root
}

func newRootCmd(version string) (*cobra.Command, *app) {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "orgtree",
		Short: "Parse, check and export org-mode outlines",
		Long: `orgtree parses org-mode files into a tree of headlines, property drawers,
paragraphs, lists and blocks, and builds tools on top of that tree.

Examples:
  orgtree parse notes.org --format yaml
  orgtree check ~/org
  orgtree fmt notes.org --diff
  orgtree export notes.org --to md
  orgtree index ~/org && orgtree index search garden`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default "+config.ConfigPath()+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.parseCmd(),
		a.checkCmd(),
		a.fmtCmd(),
		a.exportCmd(),
		a.findCmd(),
		a.idsCmd(),
		a.tangleCmd(),
		a.indexCmd(),
		a.statsCmd(),
		a.browseCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return root, a
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	root, a := newRootCmd(version)
	if err := a.execute(root); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

// execute runs root and closes the log file whether or not the command failed.
func (a *app) execute(root *cobra.Command) error {
	defer a.close()
	return root.Execute()
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	path := a.cfgFile
	if path == "" {
		path = config.ConfigPath()
	}
	a.cfg, err = config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := log.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = log.DebugLevel
	}

	if a.cfg.LogFile != "" {
		l, closeLog, err := logger.NewFileLogger(a.cfg.LogFile, level)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.log, a.closeLog = l, closeLog
	} else {
		a.log = logger.NewWithLevel(cmd.ErrOrStderr(), level)
	}

	if a.noColor {
		a.cfg.Color = false
	}
	a.log.ConfigLoaded(path, a.cfg.TabWidth, a.cfg.Workers)
	return nil
}

// color reports whether output to w should carry ANSI colors.
func (a *app) color(w io.Writer) bool {
	if !a.cfg.Color {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) parserOptions() []parser.Option {
	return []parser.Option{parser.WithTabWidth(a.cfg.TabWidth)}
}

func (a *app) convertOptions() convert.Options {
	return convert.Options{TodoKeywords: a.cfg.TodoKeywords, DoneKeywords: a.cfg.DoneKeywords}
}

func (a *app) renderOptions(w io.Writer) outline.RenderOptions {
	return outline.RenderOptions{
		Color:        a.color(w),
		Width:        a.cfg.WrapWidth,
		TodoKeywords: a.cfg.TodoKeywords,
		DoneKeywords: a.cfg.DoneKeywords,
	}
}
