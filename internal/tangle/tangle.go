// Package tangle extracts source blocks marked with a :tangle header
// argument into the files they name.
package tangle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"

	"github.com/gerunddev/orgtree/internal/parser"
)

// ErrNoSourcePath is returned for ":tangle yes" in a document without a path
// to derive the file name from.
var ErrNoSourcePath = errors.New("tangle yes needs the document path")

// Target is one output file and the blocks written to it, in document order.
type Target struct {
	Path   string
	Blocks []*parser.Block
	// Mkdirp creates missing parent directories.
	Mkdirp bool
}

// Content is the concatenation of the target's blocks.
func (t Target) Content() string {
	var b strings.Builder
	for i, blk := range t.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, l := range blk.Lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var extensions = map[string]string{
	"bash":       "sh",
	"elisp":      "el",
	"emacs-lisp": "el",
	"javascript": "js",
	"python":     "py",
	"ruby":       "rb",
	"rust":       "rs",
	"shell":      "sh",
	"typescript": "ts",
}

// Collect finds the tangled source blocks of root. Header arguments are
// inherited from "header-args" properties of the document and enclosing
// headlines, then overridden by #+HEADER: lines and the block's own
// parameters. Relative paths resolve against baseDir.
func Collect(root *parser.Root, baseDir string) ([]Target, error) {
	c := &collector{root: root, baseDir: baseDir, index: make(map[string]int)}
	if err := c.walk(root.Body, headerArgs(nil, root.Properties)); err != nil {
		return nil, err
	}
	return c.targets, nil
}

type collector struct {
	root    *parser.Root
	baseDir string
	targets []Target
	index   map[string]int
}

// args holds header arguments; lang holds the language specific ones.
type args struct {
	all  map[string]string
	lang map[string]map[string]string
}

func (c *collector) walk(body []parser.Element, inherited args) error {
	for _, e := range body {
		switch e := e.(type) {
		case *parser.Node:
			if err := c.walk(e.Body, headerArgs(&inherited, e.Properties)); err != nil {
				return err
			}
		case *parser.Block:
			if e.Type != parser.BlockCode {
				continue
			}
			if err := c.add(e, inherited); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *collector) add(b *parser.Block, inherited args) error {
	lang := b.Language()
	merged := make(map[string]string)
	for k, v := range inherited.all {
		merged[k] = v
	}
	for k, v := range inherited.lang[lang] {
		merged[k] = v
	}
	for _, p := range b.Properties {
		if strings.EqualFold(p.Name, "HEADER") {
			for k, v := range parser.ParseHeaderArgs(p.Value) {
				merged[k] = v
			}
		}
	}
	for k, v := range b.HeaderArgs() {
		merged[k] = v
	}

	file := strings.Trim(merged["tangle"], `"`)
	switch file {
	case "", "no":
		return nil
	case "yes":
		if c.root.Path == "" {
			return ErrNoSourcePath
		}
		ext, ok := extensions[lang]
		if !ok {
			ext = lang
		}
		base := strings.TrimSuffix(filepath.Base(c.root.Path), filepath.Ext(c.root.Path))
		file = base + "." + ext
	}

	if strings.HasPrefix(file, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", file, err)
		}
		file = filepath.Join(home, file[2:])
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(c.baseDir, file)
	}
	file = filepath.Clean(file)

	i, ok := c.index[file]
	if !ok {
		i = len(c.targets)
		c.index[file] = i
		c.targets = append(c.targets, Target{Path: file})
	}
	c.targets[i].Blocks = append(c.targets[i].Blocks, b)
	if merged["mkdirp"] == "yes" {
		c.targets[i].Mkdirp = true
	}
	return nil
}

// headerArgs layers the header-args properties found in props over parent.
// "header-args" applies to every language, "header-args:go" only to go
// blocks. The document form "#+PROPERTY: header-args ..." is read too.
func headerArgs(parent *args, props []parser.Property) args {
	out := args{all: make(map[string]string), lang: make(map[string]map[string]string)}
	if parent != nil {
		for k, v := range parent.all {
			out.all[k] = v
		}
		for lang, m := range parent.lang {
			out.lang[lang] = make(map[string]string, len(m))
			for k, v := range m {
				out.lang[lang][k] = v
			}
		}
	}

	for _, p := range props {
		name, value := p.Name, p.Value
		if p.Keyword {
			if !strings.EqualFold(name, "PROPERTY") {
				continue
			}
			name, value, _ = strings.Cut(strings.TrimSpace(value), " ")
		}
		lower := strings.ToLower(name)
		switch {
		case lower == "header-args":
			for k, v := range parser.ParseHeaderArgs(value) {
				out.all[k] = v
			}
		case strings.HasPrefix(lower, "header-args:"):
			lang := name[len("header-args:"):]
			if out.lang[lang] == nil {
				out.lang[lang] = make(map[string]string)
			}
			for k, v := range parser.ParseHeaderArgs(value) {
				out.lang[lang][k] = v
			}
		}
	}
	return out
}

// Write writes every target atomically. With dryRun nothing is written but
// missing directories are still reported.
func Write(targets []Target, dryRun bool) error {
	for _, t := range targets {
		dir := filepath.Dir(t.Path)
		if _, err := os.Stat(dir); err != nil {
			if !os.IsNotExist(err) || !t.Mkdirp {
				return fmt.Errorf("cannot tangle %s: %w", t.Path, err)
			}
			if !dryRun {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
		}
		if dryRun {
			continue
		}
		if err := renameio.WriteFile(t.Path, []byte(t.Content()), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Path, err)
		}
	}
	return nil
}
