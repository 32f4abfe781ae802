package outline

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/gerunddev/orgtree/internal/parser"
)

// Stats counts what a set of documents contains.
type Stats struct {
	Files      int
	Bytes      int64
	Headlines  int
	MaxDepth   int
	Open       int // headlines with an open TODO keyword
	Closed     int // headlines with a done keyword
	Properties int
	Paragraphs int
	TextLines  int
	Lists      int
	Items      int
	Blocks     map[parser.BlockType]int
}

// Collect counts the elements of root. todo and done are the open and
// closed TODO keywords.
func Collect(root *parser.Root, todo, done []string) Stats {
	s := Stats{Files: 1, Blocks: make(map[parser.BlockType]int)}
	keywords := append(append([]string{}, todo...), done...)
	isDone := make(map[string]bool, len(done))
	for _, d := range done {
		isDone[d] = true
	}

	s.Properties += len(root.Properties)
	var list func(l *parser.List)
	list = func(l *parser.List) {
		s.Lists++
		for _, it := range l.Items {
			s.Items++
			if it.Sub != nil {
				list(it.Sub)
			}
		}
	}
	var walk func(body []parser.Element)
	walk = func(body []parser.Element) {
		for _, e := range body {
			switch e := e.(type) {
			case *parser.Node:
				s.Headlines++
				s.Properties += len(e.Properties)
				if lvl := e.Level(); lvl > s.MaxDepth {
					s.MaxDepth = lvl
				}
				if kw := parser.ParseHeadline(e.Headline, keywords).Keyword; kw != "" {
					if isDone[kw] {
						s.Closed++
					} else {
						s.Open++
					}
				}
				walk(e.Body)
			case *parser.Text:
				s.Paragraphs++
				s.TextLines += len(e.Lines)
			case *parser.List:
				list(e)
			case *parser.Block:
				s.Blocks[e.Type]++
			}
		}
	}
	walk(root.Body)
	return s
}

// Add folds o into s.
func (s *Stats) Add(o Stats) {
	s.Files += o.Files
	s.Bytes += o.Bytes
	s.Headlines += o.Headlines
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
	s.Open += o.Open
	s.Closed += o.Closed
	s.Properties += o.Properties
	s.Paragraphs += o.Paragraphs
	s.TextLines += o.TextLines
	s.Lists += o.Lists
	s.Items += o.Items
	if s.Blocks == nil {
		s.Blocks = make(map[parser.BlockType]int)
	}
	for k, v := range o.Blocks {
		s.Blocks[k] += v
	}
}

// Format writes a human readable summary.
func (s Stats) Format(w io.Writer) error {
	row := func(label string, n int) string {
		return fmt.Sprintf("%-12s %s\n", label, humanize.Comma(int64(n)))
	}
	out := row("files", s.Files) +
		fmt.Sprintf("%-12s %s\n", "size", humanize.Bytes(uint64(s.Bytes))) +
		row("headlines", s.Headlines) +
		row("max depth", s.MaxDepth) +
		row("open tasks", s.Open) +
		row("done tasks", s.Closed) +
		row("properties", s.Properties) +
		row("paragraphs", s.Paragraphs) +
		row("text lines", s.TextLines) +
		row("lists", s.Lists) +
		row("list items", s.Items)

	types := make([]string, 0, len(s.Blocks))
	for t := range s.Blocks {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		out += row("blocks "+t, s.Blocks[parser.BlockType(t)])
	}

	_, err := io.WriteString(w, out)
	return err
}
