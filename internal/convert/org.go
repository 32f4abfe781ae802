package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gerunddev/orgtree/internal/parser"
)

// Org writes root back out in canonical form: properties directly below
// their headline, one blank line between elements, lists indented two
// columns per level and numbered items renumbered from 1. Parsing the result
// yields the same tree apart from headline line numbers.
func Org(root *parser.Root) string {
	w := &orgWriter{}
	w.properties(root.Properties)
	w.body(root.Body)
	return w.String()
}

type orgWriter struct {
	strings.Builder
	pending int // blank lines owed before the next element
}

func (w *orgWriter) line(s string) {
	if w.Len() > 0 {
		for ; w.pending > 0; w.pending-- {
			w.WriteByte('\n')
		}
	}
	w.pending = 0
	w.WriteString(s)
	w.WriteByte('\n')
}

func (w *orgWriter) gap(n int) {
	if n > w.pending {
		w.pending = n
	}
}

// properties writes runs of drawer entries as drawers and runs of keywords
// as #+NAME: lines, keeping their order.
func (w *orgWriter) properties(props []parser.Property) {
	for i := 0; i < len(props); {
		if props[i].Keyword {
			w.line(keywordLine(props[i]))
			i++
			continue
		}
		w.line(":PROPERTIES:")
		for ; i < len(props) && !props[i].Keyword; i++ {
			p := props[i]
			if p.Value == "" {
				w.line(":" + p.Name + ":")
			} else {
				w.line(":" + p.Name + ": " + p.Value)
			}
		}
		w.line(":END:")
	}
	if len(props) > 0 {
		// keeps a trailing keyword run from attaching to a leading block
		w.gap(1)
	}
}

func keywordLine(p parser.Property) string {
	if p.Value == "" {
		return "#+" + p.Name + ":"
	}
	return "#+" + p.Name + ": " + p.Value
}

func (w *orgWriter) body(body []parser.Element) {
	for i, e := range body {
		switch e := e.(type) {
		case *parser.Node:
			w.line(e.Headline)
			w.properties(e.Properties)
			w.body(e.Body)
		case *parser.Text:
			for _, l := range e.Lines {
				w.line(l)
			}
		case *parser.List:
			w.list(e, 0)
		case *parser.Block:
			for _, p := range e.Properties {
				w.line(keywordLine(p))
			}
			open := "#+BEGIN_" + string(e.Type)
			if e.Parameters != "" {
				open += " " + e.Parameters
			}
			w.line(open)
			for _, l := range e.Lines {
				w.line(l)
			}
			w.line("#+END_" + string(e.Type))
		default:
			panic(fmt.Sprintf("convert: unexpected element %T", e))
		}
		w.gap(1)
		if _, ok := e.(*parser.List); ok && i+1 < len(body) && continuesList(body[i+1]) {
			w.gap(2)
		}
	}
}

// continuesList reports whether e, written after a single blank line, would
// be read as part of a preceding list.
func continuesList(e parser.Element) bool {
	switch e := e.(type) {
	case *parser.List:
		return true
	case *parser.Text:
		return len(e.Lines) > 0 && e.Lines[0] != "" && (e.Lines[0][0] == ' ' || e.Lines[0][0] == '\t')
	}
	return false
}

func (w *orgWriter) list(l *parser.List, indent int) {
	pad := strings.Repeat(" ", indent)
	for i, it := range l.Items {
		marker := listMarker(l.Type, i)
		first := ""
		if len(it.Text.Lines) > 0 {
			first = it.Text.Lines[0]
		}
		if first == "" {
			w.line(pad + marker)
		} else {
			w.line(pad + marker + " " + first)
		}
		inner := indent + len(marker) + 1
		if len(it.Text.Lines) > 1 {
			innerPad := strings.Repeat(" ", inner)
			for _, l := range it.Text.Lines[1:] {
				if l == "" {
					w.line("")
				} else {
					w.line(innerPad + l)
				}
			}
		}
		if it.Sub != nil {
			w.list(it.Sub, inner)
		}
	}
}

func listMarker(t parser.ListType, i int) string {
	switch t {
	case parser.Plus:
		return "+"
	case parser.Numbered:
		return strconv.Itoa(i+1) + "."
	default:
		return "-"
	}
}
