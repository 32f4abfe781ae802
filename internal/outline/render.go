package outline

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gerunddev/orgtree/internal/parser"
	"github.com/gerunddev/orgtree/internal/styles"
)

// RenderOptions controls Render.
type RenderOptions struct {
	Color bool
	// Width wraps paragraphs; 0 disables wrapping.
	Width        int
	TodoKeywords []string
	DoneKeywords []string
	// HeadlinesOnly skips properties and body content.
	HeadlinesOnly bool
}

func (o RenderOptions) keywords() []string {
	if o.TodoKeywords == nil && o.DoneKeywords == nil {
		return parser.DefaultKeywords
	}
	return append(append([]string{}, o.TodoKeywords...), o.DoneKeywords...)
}

func (o RenderOptions) isDone(kw string) bool {
	if o.DoneKeywords == nil {
		return kw == "DONE"
	}
	for _, d := range o.DoneKeywords {
		if d == kw {
			return true
		}
	}
	return false
}

// Render prints root as an indented outline: each headline indented two
// columns per level below the first, its content two columns further.
func Render(w io.Writer, root *parser.Root, opts RenderOptions) error {
	r := &renderer{opts: opts}
	if root.Path != "" {
		r.println(0, r.paint(styles.TitleStyle, root.Path))
	}
	if !opts.HeadlinesOnly {
		r.properties(0, root.Properties)
	}
	r.body(0, root.Body)
	_, err := w.Write(r.buf.Bytes())
	return err
}

type renderer struct {
	opts RenderOptions
	buf  bytes.Buffer
}

func (r *renderer) paint(style lipgloss.Style, s string) string {
	if !r.opts.Color || s == "" {
		return s
	}
	return style.Render(s)
}

func (r *renderer) println(depth int, s string) {
	r.buf.WriteString(indent.String(s, uint(2*depth)))
	r.buf.WriteByte('\n')
}

func (r *renderer) body(depth int, body []parser.Element) {
	for _, e := range body {
		switch e := e.(type) {
		case *parser.Node:
			r.headline(e)
			if !r.opts.HeadlinesOnly {
				r.properties(e.Level(), e.Properties)
			}
			r.body(e.Level(), e.Body)
		case *parser.Text:
			if !r.opts.HeadlinesOnly {
				r.text(depth, e.Lines)
			}
		case *parser.List:
			if !r.opts.HeadlinesOnly {
				r.list(depth, e)
			}
		case *parser.Block:
			if !r.opts.HeadlinesOnly {
				r.block(depth, e)
			}
		default:
			panic(fmt.Sprintf("outline: unexpected element %T", e))
		}
	}
}

func (r *renderer) headline(n *parser.Node) {
	h := parser.ParseHeadline(n.Headline, r.opts.keywords())
	parts := []string{r.paint(styles.MarkerStyle, strings.Repeat("*", h.Level))}
	if h.Keyword != "" {
		style := styles.TodoStyle
		if r.opts.isDone(h.Keyword) {
			style = styles.DoneStyle
		}
		parts = append(parts, r.paint(style, h.Keyword))
	}
	if h.Priority != "" {
		parts = append(parts, r.paint(styles.PriorityStyle, "[#"+h.Priority+"]"))
	}
	if h.Title != "" {
		parts = append(parts, r.paint(styles.LevelStyle(h.Level), h.Title))
	}
	if len(h.Tags) > 0 {
		parts = append(parts, r.paint(styles.TagStyle, ":"+strings.Join(h.Tags, ":")+":"))
	}
	r.println(h.Level-1, strings.Join(parts, " "))
}

func (r *renderer) properties(depth int, props []parser.Property) {
	for _, p := range props {
		var s string
		if p.Keyword {
			s = "#+" + p.Name + ": " + p.Value
		} else {
			s = ":" + p.Name + ": " + p.Value
		}
		r.println(depth, r.paint(styles.PropertyStyle, strings.TrimRight(s, " ")))
	}
}

// wrap joins lines into one paragraph and wraps it to the width left after
// indenting by depth.
func (r *renderer) wrap(depth int, lines []string) string {
	words := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			words = append(words, t)
		}
	}
	s := strings.Join(words, " ")
	if r.opts.Width <= 0 {
		return s
	}
	width := r.opts.Width - 2*depth
	if width < 20 {
		width = 20
	}
	return wordwrap.String(s, width)
}

func (r *renderer) text(depth int, lines []string) {
	r.println(depth, r.wrap(depth, lines))
}

func (r *renderer) list(depth int, l *parser.List) {
	for i, it := range l.Items {
		marker := "-"
		switch l.Type {
		case parser.Plus:
			marker = "+"
		case parser.Numbered:
			marker = fmt.Sprintf("%d.", i+1)
		}
		pad := len(marker) + 1
		line := r.paint(styles.MarkerStyle, marker)
		if text := r.wrap(depth+1, it.Text.Lines); text != "" {
			// continuation lines hang under the item text
			line += " " + indent.String(text, uint(pad))[pad:]
		}
		r.println(depth, line)
		if it.Sub != nil {
			r.list(depth+1, it.Sub)
		}
	}
}

func (r *renderer) block(depth int, b *parser.Block) {
	open := "#+BEGIN_" + string(b.Type)
	if b.Parameters != "" {
		open += " " + b.Parameters
	}
	r.println(depth, r.paint(styles.DimStyle, open))

	src := strings.Join(b.Lines, "\n")
	if r.opts.Color && b.Type == parser.BlockCode && b.Language() != "" && src != "" {
		var hl bytes.Buffer
		if err := quick.Highlight(&hl, src, b.Language(), "terminal256", "monokai"); err == nil {
			src = strings.TrimRight(hl.String(), "\n")
		}
	}
	if src != "" {
		r.println(depth, src)
	}
	r.println(depth, r.paint(styles.DimStyle, "#+END_"+string(b.Type)))
}
