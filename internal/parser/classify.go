package parser

import (
	"fmt"
	"strings"
)

// Kind is the syntactic category of a single line.
type Kind int

const (
	KindBlank Kind = iota
	KindHeadline
	KindDrawerOpen
	KindDrawerClose
	KindProperty
	KindBlockOpen
	KindBlockClose
	KindListItem
	KindPlain
)

var kindNames = [...]string{
	KindBlank:       "blank",
	KindHeadline:    "headline",
	KindDrawerOpen:  "drawer-open",
	KindDrawerClose: "drawer-close",
	KindProperty:    "property",
	KindBlockOpen:   "block-open",
	KindBlockClose:  "block-close",
	KindListItem:    "list-item",
	KindPlain:       "plain",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Context is the lookback state the classifier needs.
type Context struct {
	InDrawer bool
	InBlock  bool
	Block    BlockType // type of the open block when InBlock
}

// Class is a classified line. Which fields are set depends on Kind.
type Class struct {
	Kind Kind
	Raw  string

	Level int    // KindHeadline
	Text  string // KindHeadline: whole line; KindListItem: item text; KindPlain: raw line

	Name  string // KindProperty
	Value string // KindProperty

	Block  BlockType // KindBlockOpen
	Params string    // KindBlockOpen

	Marker ListType // KindListItem
	Indent int      // KindListItem and every non-blank line outside blocks and drawers
}

// DefaultTabWidth matches the org-mode default.
const DefaultTabWidth = 8

// Classifier categorises lines. The zero value uses DefaultTabWidth.
type Classifier struct {
	TabWidth int
}

const (
	drawerOpen  = ":PROPERTIES:"
	drawerClose = ":END:"
	beginPrefix = "#+BEGIN_"
	endPrefix   = "#+END_"
)

// Classify returns the category of line given the surrounding context. It
// fails with ErrMalformedDrawer for a line that cannot appear inside a drawer
// and with ErrMalformedHeadline for a star run with no separator. Errors are
// *ParseError values without a line number; the caller knows the position.
func (c Classifier) Classify(line string, ctx Context) (Class, error) {
	cl := Class{Raw: line}

	if ctx.InBlock {
		if isBlockEnd(line, ctx.Block) {
			cl.Kind = KindBlockClose
			return cl, nil
		}
		cl.Kind = KindPlain
		cl.Text = line
		return cl, nil
	}

	trimmed := strings.TrimSpace(line)

	if ctx.InDrawer {
		if strings.EqualFold(trimmed, drawerClose) {
			cl.Kind = KindDrawerClose
			return cl, nil
		}
		if name, value, ok := drawerEntry(trimmed); ok {
			cl.Kind = KindProperty
			cl.Name, cl.Value = name, value
			return cl, nil
		}
		return cl, &ParseError{Err: ErrMalformedDrawer, Detail: fmt.Sprintf("%q is not a property", line)}
	}

	if trimmed == "" {
		cl.Kind = KindBlank
		return cl, nil
	}

	cl.Indent = c.indent(line)

	if line[0] == '*' {
		stars := countLeading(line, '*')
		switch {
		case stars == len(line) || strings.TrimSpace(line[stars:]) == "" && !isSpace(line[stars]):
			return cl, &ParseError{Err: ErrMalformedHeadline, Detail: fmt.Sprintf("%q has no space after its stars", line)}
		case isSpace(line[stars]):
			cl.Kind = KindHeadline
			cl.Level = stars
			cl.Text = line
			return cl, nil
		}
		// "*bold* text" is emphasis, not a headline.
	}

	if strings.EqualFold(trimmed, drawerOpen) {
		cl.Kind = KindDrawerOpen
		return cl, nil
	}

	if hasPrefixFold(trimmed, beginPrefix) {
		name, params := trimmed[len(beginPrefix):], ""
		if i := strings.IndexAny(name, " \t"); i >= 0 {
			name, params = name[:i], name[i+1:]
		}
		if name != "" {
			cl.Kind = KindBlockOpen
			cl.Block = BlockType(strings.ToUpper(name))
			cl.Params = strings.TrimSpace(params)
			return cl, nil
		}
	}

	if name, value, ok := keyword(trimmed); ok {
		cl.Kind = KindProperty
		cl.Name, cl.Value = name, value
		return cl, nil
	}

	if marker, text, ok := listItem(trimmed); ok {
		cl.Kind = KindListItem
		cl.Marker = marker
		cl.Text = text
		return cl, nil
	}

	cl.Kind = KindPlain
	cl.Text = line
	return cl, nil
}

func (c Classifier) tabWidth() int {
	if c.TabWidth <= 0 {
		return DefaultTabWidth
	}
	return c.TabWidth
}

// indent measures leading whitespace in columns.
func (c Classifier) indent(line string) int {
	width := c.tabWidth()
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col += width - col%width
		default:
			return col
		}
	}
	return col
}

// strip removes up to n columns of leading whitespace. A tab that straddles
// column n leaves its excess as spaces.
func (c Classifier) strip(line string, n int) string {
	width := c.tabWidth()
	col := 0
	for i := 0; i < len(line); i++ {
		if col >= n {
			return line[i:]
		}
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col += width - col%width
			if col > n {
				return strings.Repeat(" ", col-n) + line[i+1:]
			}
		default:
			return line[i:]
		}
	}
	return ""
}

func isBlockEnd(line string, typ BlockType) bool {
	trimmed := strings.TrimSpace(line)
	if !hasPrefixFold(trimmed, endPrefix) {
		return false
	}
	return strings.EqualFold(trimmed[len(endPrefix):], string(typ))
}

// drawerEntry parses ":NAME: value" and ":NAME:". The name ends at the first
// colon followed by whitespace or the end of the line, so ":header-args:go:"
// names "header-args:go".
func drawerEntry(s string) (name, value string, ok bool) {
	if len(s) < 3 || s[0] != ':' {
		return "", "", false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != ':' || (i+1 < len(s) && !isSpace(s[i+1])) {
			continue
		}
		name = s[1:i]
		if name == "" || strings.ContainsAny(name, " \t") {
			return "", "", false
		}
		return name, strings.TrimSpace(s[i+1:]), true
	}
	return "", "", false
}

// keyword parses "#+NAME: value".
func keyword(s string) (name, value string, ok bool) {
	if !strings.HasPrefix(s, "#+") {
		return "", "", false
	}
	name, value, found := strings.Cut(s[2:], ":")
	if !found || name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

// listItem parses "- text", "+ text", "1. text" and "1) text". The marker
// must be followed by whitespace or end the line.
func listItem(s string) (ListType, string, bool) {
	var typ ListType
	n := 0
	switch {
	case s[0] == '-':
		typ, n = Dash, 1
	case s[0] == '+':
		typ, n = Plus, 1
	case s[0] >= '0' && s[0] <= '9':
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n == len(s) || (s[n] != '.' && s[n] != ')') {
			return 0, "", false
		}
		typ, n = Numbered, n+1
	default:
		return 0, "", false
	}
	if n < len(s) && s[n] != ' ' && s[n] != '\t' {
		return 0, "", false
	}
	return typ, strings.TrimSpace(s[n:]), true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
