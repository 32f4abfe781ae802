// Package parser turns the lines of an org-mode outline into a tree of
// headline nodes, property drawers, paragraphs, lists and verbatim blocks.
package parser

import (
	"strings"
)

// Element is one item of a Root or Node body. The set of implementations is
// closed: *Node, *Block, *Text and *List.
type Element interface {
	element()
}

// Root is the top of a parsed document.
type Root struct {
	// Path identifies the source for diagnostics. Empty when unknown.
	Path       string
	Properties []Property
	Body       []Element
}

// Node is a headline and everything nested under it.
type Node struct {
	// Headline is the source line verbatim, leading stars included.
	Headline   string
	Line       int // 1-based source line of the headline
	Properties []Property
	Body       []Element
}

// Level is the number of leading stars in the headline.
func (n *Node) Level() int {
	return countLeading(n.Headline, '*')
}

// Heading splits the headline into keyword, priority, title and tags using
// the default TODO keywords.
func (n *Node) Heading() Headline {
	return ParseHeadline(n.Headline, DefaultKeywords)
}

// Property returns the value of the first property with the given name.
// Names compare case-insensitively.
func (n *Node) Property(name string) (string, bool) {
	return lookup(n.Properties, name)
}

// Property returns the value of the first document level property with the
// given name.
func (r *Root) Property(name string) (string, bool) {
	return lookup(r.Properties, name)
}

// ListType is the marker kind shared by every item of a List.
type ListType int

const (
	Dash ListType = iota
	Plus
	Numbered
)

func (t ListType) String() string {
	switch t {
	case Dash:
		return "dash"
	case Plus:
		return "plus"
	case Numbered:
		return "numbered"
	default:
		return "unknown"
	}
}

// List is a homogeneous list. Every item carries the list's marker type.
type List struct {
	Type  ListType
	Items []Item
}

// Item is a list entry: its own text and at most one nested list. Text lines
// after the first are relative to the item's content column, and "" marks a
// blank line inside the item.
type Item struct {
	Text Text
	Sub  *List
}

// Text is a paragraph of contiguous non-blank lines.
type Text struct {
	Lines []string
}

// BlockType names the kind of a #+BEGIN_x block, upper-cased.
type BlockType string

const (
	BlockCode    BlockType = "SRC"
	BlockExample BlockType = "EXAMPLE"
	BlockQuote   BlockType = "QUOTE"
	BlockVerse   BlockType = "VERSE"
	BlockExport  BlockType = "EXPORT"
	BlockComment BlockType = "COMMENT"
)

// Block is a fenced region whose lines are kept exactly as written.
type Block struct {
	Type BlockType
	// Parameters is the remainder of the opening line, e.g. "go :tangle main.go".
	Parameters string
	// Properties are the affiliated keywords written directly above the block.
	Properties []Property
	// Lines excludes the #+BEGIN and #+END lines.
	Lines []string
}

// Language returns the first word of a code block's parameters.
func (b *Block) Language() string {
	if b.Type != BlockCode {
		return ""
	}
	fields := strings.Fields(b.Parameters)
	if len(fields) == 0 || strings.HasPrefix(fields[0], ":") {
		return ""
	}
	return fields[0]
}

// HeaderArgs returns the ":key value" pairs of the block parameters.
func (b *Block) HeaderArgs() map[string]string {
	return ParseHeaderArgs(b.Parameters)
}

// ParseHeaderArgs reads ":key value" pairs out of a parameter string. A key
// with no value maps to "".
func ParseHeaderArgs(params string) map[string]string {
	args := make(map[string]string)
	key := ""
	var value []string
	flush := func() {
		if key != "" {
			args[key] = strings.Join(value, " ")
		}
	}
	for _, f := range strings.Fields(params) {
		if strings.HasPrefix(f, ":") && len(f) > 1 {
			flush()
			key, value = f[1:], nil
			continue
		}
		if key != "" {
			value = append(value, f)
		}
	}
	flush()
	return args
}

// Property is a name/value pair from a drawer or a #+NAME: keyword line.
type Property struct {
	Name    string
	Value   string
	Keyword bool // written as "#+NAME: value" rather than inside a drawer
}

func (*Node) element()  {}
func (*Block) element() {}
func (*Text) element()  {}
func (*List) element()  {}

func lookup(props []Property, name string) (string, bool) {
	for _, p := range props {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// countLeading counts leading occurrences of a character
func countLeading(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}
