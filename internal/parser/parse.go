package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Option configures Parse.
type Option func(*options)

type options struct {
	path     string
	tabWidth int
}

// WithPath records the source path on the Root and in errors.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithTabWidth sets how many columns a tab advances indentation.
func WithTabWidth(n int) Option {
	return func(o *options) { o.tabWidth = n }
}

// ParseOrg parses org-mode content into a tree. Lines are split as by
// SplitLines.
func ParseOrg(content string, opts ...Option) (*Root, error) {
	return Parse(SplitLines([]byte(content)), opts...)
}

const utf8BOM = "\xef\xbb\xbf"

// SplitLines breaks content into lines. "\n", "\r\n" and "\r" all end a line,
// a trailing line ending does not start an extra empty line, and a leading
// UTF-8 BOM is dropped.
func SplitLines(content []byte) []string {
	content = bytes.TrimPrefix(content, []byte(utf8BOM))
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			lines = append(lines, string(content[start:i]))
			start = i + 1
		case '\r':
			lines = append(lines, string(content[start:i]))
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, string(content[start:]))
	}
	return lines
}

// Parse builds the tree for lines. On failure it returns a *ParseError and no
// tree.
func Parse(lines []string, opts ...Option) (*Root, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{
		lines: lines,
		path:  o.path,
		cls:   Classifier{TabWidth: o.tabWidth},
		root:  &Root{Path: o.path},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.root, nil
}

type frame struct {
	level int
	node  *Node
}

type parser struct {
	lines []string
	pos   int
	path  string
	cls   Classifier
	root  *Root
	stack []frame
}

func (p *parser) run() error {
	for p.pos < len(p.lines) {
		cl, err := p.classify(p.pos, Context{})
		if err != nil {
			return err
		}

		switch cl.Kind {
		case KindBlank:
			p.pos++

		case KindHeadline:
			p.closeNodes(cl.Level)
			p.stack = append(p.stack, frame{
				level: cl.Level,
				node:  &Node{Headline: cl.Text, Line: p.pos + 1},
			})
			p.pos++

		case KindDrawerOpen:
			props, err := p.parseDrawer()
			if err != nil {
				return err
			}
			p.addProperties(props)

		case KindProperty:
			keywords, err := p.parseKeywords()
			if err != nil {
				return err
			}
			if p.pos < len(p.lines) {
				next, err := p.classify(p.pos, Context{})
				if err != nil {
					return err
				}
				if next.Kind == KindBlockOpen {
					block, err := p.parseBlock(next, keywords)
					if err != nil {
						return err
					}
					p.add(block)
					continue
				}
			}
			p.addProperties(keywords)

		case KindBlockOpen:
			block, err := p.parseBlock(cl, nil)
			if err != nil {
				return err
			}
			p.add(block)

		case KindListItem:
			list, err := p.parseList(cl)
			if err != nil {
				return err
			}
			p.add(list)

		case KindPlain:
			text, err := p.parseText()
			if err != nil {
				return err
			}
			p.add(text)

		default:
			return fmt.Errorf("line %d: unexpected %s line outside a drawer or block", p.pos+1, cl.Kind)
		}
	}
	p.closeNodes(1)
	return nil
}

// closeNodes pops every open node at level or deeper, handing each to its
// parent's body.
func (p *parser) closeNodes(level int) {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if top.level < level {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
		p.add(top.node)
	}
}

// add appends e to the innermost open container.
func (p *parser) add(e Element) {
	if n := len(p.stack); n > 0 {
		node := p.stack[n-1].node
		node.Body = append(node.Body, e)
		return
	}
	p.root.Body = append(p.root.Body, e)
}

func (p *parser) addProperties(props []Property) {
	if n := len(p.stack); n > 0 {
		node := p.stack[n-1].node
		node.Properties = append(node.Properties, props...)
		return
	}
	p.root.Properties = append(p.root.Properties, props...)
}

// parseKeywords consumes a run of "#+NAME: value" lines.
func (p *parser) parseKeywords() ([]Property, error) {
	var props []Property
	for p.pos < len(p.lines) {
		cl, err := p.classify(p.pos, Context{})
		if err != nil {
			return nil, err
		}
		if cl.Kind != KindProperty {
			break
		}
		props = append(props, Property{Name: cl.Name, Value: cl.Value, Keyword: true})
		p.pos++
	}
	return props, nil
}

// classify classifies line i and positions any error at it.
func (p *parser) classify(i int, ctx Context) (Class, error) {
	cl, err := p.cls.Classify(p.lines[i], ctx)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path, pe.Line = p.path, i+1
		}
		return cl, err
	}
	return cl, nil
}

func (p *parser) errorf(i int, kind error, format string, args ...any) error {
	return &ParseError{
		Path:   p.path,
		Line:   i + 1,
		Err:    kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
