package parser

import (
	"strings"
)

// parseList consumes a list whose first item is the current line. The list
// continues while items share first's indentation and marker type; anything
// indented deeper belongs to the latest item.
func (p *parser) parseList(first Class) (*List, error) {
	list := &List{Type: first.Marker}
	cl := first
	for {
		item := Item{Text: Text{Lines: []string{cl.Text}}}
		itemLine := p.pos
		p.pos++
		if err := p.parseItem(&item, first.Indent, itemLine); err != nil {
			return nil, err
		}
		p.dedent(item.Text.Lines[1:], cl.Indent+markerWidth(cl.Raw)+1)
		list.Items = append(list.Items, item)

		i := p.nextInList()
		if i >= len(p.lines) {
			return list, nil
		}
		next, err := p.classify(i, Context{})
		if err != nil {
			return nil, err
		}
		if next.Kind != KindListItem || next.Indent != first.Indent || next.Marker != list.Type {
			return list, nil
		}
		p.pos = i
		cl = next
	}
}

// parseItem consumes the lines indented deeper than the item's marker: more
// text for the item, then at most one nested list. Text lines are appended
// raw, with "" standing for a blank line between two of them.
func (p *parser) parseItem(item *Item, indent, itemLine int) error {
	subIndent := -1
	for {
		i := p.nextInList()
		if i >= len(p.lines) {
			return nil
		}
		cl, err := p.classify(i, Context{})
		if err != nil {
			return err
		}
		if cl.Indent <= indent {
			return nil
		}
		gap := i > p.pos
		p.pos = i

		if item.Sub != nil {
			switch {
			case cl.Kind != KindListItem:
				return p.errorf(i, ErrInconsistentListNesting,
					"text follows the nested list of the item at line %d", itemLine+1)
			case cl.Indent < subIndent:
				return p.errorf(i, ErrInconsistentListNesting,
					"item at column %d is deeper than its parent at column %d but shallower than its siblings at column %d",
					cl.Indent, indent, subIndent)
			default:
				return p.errorf(i, ErrInconsistentListNesting,
					"the item at line %d already has a nested list", itemLine+1)
			}
		}

		if cl.Kind == KindListItem {
			sub, err := p.parseList(cl)
			if err != nil {
				return err
			}
			item.Sub, subIndent = sub, cl.Indent
			continue
		}

		if gap {
			item.Text.Lines = append(item.Text.Lines, "")
		}
		if cl.Kind == KindBlockOpen {
			if err := p.itemBlock(item, cl); err != nil {
				return err
			}
			continue
		}
		item.Text.Lines = append(item.Text.Lines, cl.Raw)
		p.pos++
	}
}

// itemBlock consumes a block opened inside a list item. Every line up to the
// matching close belongs to the item, blank or dedented ones included.
func (p *parser) itemBlock(item *Item, open Class) error {
	start := p.pos
	ctx := Context{InBlock: true, Block: open.Block}
	item.Text.Lines = append(item.Text.Lines, open.Raw)
	for p.pos++; p.pos < len(p.lines); p.pos++ {
		cl, err := p.classify(p.pos, ctx)
		if err != nil {
			return err
		}
		item.Text.Lines = append(item.Text.Lines, cl.Raw)
		if cl.Kind == KindBlockClose {
			p.pos++
			return nil
		}
	}
	return p.errorf(start, ErrUnterminatedBlock, "%s%s has no matching %s%s",
		beginPrefix, open.Block, endPrefix, open.Block)
}

// dedent strips an item's content column from its continuation lines. A line
// indented less than content lowers the column for all of them so relative
// indentation survives.
func (p *parser) dedent(lines []string, content int) {
	col := content
	for _, l := range lines {
		if !isBlank(l) {
			col = min(col, p.cls.indent(l))
		}
	}
	for i, l := range lines {
		lines[i] = p.cls.strip(l, col)
	}
}

// markerWidth is the length of the list marker that opens raw.
func markerWidth(raw string) int {
	s := strings.TrimLeft(raw, " \t")
	if n := strings.IndexAny(s, " \t"); n >= 0 {
		return n
	}
	return len(s)
}

// nextInList returns the line that would continue a list: the current line,
// or the one after a single blank line. Two or more blank lines end the list,
// reported as len(p.lines).
func (p *parser) nextInList() int {
	i := p.pos
	if i < len(p.lines) && isBlank(p.lines[i]) {
		i++
		if i < len(p.lines) && isBlank(p.lines[i]) {
			return len(p.lines)
		}
	}
	return i
}
