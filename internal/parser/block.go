package parser

// parseBlock consumes the block opened at the current line. Interior lines
// are copied without classification; only the matching #+END_ closes it.
func (p *parser) parseBlock(open Class, affiliated []Property) (*Block, error) {
	start := p.pos
	b := &Block{
		Type:       open.Block,
		Parameters: open.Params,
		Properties: affiliated,
	}
	ctx := Context{InBlock: true, Block: open.Block}
	for p.pos++; p.pos < len(p.lines); p.pos++ {
		cl, err := p.classify(p.pos, ctx)
		if err != nil {
			return nil, err
		}
		if cl.Kind == KindBlockClose {
			p.pos++
			return b, nil
		}
		b.Lines = append(b.Lines, p.lines[p.pos])
	}
	return nil, p.errorf(start, ErrUnterminatedBlock, "%s%s has no matching %s%s",
		beginPrefix, open.Block, endPrefix, open.Block)
}
