package parser

// parseText gathers consecutive plain lines into one paragraph.
func (p *parser) parseText() (*Text, error) {
	t := &Text{}
	for p.pos < len(p.lines) {
		cl, err := p.classify(p.pos, Context{})
		if err != nil {
			return nil, err
		}
		if cl.Kind != KindPlain {
			break
		}
		t.Lines = append(t.Lines, cl.Raw)
		p.pos++
	}
	return t, nil
}
