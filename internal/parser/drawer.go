package parser

// parseDrawer consumes a :PROPERTIES: drawer that opens at the current line
// and returns its entries in order.
func (p *parser) parseDrawer() ([]Property, error) {
	open := p.pos
	var props []Property
	for p.pos++; p.pos < len(p.lines); p.pos++ {
		cl, err := p.classify(p.pos, Context{InDrawer: true})
		if err != nil {
			return nil, err
		}
		if cl.Kind == KindDrawerClose {
			p.pos++
			return props, nil
		}
		props = append(props, Property{Name: cl.Name, Value: cl.Value})
	}
	return nil, p.errorf(open, ErrMalformedDrawer, "%s is never closed with %s", drawerOpen, drawerClose)
}
