package vcskema

// Derived views return new schemas sharing the receiver's id and base URI.
// They operate on the normalized tree, so linked-data properties present in
// the receiver are kept but never injected again.

// Clone returns a deep copy.
func (s *Schema) Clone() *Schema {
	c := &Schema{id: s.id, baseURI: s.baseURI, keywords: copyMap(s.keywords)}
	if s.enum != nil {
		c.enum = s.enum.clone().(*Enum)
	}
	if s.props != nil {
		c.props = s.props.clone()
	}
	return c
}

// Pure drops every required flag and default, recursively.
func (s *Schema) Pure() (*Schema, error) {
	if s.enum != nil {
		return nil, ErrEnumView
	}
	c := s.Clone()
	purify(c.props)
	return c, nil
}

func purify(props *Properties) {
	for _, p := range props.All() {
		purifyProperty(p)
	}
}

func purifyProperty(p Property) {
	a := p.Attributes()
	a.Required = false
	a.Default = nil
	a.HasDefault = false
	switch t := p.(type) {
	case *Object:
		purify(t.Properties)
	case *Array:
		purifyProperty(t.Items)
	}
}

// Only keeps the named top-level properties, in the receiver's order.
// Unknown names are ignored.
func (s *Schema) Only(names ...string) (*Schema, error) {
	if s.enum != nil {
		return nil, ErrEnumView
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	c := s.Clone()
	props := newProperties()
	for name, p := range c.props.All() {
		if keep[name] {
			props.set(name, p)
		}
	}
	c.props = props
	return c, nil
}

// Extend adds or replaces top-level properties. properties uses the raw
// source form ({"name": {"type": "string", "required": true}}).
func (s *Schema) Extend(properties map[string]any) (*Schema, error) {
	if s.enum != nil {
		return nil, ErrEnumView
	}
	added, err := parseProperties(s.id, properties)
	if err != nil {
		return nil, err
	}
	c := s.Clone()
	for name, p := range added.All() {
		c.props.set(name, p)
	}
	return c, nil
}

// Wrap nests the receiver's properties under a single object property.
func (s *Schema) Wrap(name string) (*Schema, error) {
	if s.enum != nil {
		return nil, ErrEnumView
	}
	c := s.Clone()
	wrapped := newProperties()
	wrapped.set(name, &Object{Attrs: Attrs{Keywords: c.keywords}, Properties: c.props})
	c.props = wrapped
	c.keywords = nil
	return c, nil
}
