package vcskema

// ReferenceIDs lists the ids of every schema reachable from s through "$ref",
// deduplicated, in first-seen depth-first order. Reference cycles terminate
// because an id is never expanded twice.
func ReferenceIDs(s *Schema, lookup map[string]*Schema) ([]string, error) {
	r := &refCollector{lookup: lookup, seen: map[string]bool{}}
	if err := r.schema(s); err != nil {
		return nil, err
	}
	return r.ids, nil
}

type refCollector struct {
	lookup map[string]*Schema
	seen   map[string]bool
	ids    []string
}

func (r *refCollector) schema(s *Schema) error {
	if s.IsEnum() {
		return nil
	}
	return r.properties(s.ID(), s.props)
}

func (r *refCollector) properties(path string, props *Properties) error {
	for name, p := range props.All() {
		if err := r.property(path+"."+name, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *refCollector) property(path string, p Property) error {
	switch t := p.(type) {
	case *Reference:
		target, ok := r.lookup[t.Ref]
		if !ok {
			return &UnresolvedRefError{Path: path + ".$ref", Ref: t.Ref}
		}
		if r.seen[t.Ref] {
			return nil
		}
		r.seen[t.Ref] = true
		r.ids = append(r.ids, t.Ref)
		return r.schema(target)
	case *Object:
		return r.properties(path, t.Properties)
	case *Array:
		// only reference and object items lead anywhere
		switch t.Items.(type) {
		case *Reference, *Object:
			return r.property(path+".items", t.Items)
		}
	}
	return nil
}
