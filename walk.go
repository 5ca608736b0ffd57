package vcskema

import "iter"

// Visit is one property position reached by Walk.
type Visit struct {
	Path     string
	Name     string
	Property Property
	// Parent is the object holding the property. Consumers may assign
	// Parent[Name] before resuming; the walker then descends into the new
	// value.
	Parent map[string]any
}

// Walk traverses value alongside s depth-first, in property order. Every
// property of every reached object is yielded whether or not the value
// defines it. References are followed through lookup, object items are
// descended per element and other items are not. Enum schemas yield nothing.
//
// A value whose shape contradicts the schema yields a *ShapeError; an
// unknown reference yields an *UnresolvedRefError. Both end the walk.
func Walk(value any, s *Schema, lookup map[string]*Schema) iter.Seq2[Visit, error] {
	return func(yield func(Visit, error) bool) {
		w := &walker{lookup: lookup, yield: yield}
		w.schema(nil, value, s)
	}
}

// WalkFunc calls fn for every visit and stops at the first error.
func WalkFunc(value any, s *Schema, lookup map[string]*Schema, fn func(Visit) error) error {
	for v, err := range Walk(value, s, lookup) {
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

type walker struct {
	lookup map[string]*Schema
	yield  func(Visit, error) bool
}

// Each method reports whether the walk should continue.

func (w *walker) fail(err error) bool {
	w.yield(Visit{}, err)
	return false
}

func (w *walker) schema(at Path, value any, s *Schema) bool {
	if s.IsEnum() {
		return true
	}
	return w.object(at, value, s.props)
}

func (w *walker) object(at Path, value any, props *Properties) bool {
	obj, ok := value.(map[string]any)
	if !ok {
		return w.fail(&ShapeError{Path: at.String(), Want: TypeObject, Got: value})
	}
	for name, p := range props.All() {
		here := at.Field(name)
		if !w.yield(Visit{Path: here.String(), Name: name, Property: p, Parent: obj}, nil) {
			return false
		}
		v, defined := obj[name]
		if !defined {
			continue
		}
		if !w.property(here, v, p) {
			return false
		}
	}
	return true
}

func (w *walker) property(at Path, value any, p Property) bool {
	switch t := p.(type) {
	case *Reference:
		target, ok := w.lookup[t.Ref]
		if !ok {
			return w.fail(&UnresolvedRefError{Path: at.String() + ".$ref", Ref: t.Ref})
		}
		return w.schema(at, value, target)
	case *Object:
		return w.object(at, value, t.Properties)
	case *Array:
		arr, ok := value.([]any)
		if !ok {
			return w.fail(&ShapeError{Path: at.String(), Want: TypeArray, Got: value})
		}
		switch t.Items.(type) {
		case *Reference, *Object:
		default:
			return true
		}
		for i, el := range arr {
			if !w.property(at.Index(i), el, t.Items) {
				return false
			}
		}
	}
	return true
}
