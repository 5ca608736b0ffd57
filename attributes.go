package vcskema

import "sort"

// ApplyDefaults fills in declared defaults for properties the object does not
// define and coerces defined values with NormalizeType. Defaults are copied
// before insertion and are themselves descended into. obj is modified in
// place.
func ApplyDefaults(obj any, s *Schema, lookup map[string]*Schema) error {
	return WalkFunc(obj, s, lookup, func(v Visit) error {
		a := v.Property.Attributes()
		cur, defined := v.Parent[v.Name]
		if !defined && a.HasDefault {
			cur, defined = deepCopy(a.Default), true
			v.Parent[v.Name] = cur
		}
		if typ := v.Property.TypeName(); defined && typ != "" {
			v.Parent[v.Name] = NormalizeType(typ, cur)
		}
		return nil
	})
}

// Clean deletes every key the schema does not declare, recursively. Keys are
// visited in lexical order. obj is modified in place.
func Clean(obj any, s *Schema, lookup map[string]*Schema) error {
	c := cleaner{lookup: lookup}
	return c.schema(nil, obj, s)
}

type cleaner struct {
	lookup map[string]*Schema
}

func (c cleaner) schema(at Path, value any, s *Schema) error {
	if s.IsEnum() {
		return nil
	}
	return c.object(at, value, s.props)
}

func (c cleaner) object(at Path, value any, props *Properties) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return &ShapeError{Path: at.String(), Want: TypeObject, Got: value}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p, ok := props.Get(k)
		if !ok {
			delete(obj, k)
			continue
		}
		if err := c.property(at.Field(k), obj[k], p); err != nil {
			return err
		}
	}
	return nil
}

func (c cleaner) property(at Path, value any, p Property) error {
	switch t := p.(type) {
	case *Reference:
		target, ok := c.lookup[t.Ref]
		if !ok {
			return &UnresolvedRefError{Path: at.String() + ".$ref", Ref: t.Ref}
		}
		return c.schema(at, value, target)
	case *Object:
		return c.object(at, value, t.Properties)
	case *Array:
		arr, ok := value.([]any)
		if !ok {
			return &ShapeError{Path: at.String(), Want: TypeArray, Got: value}
		}
		switch t.Items.(type) {
		case *Reference, *Object:
		default:
			return nil
		}
		for i, el := range arr {
			if err := c.property(at.Index(i), el, t.Items); err != nil {
				return err
			}
		}
	}
	return nil
}

// StripNulls removes every object key whose value is null, at any depth,
// including inside arrays. Array elements themselves are kept. Containers are
// modified in place; the (possibly same) value is returned.
func StripNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if e == nil {
				delete(t, k)
				continue
			}
			t[k] = StripNulls(e)
		}
	case []any:
		for i, e := range t {
			t[i] = StripNulls(e)
		}
	}
	return v
}
