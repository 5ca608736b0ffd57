package vcskema

import (
	"fmt"
	"sort"
)

// UndefinedID names schemas constructed without an id.
const UndefinedID = "undefined"

// SchemaOpt configures NewSchema.
type SchemaOpt struct {
	// BaseURI enables linked-data mode: a "type" property defaulting to the
	// schema id is injected and an existing "id" property is forced to a
	// required URL.
	BaseURI string
}

// Schema is an immutable, normalized schema. It is either an enum schema or
// an object schema with named properties.
type Schema struct {
	id       string
	baseURI  string
	enum     *Enum
	props    *Properties
	keywords map[string]any // top-level keywords other than type/properties/required
}

// NewSchema normalizes source into a Schema.
func NewSchema(id string, source map[string]any, opts ...SchemaOpt) (*Schema, error) {
	var opt SchemaOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if id == "" {
		id = UndefinedID
	}
	s := &Schema{id: id, baseURI: opt.BaseURI}
	if err := s.parse(source); err != nil {
		return nil, err
	}
	if s.enum == nil && s.baseURI != "" {
		s.injectLinkedData()
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(id string, source map[string]any, opts ...SchemaOpt) *Schema {
	s, err := NewSchema(id, source, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// NormalizeSource returns the normalized raw form of source: types inferred,
// items typed and required flags hoisted. The input is not modified.
func NormalizeSource(source map[string]any) (map[string]any, error) {
	s, err := NewSchema("", source)
	if err != nil {
		return nil, err
	}
	return s.Definition(), nil
}

func (s *Schema) ID() string { return s.id }
func (s *Schema) BaseURI() string { return s.baseURI }
func (s *Schema) IsEnum() bool { return s.enum != nil }

// EnumValues returns a copy of the allowed values, or nil for object schemas.
func (s *Schema) EnumValues() []any {
	if s.enum == nil {
		return nil
	}
	return deepCopy(s.enum.Values).([]any)
}

// Type returns the enum's value type, or "object".
func (s *Schema) Type() string {
	if s.enum != nil {
		return s.enum.Type
	}
	return TypeObject
}

// Properties returns the ordered property collection (empty for enums).
func (s *Schema) Properties() *Properties {
	if s.props == nil {
		return newProperties()
	}
	return s.props
}

// Required lists the names of required top-level properties.
func (s *Schema) Required() []string { return s.props.Required() }

// Definition renders the normalized raw form. NewSchema(id, s.Definition())
// yields an equivalent schema.
func (s *Schema) Definition() map[string]any {
	out := copyMap(s.keywords)
	if out == nil {
		out = map[string]any{}
	}
	if s.enum != nil {
		out["type"] = s.enum.Type
		out["enum"] = deepCopy(s.enum.Values)
		return out
	}
	out["type"] = TypeObject
	out["properties"] = renderProperties(s.props)
	if req := s.Required(); len(req) > 0 {
		out["required"] = stringsToAny(req)
	}
	return out
}

func (s *Schema) parse(src map[string]any) error {
	if rawEnum, ok := src["enum"]; ok {
		if _, has := src["properties"]; has {
			return &SourceError{Path: s.id, Msg: "enum and properties are mutually exclusive"}
		}
		p, err := parseEnum(s.id, src, rawEnum)
		if err != nil {
			return err
		}
		s.enum = p
		s.keywords = restKeywords(src, "type", "enum")
		return nil
	}
	if isPropertyMap(src) {
		props, err := parseProperties(s.id, src)
		if err != nil {
			return err
		}
		s.props = props
		return nil
	}
	if t, ok := src["type"]; ok && t != TypeObject {
		return &SourceError{Path: s.id, Msg: fmt.Sprintf("top-level type must be object, got %v", t)}
	}
	props, err := parseProperties(s.id, src["properties"])
	if err != nil {
		return err
	}
	if err := markRequired(s.id, props, src["required"]); err != nil {
		return err
	}
	s.props = props
	s.keywords = restKeywords(src, "type", "properties", "required")
	return nil
}

// objectKeywords are top-level JSON-Schema keywords whose values are schemas
// or schema maps.
var objectKeywords = map[string]bool{
	"additionalProperties": true, "patternProperties": true, "propertyNames": true,
	"definitions": true, "$defs": true, "dependencies": true,
	"not": true, "if": true, "then": true, "else": true,
}

// isPropertyMap reports whether src is the bare form {name: {...}, ...}: no
// "properties" or "enum" key and at least one object value that is not a
// JSON-Schema keyword.
func isPropertyMap(src map[string]any) bool {
	if _, ok := src["properties"]; ok {
		return false
	}
	if _, ok := src["enum"]; ok {
		return false
	}
	for k, v := range src {
		if _, isMap := v.(map[string]any); isMap && !objectKeywords[k] {
			return true
		}
	}
	return false
}

// injectLinkedData adds the "type" property and tightens "id".
func (s *Schema) injectLinkedData() {
	s.props.set("type", &Primitive{
		Attrs: Attrs{Required: true, Default: s.id, HasDefault: true},
		Type:  TypeString,
	})
	if _, ok := s.props.Get("id"); ok {
		s.props.set("id", &Primitive{
			Attrs:  Attrs{Required: true},
			Type:   TypeString,
			Format: "url",
		})
	}
}

func parseProperties(path string, raw any) (*Properties, error) {
	out := newProperties()
	if raw == nil {
		return out, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &SourceError{Path: path + ".properties", Msg: "properties must be an object"}
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, err := parseProperty(path+"."+name, m[name])
		if err != nil {
			return nil, err
		}
		out.set(name, p)
	}
	return out, nil
}

// handled keywords never end up in Attrs.Keywords.
var handled = []string{"type", "format", "properties", "items", "$ref", "enum", "required", "x-required", "default", "@type"}

func parseProperty(path string, raw any) (Property, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &SourceError{Path: path, Msg: "property schema must be an object"}
	}
	attrs, err := parseAttrs(path, m)
	if err != nil {
		return nil, err
	}
	if ref, ok := m["$ref"]; ok {
		id, _ := ref.(string)
		if id == "" {
			return nil, &SourceError{Path: path + ".$ref", Msg: "reference must be a non-empty string"}
		}
		return &Reference{Attrs: attrs, Ref: id}, nil
	}
	if rawEnum, ok := m["enum"]; ok {
		e, err := parseEnum(path, m, rawEnum)
		if err != nil {
			return nil, err
		}
		e.Attrs = attrs
		return e, nil
	}

	typ, err := typeOf(path, m)
	if err != nil {
		return nil, err
	}
	switch typ {
	case TypeObject:
		props, err := parseProperties(path, m["properties"])
		if err != nil {
			return nil, err
		}
		if err := markRequired(path, props, m["required"]); err != nil {
			return nil, err
		}
		return &Object{Attrs: attrs, Properties: props}, nil
	case TypeArray:
		items, err := parseItems(path+".items", m["items"])
		if err != nil {
			return nil, err
		}
		return &Array{Attrs: attrs, Items: items}, nil
	default:
		format, _ := m["format"].(string)
		return &Primitive{Attrs: attrs, Type: typ, Format: format}, nil
	}
}

// typeOf returns the declared type, inferring object (properties present),
// array (items present) or string otherwise.
func typeOf(path string, m map[string]any) (string, error) {
	if t, ok := m["type"]; ok && t != nil {
		s, ok := t.(string)
		if !ok || s == "" {
			return "", &SourceError{Path: path + ".type", Msg: "type must be a non-empty string"}
		}
		return s, nil
	}
	if _, ok := m["properties"]; ok {
		return TypeObject, nil
	}
	if _, ok := m["items"]; ok {
		return TypeArray, nil
	}
	return TypeString, nil
}

// parseItems normalizes an items schema. A "properties" key, even null,
// forces the items to object.
func parseItems(path string, raw any) (Property, error) {
	if raw == nil {
		return &Primitive{Type: TypeString}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &SourceError{Path: path, Msg: "items must be a single schema object"}
	}
	if _, ok := m["properties"]; ok && m["type"] != TypeObject {
		m = copyMap(m)
		m["type"] = TypeObject
	}
	return parseProperty(path, m)
}

func parseEnum(path string, m map[string]any, raw any) (*Enum, error) {
	values, ok := raw.([]any)
	if !ok {
		return nil, &SourceError{Path: path + ".enum", Msg: "enum must be an array"}
	}
	typ := TypeString
	if t, ok := m["type"].(string); ok && t != "" {
		typ = t
	}
	return &Enum{Type: typ, Values: deepCopy(values).([]any)}, nil
}

func parseAttrs(path string, m map[string]any) (Attrs, error) {
	var a Attrs
	if r, ok := m["required"].(bool); ok {
		a.Required = r
	}
	if r, ok := m["x-required"]; ok {
		b, ok := r.(bool)
		if !ok {
			return a, &SourceError{Path: path + ".x-required", Msg: "x-required must be a boolean"}
		}
		a.Required = a.Required || b
	}
	if d, ok := m["default"]; ok {
		a.Default = deepCopy(d)
		a.HasDefault = true
	}
	if t, ok := m["@type"]; ok {
		s, ok := t.(string)
		if !ok {
			return a, &SourceError{Path: path + ".@type", Msg: "@type must be a string"}
		}
		a.LDType = s
	}
	a.Keywords = restKeywords(m, handled...)
	return a, nil
}

// markRequired applies a JSON-Schema style "required": [names] list.
func markRequired(path string, props *Properties, raw any) error {
	var names []string
	switch t := raw.(type) {
	case nil, bool:
		return nil
	case []string:
		names = t
	case []any:
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				return &SourceError{Path: path + ".required", Msg: "required entries must be strings"}
			}
			names = append(names, s)
		}
	default:
		return &SourceError{Path: path + ".required", Msg: "required must be a boolean or an array"}
	}
	for _, n := range names {
		p, ok := props.Get(n)
		if !ok {
			return &SourceError{Path: path + ".required", Msg: fmt.Sprintf("required property %q is not declared", n)}
		}
		p.Attributes().Required = true
	}
	return nil
}

func restKeywords(m map[string]any, skip ...string) map[string]any {
	var out map[string]any
next:
	for k, v := range m {
		for _, s := range skip {
			if k == s {
				continue next
			}
		}
		if out == nil {
			out = map[string]any{}
		}
		out[k] = deepCopy(v)
	}
	return out
}

func renderProperties(props *Properties) map[string]any {
	out := make(map[string]any, props.Len())
	for name, p := range props.All() {
		out[name] = renderProperty(p)
	}
	return out
}

func renderProperty(p Property) map[string]any {
	a := p.Attributes()
	out := copyMap(a.Keywords)
	if out == nil {
		out = map[string]any{}
	}
	if a.Required {
		out["x-required"] = true
	}
	if a.HasDefault {
		out["default"] = deepCopy(a.Default)
	}
	if a.LDType != "" {
		out["@type"] = a.LDType
	}
	switch t := p.(type) {
	case *Primitive:
		out["type"] = t.Type
		if t.Format != "" {
			out["format"] = t.Format
		}
	case *Reference:
		out["$ref"] = t.Ref
	case *Enum:
		out["type"] = t.Type
		out["enum"] = deepCopy(t.Values)
	case *Object:
		out["type"] = TypeObject
		out["properties"] = renderProperties(t.Properties)
		if req := t.Properties.Required(); len(req) > 0 {
			out["required"] = stringsToAny(req)
		}
	case *Array:
		out["type"] = TypeArray
		out["items"] = renderProperty(t.Items)
	}
	return out
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
