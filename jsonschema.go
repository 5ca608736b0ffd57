package vcskema

import js "github.com/reoring/vcskema/jsonschema"

// JSONSchema returns the draft-07 document handed to the validation engine.
// References stay "$ref": "<id>" links.
func (s *Schema) JSONSchema() *js.Schema {
	out := &js.Schema{Draft: js.Draft7, Keywords: copyMap(s.keywords)}
	if s.enum != nil {
		out.Type = s.enum.Type
		out.Enum = deepCopy(s.enum.Values).([]any)
		return out
	}
	out.Type = TypeObject
	out.Properties = propertyDocs(s.props)
	out.Required = s.Required()
	return out
}

func propertyDocs(props *Properties) map[string]*js.Schema {
	out := make(map[string]*js.Schema, props.Len())
	for name, p := range props.All() {
		out[name] = propertyDoc(p)
	}
	return out
}

func propertyDoc(p Property) *js.Schema {
	a := p.Attributes()
	out := &js.Schema{XRequired: a.Required, Keywords: copyMap(a.Keywords)}
	if a.HasDefault {
		out.Default = deepCopy(a.Default)
	}
	switch t := p.(type) {
	case *Primitive:
		out.Type = t.Type
		out.Format = t.Format
	case *Reference:
		out.Ref = t.Ref
	case *Enum:
		out.Type = t.Type
		out.Enum = deepCopy(t.Values).([]any)
	case *Object:
		out.Type = TypeObject
		out.Properties = propertyDocs(t.Properties)
		out.Required = t.Properties.Required()
	case *Array:
		out.Type = TypeArray
		out.Items = propertyDoc(t.Items)
	}
	return out
}
