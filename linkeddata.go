package vcskema

import "strings"

// SchemaOrgURI is the vocabulary aliased as "schema" in derived contexts.
const SchemaOrgURI = "http://schema.org/"

// LinkedDataType is the JSON-LD term derived from a schema in linked-data mode.
type LinkedDataType struct {
	ID      string
	Context map[string]any
}

// Term renders the type as an expanded term definition.
func (t LinkedDataType) Term() map[string]any {
	return map[string]any{"@id": t.ID, "@context": copyMap(t.Context)}
}

// LinkedDataType derives the JSON-LD type of the schema. It reports false for
// enum schemas and schemas without a base URI.
func (s *Schema) LinkedDataType() (LinkedDataType, bool) {
	if s.baseURI == "" || s.enum != nil {
		return LinkedDataType{}, false
	}
	vocab := Vocabulary(s.baseURI)
	ctx := map[string]any{
		"@vocab":     vocab,
		"@version":   1.1,
		"@protected": true,
	}
	if vocab != SchemaOrgURI {
		ctx["schema"] = SchemaOrgURI
	}
	for name, p := range s.props.All() {
		if protectedTerm(name) {
			continue
		}
		term := map[string]any{"@id": name}
		if t := ldType(p); t != "" {
			term["@type"] = t
		}
		ctx[name] = term
	}
	return LinkedDataType{ID: vocab + s.id, Context: ctx}, true
}

// Vocabulary terminates a base URI with '#' unless it already ends in '/' or '#'.
func Vocabulary(baseURI string) string {
	if strings.HasSuffix(baseURI, "/") || strings.HasSuffix(baseURI, "#") {
		return baseURI
	}
	return baseURI + "#"
}

func protectedTerm(name string) bool {
	switch name {
	case "id", "type", "schema":
		return true
	}
	return strings.HasPrefix(name, "@")
}

func ldType(p Property) string {
	if _, ok := p.(*Reference); ok {
		return ""
	}
	if t := p.Attributes().LDType; t != "" {
		return t
	}
	switch p.TypeName() {
	case TypeInteger:
		return "schema:Integer"
	case TypeNumber:
		return "schema:Number"
	}
	if prim, ok := p.(*Primitive); ok {
		switch prim.Format {
		case "date":
			return "schema:Date"
		case "date-time":
			return "schema:DateTime"
		}
	}
	return ""
}
