package jsonschema

import (
	json "github.com/goccy/go-json"
)

// Draft7 is the meta-schema URI stamped on exported documents.
const Draft7 = "http://json-schema.org/draft-07/schema#"

// Schema is the normalized JSON Schema representation handed to a validation
// engine. Keywords without a dedicated field travel in Keywords and are merged
// into the JSON object on marshal.
type Schema struct {
	Draft string `json:"$schema,omitempty"`
	Ref   string `json:"$ref,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	Enum    []any  `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// XRequired mirrors the hoisted per-property required flag. Engines ignore
	// unknown x- keywords.
	XRequired bool `json:"x-required,omitempty"`

	Keywords map[string]any `json:"-"`
}

type schemaAlias Schema

// MarshalJSON flattens Keywords next to the typed fields. Typed fields win on
// conflicts.
func (s *Schema) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal((*schemaAlias)(s))
	if err != nil {
		return nil, err
	}
	if len(s.Keywords) == 0 {
		return b, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range s.Keywords {
		if _, exists := m[k]; !exists {
			m[k] = v
		}
	}
	return json.Marshal(m)
}
