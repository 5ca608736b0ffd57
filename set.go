package vcskema

import (
	"fmt"
	"maps"

	js "github.com/reoring/vcskema/jsonschema"
)

// SchemaSet is an immutable collection of schemas whose references all
// resolve within the set.
type SchemaSet struct {
	order []string
	byID  map[string]*Schema
}

// NewSchemaSet indexes schemas by id. It fails on duplicate ids and on any
// reference that does not resolve inside the set.
func NewSchemaSet(schemas ...*Schema) (*SchemaSet, error) {
	set := &SchemaSet{byID: make(map[string]*Schema, len(schemas))}
	for i, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("vcskema: schema #%d is nil", i)
		}
		if _, dup := set.byID[s.ID()]; dup {
			return nil, &DuplicateSchemaError{ID: s.ID()}
		}
		set.byID[s.ID()] = s
		set.order = append(set.order, s.ID())
	}
	for _, id := range set.order {
		if _, err := ReferenceIDs(set.byID[id], set.byID); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (set *SchemaSet) Get(id string) (*Schema, bool) {
	s, ok := set.byID[id]
	return s, ok
}

// IDs lists schema ids in insertion order.
func (set *SchemaSet) IDs() []string { return append([]string(nil), set.order...) }

func (set *SchemaSet) Schemas() []*Schema {
	out := make([]*Schema, len(set.order))
	for i, id := range set.order {
		out[i] = set.byID[id]
	}
	return out
}

// Lookup returns a copy of the id index, suitable for Walk and friends.
func (set *SchemaSet) Lookup() map[string]*Schema { return maps.Clone(set.byID) }

// ReferenceIDs lists the schemas reachable from id.
func (set *SchemaSet) ReferenceIDs(id string) ([]string, error) {
	s, ok := set.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, id)
	}
	return ReferenceIDs(s, set.byID)
}

// JSONSchemas renders every schema for a validation engine.
func (set *SchemaSet) JSONSchemas() map[string]*js.Schema {
	out := make(map[string]*js.Schema, len(set.byID))
	for id, s := range set.byID {
		out[id] = s.JSONSchema()
	}
	return out
}

func (set *SchemaSet) schema(id string) (*Schema, error) {
	s, ok := set.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, id)
	}
	return s, nil
}
