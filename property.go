package vcskema

import "iter"

// Kind tags a Property variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindReference
	KindObject
	KindArray
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindReference:
		return "reference"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// JSON type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Attrs holds the keywords every property variant may carry.
type Attrs struct {
	// Required is the hoisted required flag, rendered as "x-required".
	Required   bool
	Default    any
	HasDefault bool
	// LDType overrides the derived JSON-LD "@type" ("@type" in the source).
	LDType string
	// Keywords are the remaining JSON-Schema keywords (pattern, minLength,
	// title, ...) passed through to the JSON-Schema form.
	Keywords map[string]any
}

// Attributes returns the shared keyword block.
func (a *Attrs) Attributes() *Attrs { return a }

// Property is a normalized property schema. The set of implementations is
// closed: *Primitive, *Reference, *Object, *Array and *Enum. Values reachable
// from a Schema must not be modified.
type Property interface {
	Kind() Kind
	Attributes() *Attrs
	// TypeName returns the declared JSON type, or "" for references.
	TypeName() string
	clone() Property
}

// Primitive is a string, number, integer or boolean property (or any other
// scalar type name a source declares).
type Primitive struct {
	Attrs
	Type   string
	Format string
}

// Reference points at another schema by id.
type Reference struct {
	Attrs
	Ref string
}

// Object is a nested object shape.
type Object struct {
	Attrs
	Properties *Properties
}

// Array holds a list of Items.
type Array struct {
	Attrs
	Items Property
}

// Enum restricts values to a fixed list of literals.
type Enum struct {
	Attrs
	Type   string
	Values []any
}

func (*Primitive) Kind() Kind { return KindPrimitive }
func (*Reference) Kind() Kind { return KindReference }
func (*Object) Kind() Kind { return KindObject }
func (*Array) Kind() Kind { return KindArray }
func (*Enum) Kind() Kind { return KindEnum }

func (p *Primitive) TypeName() string { return p.Type }
func (*Reference) TypeName() string { return "" }
func (*Object) TypeName() string { return TypeObject }
func (*Array) TypeName() string { return TypeArray }
func (e *Enum) TypeName() string { return e.Type }

func (a Attrs) copy() Attrs {
	a.Default = deepCopy(a.Default)
	a.Keywords = copyMap(a.Keywords)
	return a
}

func (p *Primitive) clone() Property {
	c := *p
	c.Attrs = p.Attrs.copy()
	return &c
}

func (r *Reference) clone() Property {
	c := *r
	c.Attrs = r.Attrs.copy()
	return &c
}

func (o *Object) clone() Property {
	return &Object{Attrs: o.Attrs.copy(), Properties: o.Properties.clone()}
}

func (a *Array) clone() Property {
	return &Array{Attrs: a.Attrs.copy(), Items: a.Items.clone()}
}

func (e *Enum) clone() Property {
	c := *e
	c.Attrs = e.Attrs.copy()
	c.Values = deepCopy(e.Values).([]any)
	return &c
}

// Properties is an ordered name -> Property collection.
type Properties struct {
	names  []string
	byName map[string]Property
}

func newProperties() *Properties {
	return &Properties{byName: map[string]Property{}}
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns property names in order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Get looks up a property by name.
func (p *Properties) Get(name string) (Property, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.byName[name]
	return v, ok
}

// All iterates properties in order.
func (p *Properties) All() iter.Seq2[string, Property] {
	return func(yield func(string, Property) bool) {
		if p == nil {
			return
		}
		for _, n := range p.names {
			if !yield(n, p.byName[n]) {
				return
			}
		}
	}
}

// Required lists, in order, the names of properties marked required.
func (p *Properties) Required() []string {
	var out []string
	for name, prop := range p.All() {
		if prop.Attributes().Required {
			out = append(out, name)
		}
	}
	return out
}

// set replaces an existing property in place or appends a new one.
func (p *Properties) set(name string, prop Property) {
	if _, exists := p.byName[name]; !exists {
		p.names = append(p.names, name)
	}
	p.byName[name] = prop
}

func (p *Properties) clone() *Properties {
	out := newProperties()
	for name, prop := range p.All() {
		out.set(name, prop.clone())
	}
	return out
}
