package vcskema

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	js "github.com/reoring/vcskema/jsonschema"
	"github.com/reoring/vcskema/jsonschema/tekuri"
)

// ValidatorOpt configures NewValidator.
type ValidatorOpt struct {
	// Engine compiles the JSON-Schema forms. Defaults to tekuri.New().
	Engine js.Engine
	// Logger receives debug output about swallowed cleanup failures and
	// reconciled values. Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// ValidateOpt tunes a single Validate call.
type ValidateOpt struct {
	// NullifyEmptyValues turns "" into null for optional properties whose only
	// problem is a pattern, enum or format mismatch (HTML form semantics).
	NullifyEmptyValues bool
	// CleanupNulls removes every null-valued key before validation.
	CleanupNulls bool
}

// Validator runs objects through clone, clean, normalize and JSON-Schema
// validation. It is immutable and safe for concurrent use.
type Validator struct {
	set      *SchemaSet
	lookup   map[string]*Schema
	compiled js.Validator
	log      logrus.FieldLogger
}

// NewValidator compiles every schema of set. A compile failure means the set
// is malformed.
func NewValidator(set *SchemaSet, opts ...ValidatorOpt) (*Validator, error) {
	if set == nil {
		return nil, errors.New("vcskema: schema set is nil")
	}
	var opt ValidatorOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	engine := opt.Engine
	if engine == nil {
		engine = tekuri.New()
	}
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	compiled, err := engine.Compile(set.JSONSchemas())
	if err != nil {
		return nil, fmt.Errorf("vcskema: compile schema set: %w", err)
	}
	return &Validator{set: set, lookup: set.Lookup(), compiled: compiled, log: log}, nil
}

// Set returns the schema set the validator was built from.
func (v *Validator) Set() *SchemaSet { return v.set }

// Validate returns a cleaned and normalized copy of obj when it satisfies the
// schema. Otherwise it returns a *ValidationError carrying every issue. obj is
// never modified.
func (v *Validator) Validate(ctx context.Context, obj any, schemaID string, opts ...ValidateOpt) (any, error) {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := v.set.schema(schemaID)
	if err != nil {
		return nil, err
	}
	out, err := cloneJSON(obj)
	if err != nil {
		return nil, err
	}
	if opt.CleanupNulls {
		out = StripNulls(out)
	}
	log := v.log.WithField("schema", schemaID)
	if err := v.prepare(out, s); err != nil {
		log.WithError(err).Debug("cleanup skipped")
	}

	violations, err := v.compiled.Validate(schemaID, out)
	if err != nil {
		return nil, fmt.Errorf("vcskema: validate %q: %w", schemaID, err)
	}
	if len(violations) == 0 {
		return out, nil
	}
	issues := v.issues(s, out, violations)
	if opt.NullifyEmptyValues {
		issues = reconcile(log, out, issues)
		if len(issues) == 0 {
			return out, nil
		}
	}
	return nil, &ValidationError{SchemaID: schemaID, Object: out, Issues: issues}
}

// Valid reports whether obj satisfies the schema.
func (v *Validator) Valid(ctx context.Context, obj any, schemaID string, opts ...ValidateOpt) bool {
	_, err := v.Validate(ctx, obj, schemaID, opts...)
	return err == nil
}

// Normalize returns a copy of obj with defaults applied and values coerced.
// Nothing is validated or removed.
func (v *Validator) Normalize(ctx context.Context, obj any, schemaID string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := v.set.schema(schemaID)
	if err != nil {
		return nil, err
	}
	out, err := cloneJSON(obj)
	if err != nil {
		return nil, err
	}
	if err := ApplyDefaults(out, s, v.lookup); err != nil {
		v.log.WithField("schema", schemaID).WithError(err).Debug("normalization stopped early")
	}
	return out, nil
}

// prepare cleans then normalizes. A failure leaves out partially processed;
// the engine reports whatever is still wrong.
func (v *Validator) prepare(out any, s *Schema) error {
	if err := Clean(out, s, v.lookup); err != nil {
		return err
	}
	return ApplyDefaults(out, s, v.lookup)
}

func (v *Validator) issues(s *Schema, out any, violations []js.Violation) Issues {
	issues := make(Issues, 0, len(violations))
	for _, vi := range violations {
		path := locate(out, vi.Location)
		params := vi.Params
		if params == nil {
			params = []string{}
		}
		issues = append(issues, Issue{
			Path:     path.String(),
			Code:     vi.Code,
			Params:   params,
			Message:  vi.Message,
			property: v.propertyAt(s, path),
			context:  out,
		})
	}
	return issues
}

// propertyAt follows path through the schema tree, references included.
func (v *Validator) propertyAt(s *Schema, path Path) Property {
	var cur Property
	props := s.props
	for _, seg := range path {
		if seg.IsIndex {
			arr, ok := cur.(*Array)
			if !ok {
				return nil
			}
			cur = arr.Items
			continue
		}
		if cur != nil {
			props = v.propertiesOf(cur)
		}
		p, ok := props.Get(seg.Name)
		if !ok {
			return nil
		}
		cur = p
	}
	return cur
}

func (v *Validator) propertiesOf(p Property) *Properties {
	switch t := p.(type) {
	case *Object:
		return t.Properties
	case *Reference:
		if target, ok := v.lookup[t.Ref]; ok {
			return target.props
		}
	}
	return nil
}
