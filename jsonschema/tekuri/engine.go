// Package tekuri implements jsonschema.Engine on top of
// github.com/santhosh-tekuri/jsonschema/v6.
package tekuri

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"

	"github.com/reoring/vcskema/i18n"
	"github.com/reoring/vcskema/identifier"
	js "github.com/reoring/vcskema/jsonschema"
)

// BaseURL is the namespace compiled documents are registered under. A
// reference "$ref": "<id>" resolves to BaseURL + id.
const BaseURL = "https://vcskema.invalid/schemas/"

// Engine compiles documents with draft-07 semantics and format assertions
// enabled. The zero value is ready to use.
type Engine struct{}

// New returns an Engine.
func New() *Engine { return &Engine{} }

var _ js.Engine = (*Engine)(nil)

// Compile registers every document and compiles them. Any document failing
// meta-schema validation or reference resolution fails the whole set.
func (e *Engine) Compile(docs map[string]*js.Schema) (js.Validator, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)
	c.AssertFormat()
	c.RegisterFormat(&jsonschema.Format{Name: "url", Validate: validateURL})

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		raw, err := json.Marshal(docs[id])
		if err != nil {
			return nil, fmt.Errorf("tekuri: marshal %q: %w", id, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("tekuri: decode %q: %w", id, err)
		}
		rewriteRefs(doc)
		if err := c.AddResource(resourceURL(id), doc); err != nil {
			return nil, fmt.Errorf("tekuri: add %q: %w", id, err)
		}
	}
	compiled := make(map[string]*jsonschema.Schema, len(ids))
	for _, id := range ids {
		s, err := c.Compile(resourceURL(id))
		if err != nil {
			return nil, fmt.Errorf("tekuri: compile %q: %w", id, err)
		}
		compiled[id] = s
	}
	return &validator{schemas: compiled}, nil
}

func resourceURL(id string) string { return BaseURL + url.PathEscape(id) }

// rewriteRefs turns id references into absolute resource URLs so ids that are
// not valid relative URL references still resolve.
func rewriteRefs(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			if k == "$ref" {
				if ref, ok := vv.(string); ok && !strings.HasPrefix(ref, "#") {
					t[k] = resourceURL(ref)
				}
				continue
			}
			rewriteRefs(vv)
		}
	case []any:
		for _, vv := range t {
			rewriteRefs(vv)
		}
	}
}

func validateURL(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if !identifier.Valid(s) {
		return errors.New("not a URL or DID")
	}
	return nil
}

type validator struct {
	schemas map[string]*jsonschema.Schema
}

func (v *validator) Validate(id string, instance any) ([]js.Violation, error) {
	s, ok := v.schemas[id]
	if !ok {
		return nil, fmt.Errorf("tekuri: schema %q is not compiled", id)
	}
	err := s.Validate(instance)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	var out []js.Violation
	collectLeaves(ve, &out)
	// properties are checked in map order; keep reports stable
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := strings.Join(out[i].Location, "/"), strings.Join(out[j].Location, "/")
		if li != lj {
			return li < lj
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// collectLeaves flattens the cause tree. Only leaves describe concrete
// failed keywords; inner nodes group them by (sub)schema.
func collectLeaves(ve *jsonschema.ValidationError, out *[]js.Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, toViolations(ve)...)
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}

func toViolations(ve *jsonschema.ValidationError) []js.Violation {
	loc := append([]string(nil), ve.InstanceLocation...)
	one := func(code string, params ...string) []js.Violation {
		return []js.Violation{{Location: loc, Code: code, Params: params, Message: i18n.T(code, params...)}}
	}
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		out := make([]js.Violation, 0, len(k.Missing))
		for _, name := range k.Missing {
			out = append(out, js.Violation{Location: loc, Code: js.CodeRequired, Params: []string{name}, Message: i18n.T(js.CodeRequired, name)})
		}
		return out
	case *kind.Type:
		return one(js.CodeInvalidType, strings.Join(k.Want, ","), k.Got)
	case *kind.Pattern:
		return one(js.CodePattern, k.Want, k.Got)
	case *kind.Enum:
		return one(js.CodeEnumMismatch, fmt.Sprint(k.Got))
	case *kind.Const:
		return one(js.CodeConstMismatch, fmt.Sprint(k.Want))
	case *kind.Format:
		return one(js.CodeInvalidFormat, k.Want, fmt.Sprint(k.Got))
	case *kind.MinLength:
		return one(js.CodeMinLength, strconv.Itoa(k.Got), strconv.Itoa(k.Want))
	case *kind.MaxLength:
		return one(js.CodeMaxLength, strconv.Itoa(k.Got), strconv.Itoa(k.Want))
	case *kind.Minimum:
		return one(js.CodeMinimum, ratString(k.Got), ratString(k.Want))
	case *kind.Maximum:
		return one(js.CodeMaximum, ratString(k.Got), ratString(k.Want))
	case *kind.ExclusiveMinimum:
		return one(js.CodeMinimumExclusive, ratString(k.Got), ratString(k.Want))
	case *kind.ExclusiveMaximum:
		return one(js.CodeMaximumExclusive, ratString(k.Got), ratString(k.Want))
	case *kind.MultipleOf:
		return one(js.CodeMultipleOf, ratString(k.Got), ratString(k.Want))
	case *kind.MinItems:
		return one(js.CodeArrayLengthShort, strconv.Itoa(k.Got), strconv.Itoa(k.Want))
	case *kind.MaxItems:
		return one(js.CodeArrayLengthLong, strconv.Itoa(k.Got), strconv.Itoa(k.Want))
	case *kind.UniqueItems:
		return one(js.CodeArrayUnique, strconv.Itoa(k.Duplicates[0]), strconv.Itoa(k.Duplicates[1]))
	case *kind.AdditionalProperties:
		return one(js.CodeAdditionalProperties, strings.Join(k.Properties, ","))
	default:
		return one(js.CodeKeywordMismatch, strings.Join(ve.ErrorKind.KeywordPath(), "/"))
	}
}

func ratString(r *big.Rat) string {
	if r == nil {
		return ""
	}
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64)
}
