package vcskema

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	js "github.com/reoring/vcskema/jsonschema"
)

// Issue codes, as reported by the JSON-Schema engine.
const (
	CodeRequired             = js.CodeRequired
	CodeAdditionalProperties = js.CodeAdditionalProperties
	CodeInvalidType          = js.CodeInvalidType
	CodePattern              = js.CodePattern
	CodeEnumMismatch         = js.CodeEnumMismatch
	CodeConstMismatch        = js.CodeConstMismatch
	CodeInvalidFormat        = js.CodeInvalidFormat
	CodeMinLength            = js.CodeMinLength
	CodeMaxLength            = js.CodeMaxLength
	CodeMinimum              = js.CodeMinimum
	CodeMaximum              = js.CodeMaximum
	CodeMinimumExclusive     = js.CodeMinimumExclusive
	CodeMaximumExclusive     = js.CodeMaximumExclusive
	CodeMultipleOf           = js.CodeMultipleOf
	CodeArrayLengthShort     = js.CodeArrayLengthShort
	CodeArrayLengthLong      = js.CodeArrayLengthLong
	CodeArrayUnique          = js.CodeArrayUnique
	CodeKeywordMismatch      = js.CodeKeywordMismatch
)

var (
	// ErrEnumView is returned by derived views of enum schemas.
	ErrEnumView = errors.New("vcskema: derived views are not supported for enum schemas")
	// ErrSchemaNotFound is wrapped when a schema id is not part of a set.
	ErrSchemaNotFound = errors.New("vcskema: schema not found")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string   `json:"path"` // dot/bracket path, e.g. items[0].name ("" for the root)
	Code    string   `json:"code"`
	Params  []string `json:"params"`
	Message string   `json:"message"`

	// offending property schema (nil when the path does not resolve) and the
	// object the engine checked
	property Property
	context  any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		path := iss[i].Path
		if path == "" {
			path = "(root)"
		}
		// e.g. PATTERN at address.zip
		fmt.Fprintf(b, "%s at %s", iss[i].Code, path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ValidationError is returned when an object does not satisfy its schema.
type ValidationError struct {
	SchemaID string
	// Object is the cleaned and normalized copy that failed validation.
	Object any
	Issues Issues
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q validation failed", e.SchemaID)
}

// Unwrap exposes the issues to errors.As.
func (e *ValidationError) Unwrap() error { return e.Issues }

// MarshalJSON renders the error in its transport form.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	issues := e.Issues
	if issues == nil {
		issues = Issues{}
	}
	return json.Marshal(struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		SchemaID         string `json:"schemaId"`
		Object           any    `json:"object"`
		ValidationErrors Issues `json:"validationErrors"`
	}{"ValidationError", e.Error(), e.SchemaID, JSONSafe(e.Object), issues})
}

// AsValidationError extracts a *ValidationError using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if err != nil && errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// DuplicateSchemaError reports two schemas sharing an id within one set.
type DuplicateSchemaError struct{ ID string }

func (e *DuplicateSchemaError) Error() string {
	return fmt.Sprintf("vcskema: duplicate schema id %q", e.ID)
}

// UnresolvedRefError reports a "$ref" naming a schema that is not available.
type UnresolvedRefError struct {
	Path string // e.g. AccountV1.address.$ref
	Ref  string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("vcskema: unresolved reference %q at %s", e.Ref, e.Path)
}

// SourceError reports a malformed schema source definition.
type SourceError struct {
	Path string
	Msg  string
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return "vcskema: invalid source: " + e.Msg
	}
	return fmt.Sprintf("vcskema: invalid source at %s: %s", e.Path, e.Msg)
}

// ShapeError is raised by traversal when a value contradicts its schema
// (an object, array or reference target expected but something else found).
type ShapeError struct {
	Path string
	Want string
	Got  any
}

func (e *ShapeError) Error() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("vcskema: %s: expected %s, got %s", path, e.Want, describe(e.Got))
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	}
	if _, ok := asFloat(v); ok {
		return TypeNumber
	}
	return fmt.Sprintf("%T", v)
}
