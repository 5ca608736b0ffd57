package jsonschema

// Error codes reported by engines. Names follow the z-schema vocabulary so
// payloads stay compatible with existing clients.
const (
	CodeRequired             = "OBJECT_MISSING_REQUIRED_PROPERTY"
	CodeAdditionalProperties = "OBJECT_ADDITIONAL_PROPERTIES"
	CodeInvalidType          = "INVALID_TYPE"
	CodePattern              = "PATTERN"
	CodeEnumMismatch         = "ENUM_MISMATCH"
	CodeConstMismatch        = "CONST_MISMATCH"
	CodeInvalidFormat        = "INVALID_FORMAT"
	CodeMinLength            = "MIN_LENGTH"
	CodeMaxLength            = "MAX_LENGTH"
	CodeMinimum              = "MINIMUM"
	CodeMaximum              = "MAXIMUM"
	CodeMinimumExclusive     = "MINIMUM_EXCLUSIVE"
	CodeMaximumExclusive     = "MAXIMUM_EXCLUSIVE"
	CodeMultipleOf           = "MULTIPLE_OF"
	CodeArrayLengthShort     = "ARRAY_LENGTH_SHORT"
	CodeArrayLengthLong      = "ARRAY_LENGTH_LONG"
	CodeArrayUnique          = "ARRAY_UNIQUE"
	CodeKeywordMismatch      = "KEYWORD_MISMATCH"
)

// Violation is a single failed assertion reported by an engine.
type Violation struct {
	// Location is the instance location split into raw segments. Array
	// indices appear as decimal strings.
	Location []string
	Code     string
	Params   []string
	Message  string
}

// Engine compiles a set of schema documents keyed by schema id. Documents may
// reference each other through "$ref": "<id>".
type Engine interface {
	Compile(docs map[string]*Schema) (Validator, error)
}

// Validator validates instances against previously compiled documents. It
// must be safe for concurrent use.
type Validator interface {
	// Validate returns no violations when the instance is valid. The error
	// result is reserved for engine failures such as an unknown id.
	Validate(id string, instance any) ([]Violation, error)
}
