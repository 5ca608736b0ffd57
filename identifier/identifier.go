// Package identifier checks caller-supplied identifiers (credential ids,
// holders, factory URIs). A valid identifier is either a URL or a DID.
package identifier

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const didPrefix = "did:"

var validate = validator.New()

// RequiredError reports a missing or empty parameter.
type RequiredError struct{ Name string }

func (e *RequiredError) Error() string { return fmt.Sprintf("Parameter %q is required", e.Name) }

// FormatError reports a parameter that is neither a URL nor a DID.
type FormatError struct{ Name, Value string }

func (e *FormatError) Error() string {
	return fmt.Sprintf("Parameter %q must be a URL, received: %q", e.Name, e.Value)
}

// IsDID reports whether s starts with the case-insensitive "did:" prefix.
func IsDID(s string) bool {
	return len(s) >= len(didPrefix) && strings.EqualFold(s[:len(didPrefix)], didPrefix)
}

// IsURL reports whether s is a syntactically valid absolute URL.
func IsURL(s string) bool {
	return validate.Var(s, "url") == nil
}

// Valid reports whether s is a URL or a DID.
func Valid(s string) bool {
	return IsDID(s) || IsURL(s)
}

// Check validates the named parameter.
func Check(name, value string) error {
	if value == "" {
		return &RequiredError{Name: name}
	}
	if !Valid(value) {
		return &FormatError{Name: name, Value: value}
	}
	return nil
}
