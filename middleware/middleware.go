// Package middleware validates request bodies against a vcskema schema before
// they reach a handler. The framework adapters in middleware/echo and
// middleware/gin share the helpers defined here.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	vcskema "github.com/reoring/vcskema"
)

// MaxBodyBytes caps the request body read by DecodeJSON.
var MaxBodyBytes int64 = 1 << 20

// ctxKeyObject is the context key for the validated object.
type ctxKeyObject struct{}

// ContextWithObject attaches a validated object to the context.
func ContextWithObject(ctx context.Context, obj any) context.Context {
	return context.WithValue(ctx, ctxKeyObject{}, obj)
}

// ObjectFromContext retrieves the object stored by ContextWithObject.
func ObjectFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyObject{})
	return v, v != nil
}

// DefaultFormOpt is used by ValidateForm when no options are passed. Browsers
// submit untouched optional inputs as "".
func DefaultFormOpt() vcskema.ValidateOpt {
	return vcskema.ValidateOpt{NullifyEmptyValues: true}
}

// DecodeJSON reads the request body as a single JSON value.
func DecodeJSON(r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, errors.New("middleware: empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("middleware: decode body: %w", err)
	}
	return v, nil
}

// DecodeForm parses url-encoded or multipart form values into an object.
// Keys submitted once map to a string, repeated keys to a list of strings.
func DecodeForm(r *http.Request) (map[string]any, error) {
	if err := r.ParseMultipartForm(MaxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("middleware: parse form: %w", err)
	}
	out := make(map[string]any, len(r.Form))
	for k, vs := range r.Form {
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			list := make([]any, len(vs))
			for i, s := range vs {
				list[i] = s
			}
			out[k] = list
		}
	}
	return out, nil
}

// ErrorPayload maps a Validate failure to a status code and response body.
// Validation errors render in their transport form, an unknown schema is a
// server fault, anything else is the client's.
func ErrorPayload(err error) (int, any) {
	if ve, ok := vcskema.AsValidationError(err); ok {
		return http.StatusBadRequest, ve
	}
	if errors.Is(err, vcskema.ErrSchemaNotFound) {
		return http.StatusInternalServerError, map[string]any{"error": err.Error()}
	}
	return http.StatusBadRequest, map[string]any{"error": err.Error()}
}

// ValidateJSON validates the JSON body against schemaID and stores the
// normalized object in the request context. Failures are answered with
// ErrorPayload and the next handler is not called.
func ValidateJSON(v *vcskema.Validator, schemaID string, opts ...vcskema.ValidateOpt) func(http.Handler) http.Handler {
	return validate(v, schemaID, opts, DecodeJSON)
}

// ValidateForm is ValidateJSON for form posts. Without opts it uses
// DefaultFormOpt.
func ValidateForm(v *vcskema.Validator, schemaID string, opts ...vcskema.ValidateOpt) func(http.Handler) http.Handler {
	if len(opts) == 0 {
		opts = []vcskema.ValidateOpt{DefaultFormOpt()}
	}
	return validate(v, schemaID, opts, func(r *http.Request) (any, error) {
		return DecodeForm(r)
	})
}

func validate(v *vcskema.Validator, schemaID string, opts []vcskema.ValidateOpt, decode func(*http.Request) (any, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			obj, err := decode(r)
			if err != nil {
				WriteJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			out, err := v.Validate(r.Context(), obj, schemaID, opts...)
			if err != nil {
				status, payload := ErrorPayload(err)
				WriteJSON(w, status, payload)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithObject(r.Context(), out)))
		})
	}
}

// WriteJSON writes payload with the given status. Non-finite numbers are
// written as null.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	b, err := json.Marshal(vcskema.JSONSafe(payload))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
