// Package echomw adapts the vcskema request validation middleware to Echo.
package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	vcskema "github.com/reoring/vcskema"
	"github.com/reoring/vcskema/middleware"
)

// ValidateJSON validates the request JSON against schemaID, stores the
// normalized object in the request context on success, or answers with
// middleware.ErrorPayload.
func ValidateJSON(v *vcskema.Validator, schemaID string, opts ...vcskema.ValidateOpt) echo.MiddlewareFunc {
	return validate(v, schemaID, opts, middleware.DecodeJSON)
}

// ValidateForm validates form posts. Without opts it uses
// middleware.DefaultFormOpt.
func ValidateForm(v *vcskema.Validator, schemaID string, opts ...vcskema.ValidateOpt) echo.MiddlewareFunc {
	if len(opts) == 0 {
		opts = []vcskema.ValidateOpt{middleware.DefaultFormOpt()}
	}
	return validate(v, schemaID, opts, func(r *http.Request) (any, error) {
		return middleware.DecodeForm(r)
	})
}

func validate(v *vcskema.Validator, schemaID string, opts []vcskema.ValidateOpt, decode func(*http.Request) (any, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			obj, err := decode(c.Request())
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			out, err := v.Validate(c.Request().Context(), obj, schemaID, opts...)
			if err != nil {
				return c.JSON(middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithObject(c.Request().Context(), out)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetObject fetches the validated object from echo.Context.
func GetObject(c echo.Context) (any, bool) {
	return middleware.ObjectFromContext(c.Request().Context())
}
