// Package ginmw adapts the vcskema request validation middleware to Gin.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	vcskema "github.com/reoring/vcskema"
	"github.com/reoring/vcskema/middleware"
)

// ValidateJSON validates the request JSON against schemaID, stores the
// normalized object in the request context on success, or aborts with
// middleware.ErrorPayload.
func ValidateJSON(v *vcskema.Validator, schemaID string, opts ...vcskema.ValidateOpt) gin.HandlerFunc {
	return validate(v, schemaID, opts, middleware.DecodeJSON)
}

// ValidateForm validates form posts. Without opts it uses
// middleware.DefaultFormOpt.
func ValidateForm(v *vcskema.Validator, schemaID string, opts ...vcskema.ValidateOpt) gin.HandlerFunc {
	if len(opts) == 0 {
		opts = []vcskema.ValidateOpt{middleware.DefaultFormOpt()}
	}
	return validate(v, schemaID, opts, func(r *http.Request) (any, error) {
		return middleware.DecodeForm(r)
	})
}

func validate(v *vcskema.Validator, schemaID string, opts []vcskema.ValidateOpt, decode func(*http.Request) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, err := decode(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := v.Validate(c.Request.Context(), obj, schemaID, opts...)
		if err != nil {
			c.AbortWithStatusJSON(middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithObject(c.Request.Context(), out))
		c.Next()
	}
}

// GetObject fetches the validated object from gin.Context.
func GetObject(c *gin.Context) (any, bool) {
	return middleware.ObjectFromContext(c.Request.Context())
}
