package middleware

import (
	apierrors "github.com/confcfp/cfp-server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireUUIDParam rejects requests whose path parameter is not a UUID.
func RequireUUIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(name)); err != nil {
			apierrors.BadRequest(c, "Invalid "+name+": must be a UUID")
			c.Abort()
			return
		}
		c.Next()
	}
}
