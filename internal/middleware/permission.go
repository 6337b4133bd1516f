package middleware

import (
	"slices"

	apierrors "github.com/confcfp/cfp-server/internal/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionLoader resolves the permission keys granted to a member.
type PermissionLoader interface {
	PermissionKeys(memberID string) ([]string, error)
}

// RequirePermission must run after RequireAuth. It answers 403 unless the
// member holds key through one of their roles.
func RequirePermission(loader PermissionLoader, log *zap.Logger, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, ok := GetMemberID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		keys, err := loader.PermissionKeys(memberID)
		if err != nil {
			log.Error("failed to load permissions", zap.String("member_id", memberID), zap.Error(err))
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		if !slices.Contains(keys, key) {
			apierrors.Forbidden(c, "Missing permission: "+key)
			c.Abort()
			return
		}

		c.Next()
	}
}
