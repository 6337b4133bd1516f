package middleware

import (
	"strings"

	"github.com/confcfp/cfp-server/internal/constants"
	apierrors "github.com/confcfp/cfp-server/internal/errors"
	"github.com/confcfp/cfp-server/internal/services"
	"github.com/gin-gonic/gin"
)

// TokenParser validates session tokens.
type TokenParser interface {
	ParseToken(token string) (*services.SessionClaims, error)
}

// RequireAuth checks for a valid session token in the access_token cookie
// or an Authorization: Bearer header.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Store member identity in context for easy access in handlers
		c.Set(constants.ContextKeyMemberID, claims.Subject)
		c.Set(constants.ContextKeyMemberEmail, claims.Email)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(constants.AccessTokenCookieName); err == nil && token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// GetMemberID retrieves the current member ID from context
func GetMemberID(c *gin.Context) (string, bool) {
	memberID, exists := c.Get(constants.ContextKeyMemberID)
	if !exists {
		return "", false
	}

	id, ok := memberID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
