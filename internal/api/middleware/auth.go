package middleware

import (
	"net/http"
	"strings"

	"media-tracker/internal/core/identity"
	"media-tracker/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdentityKey is where the resolved identity lives in the gin context.
	IdentityKey = "identity"

	sessionCookie = "session_token"
)

// Auth resolves the caller's credential into an identity and aborts with
// 401 when it cannot.
func Auth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := extractCredential(c)
		if credential == "" {
			common.LogWarn("missing credential",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": common.ErrInvalidSession.Message,
				"code":  common.ErrInvalidSession.Code,
			})
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), credential)
		if err != nil {
			common.LogWarn("credential resolution failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": common.ErrInvalidSession.Message,
				"code":  common.ErrInvalidSession.Code,
			})
			return
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

// extractCredential reads the session cookie, falling back to a bearer
// token for non-browser clients.
func extractCredential(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie
	}

	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// CurrentIdentity pulls the resolved identity back out of the context.
func CurrentIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok
}
