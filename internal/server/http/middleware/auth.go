package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
)

const (
	// ActorContextKey is a gin context key for the authenticated actor.
	ActorContextKey = "actor"
	authCookieName  = "swiftdrop_token"
)

// TokenParser validates bearer tokens presented by clients.
type TokenParser interface {
	ParseToken(token string) (*pkgAuth.TokenClaims, error)
}

// AuthRequired ensures the caller presents a valid token before reaching
// the handler. The actor identity (id and role) travels in the token, so
// no user lookup happens per request.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ActorContextKey, model.Actor{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
