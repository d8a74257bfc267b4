package middleware

import (
	"context"
	"net/http"
	"strings"

	"delivery-system/internal/auth"
	"delivery-system/internal/session"
	"delivery-system/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	sessionKey   = "session"
)

type TokenParser interface {
	ParseToken(token string) (*utils.Claims, error)
}

type AccountFinder interface {
	Find(id string) (auth.Principal, error)
}

type SessionResumer interface {
	Resume(ctx context.Context, id string, p auth.Principal) (*session.Session, error)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// JWTAuth accepts a bearer token, reloads the account so deactivation and role
// changes apply immediately, and attaches the resumed session.
func JWTAuth(tokens TokenParser, accounts AccountFinder, sessions SessionResumer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			unauthorized(c, "Missing bearer token")
			return
		}

		claims, err := tokens.ParseToken(raw)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		p, err := accounts.Find(claims.PrincipalID)
		if err != nil || !p.IsActive || string(p.Role) != claims.Role {
			unauthorized(c, "Account is not available")
			return
		}

		s, err := sessions.Resume(c.Request.Context(), claims.SessionID, p)
		if err != nil {
			unauthorized(c, "Session is not available")
			return
		}

		c.Set(principalKey, p)
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RequirePermission must run after JWTAuth.
func RequirePermission(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principalFrom(c)
		if !ok {
			unauthorized(c, "Not authenticated")
			return
		}
		if !p.Can(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Your role cannot access this resource",
			})
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	return principalFrom(c)
}

func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
