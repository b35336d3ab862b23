package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vijayapps/vac_site/internal/auth"
)

// SessionKey is the gin context key holding the validated admin session.
const SessionKey = "admin_session"

// TokenValidator checks admin bearer tokens.
type TokenValidator interface {
	Validate(token string) (auth.Session, bool)
}

// AdminAuth rejects requests without a live "Authorization: Bearer <token>" session.
func AdminAuth(sessions TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		sess, ok := sessions.Validate(token)
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin session required"})
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
