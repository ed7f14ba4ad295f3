package middleware

import (
	"net/http"
	"strings"
	"time"

	"customer-insights/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionSource returns the session the dashboard currently trusts, or nil.
type SessionSource func() *session.Session

// RequireSession lets a request through only while a session is held. Page
// requests are sent back to / (which shows the login view); /api requests
// get a JSON 401.
func RequireSession(current SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := current()
		if s == nil {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		// Informational only. The backend decides when a token is dead.
		if exp, ok := s.ExpiresAt(); ok && time.Until(exp) < 24*time.Hour {
			c.Header("X-Session-Expires", exp.UTC().Format(time.RFC3339))
		}
		c.Next()
	}
}
