package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OnlyAllowLocal rejects clients that are not on the loopback interface. The
// dashboard holds the user's bearer token, so it is not served to the LAN
// unless allowRemote is set. Pages on other sites can still reach loopback
// through the user's browser; SameOrigin covers that.
func OnlyAllowLocal(allowRemote bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowRemote {
			c.Next()
			return
		}
		ip := net.ParseIP(c.ClientIP())
		if ip == nil || !ip.IsLoopback() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
