package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inboxbridge/inboxbridge/interfaces"
)

// BasicSessionMiddleware extracts basic auth credentials from the request and
// eagerly ensures the mailbox session exists. Credentials are never
// persisted; once a session is live, later requests reuse it regardless of
// the credentials they carry.
func BasicSessionMiddleware(sessionService interfaces.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing credentials",
			})
			c.Abort()
			return
		}

		err := sessionService.EnsureSession(c.Request.Context(), interfaces.Credentials{
			Username: username,
			Password: password,
		})
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication failed",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
