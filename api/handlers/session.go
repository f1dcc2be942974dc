package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inboxbridge/inboxbridge/interfaces"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

// Login confirms the credentials worked; the auth middleware already
// established the session before this handler runs.
func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Logged in",
		})
	}
}

// LoggedIn reports whether a live authenticated session exists. No auth
// middleware runs on this route.
func LoggedIn(sessionService interfaces.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessionService.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not logged in",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged in",
		})
	}
}

// Logout terminates the mailbox session. The connection and outbound client
// are destroyed together; the next authenticated request re-creates both.
func Logout(sessionService interfaces.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "Logout", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		if err := sessionService.Logout(ctx); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to log out",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out",
		})
	}
}
