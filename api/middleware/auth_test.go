package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxbridge/inboxbridge/interfaces"
)

type stubSessionService struct {
	ensureErr error
	seenCreds []interfaces.Credentials
}

func (s *stubSessionService) EnsureSession(ctx context.Context, creds interfaces.Credentials) error {
	s.seenCreds = append(s.seenCreds, creds)
	return s.ensureErr
}

func (s *stubSessionService) Authenticated() bool { return false }

func (s *stubSessionService) Logout(ctx context.Context) error { return nil }

func protectedRouter(sessionService interfaces.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BasicSessionMiddleware(sessionService))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func TestBasicSessionMiddleware_MissingCredentials(t *testing.T) {
	sessionService := &stubSessionService{}
	router := protectedRouter(sessionService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, sessionService.seenCreds)
}

func TestBasicSessionMiddleware_SessionFailure(t *testing.T) {
	sessionService := &stubSessionService{ensureErr: errors.New("login rejected")}
	router := protectedRouter(sessionService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.SetBasicAuth("alice@example.com", "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasicSessionMiddleware_PassesThrough(t *testing.T) {
	sessionService := &stubSessionService{}
	router := protectedRouter(sessionService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.SetBasicAuth("alice@example.com", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sessionService.seenCreds, 1)
	assert.Equal(t, "alice@example.com", sessionService.seenCreds[0].Username)
	assert.Equal(t, "secret", sessionService.seenCreds[0].Password)
}
