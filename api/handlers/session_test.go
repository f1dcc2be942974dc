package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inboxbridge/inboxbridge/interfaces"
)

type stubSessionService struct {
	authenticated bool
	ensureErr     error
	logoutErr     error
	logoutCalls   int
}

func (s *stubSessionService) EnsureSession(ctx context.Context, creds interfaces.Credentials) error {
	if s.ensureErr != nil {
		return s.ensureErr
	}
	s.authenticated = true
	return nil
}

func (s *stubSessionService) Authenticated() bool {
	return s.authenticated
}

func (s *stubSessionService) Logout(ctx context.Context) error {
	s.logoutCalls++
	if s.logoutErr != nil {
		return s.logoutErr
	}
	s.authenticated = false
	return nil
}

func TestLoggedIn_ReflectsSessionState(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessionService := &stubSessionService{}
	router := gin.New()
	router.GET("/logged-in", LoggedIn(sessionService))

	w := performRequest(router, http.MethodGet, "/logged-in", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sessionService.authenticated = true

	w = performRequest(router, http.MethodGet, "/logged-in", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogout_TerminatesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessionService := &stubSessionService{authenticated: true}
	router := gin.New()
	router.GET("/logout", Logout(sessionService))

	w := performRequest(router, http.MethodGet, "/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sessionService.logoutCalls)
	assert.False(t, sessionService.authenticated)
}

func TestLogout_IdempotentWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessionService := &stubSessionService{}
	router := gin.New()
	router.GET("/logout", Logout(sessionService))

	w := performRequest(router, http.MethodGet, "/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_ReturnsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/login", Login())

	w := performRequest(router, http.MethodGet, "/login", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged in")
}
