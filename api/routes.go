package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/inboxbridge/inboxbridge/api/handlers"
	"github.com/inboxbridge/inboxbridge/api/middleware"
	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
	"github.com/inboxbridge/inboxbridge/services"
)

// RegisterRoutes sets up all API endpoints. Everything except /logged-in and
// /logout requires basic auth, which also lazily creates the mailbox
// session.
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, cfg *config.Config) {
	if s == nil {
		panic("Services cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))
	r.Use(middleware.RequestIDMiddleware())

	r.GET("/health", handlers.HealthCheck)
	r.GET("/logged-in", handlers.LoggedIn(s.SessionService))
	r.GET("/logout", handlers.Logout(s.SessionService))

	authenticated := r.Group("")
	authenticated.Use(middleware.BasicSessionMiddleware(s.SessionService))
	authenticated.Use(middleware.TracingMiddleware())
	{
		authenticated.GET("/login", handlers.Login())
		authenticated.GET("/get-emails", handlers.GetEmails(s.MailboxService, cfg.MailConfig))
		authenticated.POST("/send-email", handlers.SendEmail(s.EmailService))
		authenticated.POST("/send-reply", handlers.SendReply(s.EmailService))
		authenticated.POST("/mark-as-read", handlers.MarkAsRead(s.MailboxService))
		authenticated.POST("/mark-as-unread", handlers.MarkAsUnread(s.MailboxService))
		authenticated.POST("/move-to-folder", handlers.MoveToFolder(s.MailboxService))
		authenticated.POST("/delete-email", handlers.DeleteEmail(s.MailboxService))
	}
}
