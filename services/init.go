package services

import (
	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/interfaces"
	"github.com/inboxbridge/inboxbridge/internal/logger"
	"github.com/inboxbridge/inboxbridge/services/email"
	imapservice "github.com/inboxbridge/inboxbridge/services/imap"
	"github.com/inboxbridge/inboxbridge/services/session"
)

type Services struct {
	SessionService interfaces.SessionService
	MailboxService interfaces.MailboxService
	EmailService   interfaces.EmailService
}

func InitServices(cfg *config.Config, log logger.Logger) *Services {
	sessionService := session.NewService(cfg.MailConfig, log)
	imapService := imapservice.NewIMAPService(sessionService, cfg.MailConfig, log)
	emailService := email.NewEmailService(sessionService, imapService, cfg.MailConfig, log)

	return &Services{
		SessionService: sessionService,
		MailboxService: imapService,
		EmailService:   emailService,
	}
}
