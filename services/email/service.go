package email

import (
	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/internal/logger"
	imapservice "github.com/inboxbridge/inboxbridge/services/imap"
	"github.com/inboxbridge/inboxbridge/services/session"
)

// EmailService composes and sends outbound mail through the session's SMTP
// client and keeps best-effort copies in the Sent folder.
type EmailService struct {
	session *session.Service
	imap    *imapservice.IMAPService
	cfg     *config.MailConfig
	log     logger.Logger
}

func NewEmailService(sess *session.Service, imapSvc *imapservice.IMAPService, cfg *config.MailConfig, log logger.Logger) *EmailService {
	return &EmailService{
		session: sess,
		imap:    imapSvc,
		cfg:     cfg,
		log:     log,
	}
}
