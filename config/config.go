package config

import (
	"github.com/inboxbridge/inboxbridge/internal/logger"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"8080"`
}

// MailConfig describes the upstream mail servers the bridge talks to. The
// bridge owns a single session against these servers, authenticated with the
// credentials of the first request.
type MailConfig struct {
	IMAPServer string `env:"IMAP_SERVER,required"`
	IMAPPort   int    `env:"IMAP_PORT" envDefault:"993"`
	IMAPTLS    bool   `env:"IMAP_TLS" envDefault:"true"`

	SMTPServer   string `env:"SMTP_SERVER,required"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecurity string `env:"SMTP_SECURITY" envDefault:"starttls"`

	DefaultFolder   string `env:"DEFAULT_FOLDER" envDefault:"INBOX"`
	SentFolder      string `env:"SENT_FOLDER" envDefault:"Sent"`
	TrashFolder     string `env:"TRASH_FOLDER" envDefault:"Trash"`
	DefaultPageSize int    `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
}

type Config struct {
	AppConfig  *AppConfig
	MailConfig *MailConfig
	Logger     *logger.Config
	Tracing    *tracing.JaegerConfig
}
