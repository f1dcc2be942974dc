package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/internal/logger"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

const (
	SecurityStartTLS = "starttls"
	SecurityTLS      = "tls"
)

// Client is the outbound half of the mailbox session. It holds the
// credentials of the authenticated user and opens a fresh SMTP conversation
// per send.
type Client struct {
	cfg      *config.MailConfig
	log      logger.Logger
	username string
	password string
}

func NewClient(cfg *config.MailConfig, log logger.Logger, username, password string) *Client {
	return &Client{
		cfg:      cfg,
		log:      log,
		username: username,
		password: password,
	}
}

// From is the sender address of this session.
func (c *Client) From() string {
	return c.username
}

// Domain is the sender domain, used to scope generated message identifiers.
func (c *Client) Domain() string {
	parts := strings.Split(c.username, "@")
	if len(parts) == 2 {
		return parts[1]
	}
	return c.cfg.SMTPServer
}

// Send delivers the prepared message to the SMTP server.
func (c *Client) Send(ctx context.Context, from string, recipients []string, message *bytes.Buffer) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SMTPClient.Send")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("recipients", len(recipients))

	addr := fmt.Sprintf("%s:%d", c.cfg.SMTPServer, c.cfg.SMTPPort)
	auth := smtp.PlainAuth("", c.username, c.password, c.cfg.SMTPServer)

	var err error
	switch c.cfg.SMTPSecurity {
	case SecurityStartTLS:
		err = c.sendWithSTARTTLS(ctx, addr, auth, from, recipients, message)
	case SecurityTLS:
		err = c.sendWithExplicitTLS(ctx, addr, auth, from, recipients, message)
	default:
		err = smtp.SendMail(addr, auth, from, recipients, message.Bytes())
	}

	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (c *Client) sendWithSTARTTLS(ctx context.Context, addr string, auth smtp.Auth, from string, recipients []string, buffer *bytes.Buffer) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "SMTPClient.sendWithSTARTTLS")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("smtp_server", c.cfg.SMTPServer)
	span.LogKV("from_address", from)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		err = fmt.Errorf("failed to connect to SMTP server: %w", err)
		tracing.TraceErr(span, err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, c.cfg.SMTPServer)
	if err != nil {
		err = fmt.Errorf("failed to create SMTP client: %w", err)
		tracing.TraceErr(span, err)
		return err
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: c.cfg.SMTPServer,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		err = fmt.Errorf("failed to start TLS: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	// Authenticate after TLS is established
	if err = client.Auth(auth); err != nil {
		err = fmt.Errorf("SMTP authentication failed: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	return c.transmit(span, client, from, recipients, buffer)
}

func (c *Client) sendWithExplicitTLS(ctx context.Context, addr string, auth smtp.Auth, from string, recipients []string, buffer *bytes.Buffer) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "SMTPClient.sendWithExplicitTLS")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("address", addr)

	tlsConfig := &tls.Config{
		ServerName: c.cfg.SMTPServer,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		err = fmt.Errorf("failed to connect to SMTP server: %w", err)
		tracing.TraceErr(span, err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, c.cfg.SMTPServer)
	if err != nil {
		err = fmt.Errorf("failed to create SMTP client: %w", err)
		tracing.TraceErr(span, err)
		return err
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		err = fmt.Errorf("SMTP authentication failed: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	return c.transmit(span, client, from, recipients, buffer)
}

// transmit runs the MAIL/RCPT/DATA sequence on an authenticated client.
func (c *Client) transmit(span opentracing.Span, client *smtp.Client, from string, recipients []string, buffer *bytes.Buffer) error {
	if err := client.Mail(from); err != nil {
		err = fmt.Errorf("SMTP MAIL command failed: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	for _, recipient := range recipients {
		if err := client.Rcpt(recipient); err != nil {
			err = fmt.Errorf("SMTP RCPT command failed for %s: %w", recipient, err)
			tracing.TraceErr(span, err)
			return err
		}
	}

	dataWriter, err := client.Data()
	if err != nil {
		err = fmt.Errorf("SMTP DATA command failed: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	if _, err = dataWriter.Write(buffer.Bytes()); err != nil {
		err = fmt.Errorf("failed to write email data: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	if err = dataWriter.Close(); err != nil {
		err = fmt.Errorf("failed to close data writer: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	return client.Quit()
}
