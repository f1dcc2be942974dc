package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"

	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/interfaces"
	er "github.com/inboxbridge/inboxbridge/internal/errors"
	"github.com/inboxbridge/inboxbridge/internal/logger"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
	"github.com/inboxbridge/inboxbridge/services/smtp"
)

// Service owns the process-wide mailbox session: at most one live IMAP
// connection and one outbound SMTP client at a time. Both are created
// together on the first successful authentication and destroyed together on
// logout. Handle creation is guarded by a mutex so lazy init happens at most
// once; logical mailbox operations are deliberately not serialized, so
// callers that mutate the mailbox concurrently must coordinate themselves.
type Service struct {
	cfg *config.MailConfig
	log logger.Logger

	mu             sync.Mutex
	imapClient     *client.Client
	outbound       *smtp.Client
	selectedFolder string
}

func NewService(cfg *config.MailConfig, log logger.Logger) *Service {
	return &Service{
		cfg:            cfg,
		log:            log,
		selectedFolder: cfg.DefaultFolder,
	}
}

// EnsureSession lazily establishes the IMAP connection and the outbound SMTP
// client if absent. Authentication is attempted at most once per missing
// handle: an existing connection is reused even when the credentials differ.
// On failure both handles stay nil, so a later request can retry.
func (s *Service) EnsureSession(ctx context.Context, creds interfaces.Credentials) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SessionService.EnsureSession")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.imapClient != nil {
		return nil
	}

	if creds.Username == "" || creds.Password == "" {
		tracing.TraceErr(span, er.ErrNoCredentials)
		return er.ErrNoCredentials
	}

	c, err := s.connect(ctx, creds)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	s.imapClient = c
	s.outbound = smtp.NewClient(s.cfg, s.log, creds.Username, creds.Password)
	s.log.Infof("Mailbox session established for %s", creds.Username)
	return nil
}

// connect dials the IMAP server and logs in with the given credentials.
func (s *Service) connect(ctx context.Context, creds interfaces.Credentials) (*client.Client, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "SessionService.connect")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("server", s.cfg.IMAPServer)
	span.SetTag("port", s.cfg.IMAPPort)
	span.SetTag("tls", s.cfg.IMAPTLS)

	serverAddr := fmt.Sprintf("%s:%d", s.cfg.IMAPServer, s.cfg.IMAPPort)

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	var c *client.Client
	var err error

	if s.cfg.IMAPTLS {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.IMAPServer,
		}
		c, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}

	if err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to connect to %s: %w", serverAddr, err)
	}

	c.Timeout = 30 * time.Second
	err = c.Login(creds.Username, creds.Password)
	if err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to login as %s: %w", creds.Username, err)
	}
	c.Timeout = 0 // No timeout for normal operations

	s.log.Infof("Connected and logged in to %s", serverAddr)
	return c, nil
}

// AcquireConnection returns the live IMAP connection. Any open folder
// selection is closed first so the caller starts from a clean state; this is
// defensive cleanup, not an error condition.
func (s *Service) AcquireConnection(ctx context.Context) (*client.Client, error) {
	s.mu.Lock()
	c := s.imapClient
	s.mu.Unlock()

	if c == nil {
		return nil, er.ErrNotAuthenticated
	}

	if c.State() == imap.SelectedState {
		if err := c.Close(); err != nil {
			s.log.Warnf("Error closing open folder selection: %v", err)
		}
	}

	return c, nil
}

// AcquireOutbound returns the live outbound SMTP client.
func (s *Service) AcquireOutbound(ctx context.Context) (*smtp.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outbound == nil {
		return nil, er.ErrNotAuthenticated
	}
	return s.outbound, nil
}

func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imapClient != nil
}

// SelectedFolder is the folder mutations and replies operate on when no
// explicit folder is given. It is set by the folder resolver.
func (s *Service) SelectedFolder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedFolder
}

func (s *Service) SetSelectedFolder(folder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedFolder = folder
}

// Logout terminates the IMAP connection and drops the outbound client. Both
// handles are nulled together; the next authenticated request re-creates
// them.
func (s *Service) Logout(ctx context.Context) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "SessionService.Logout")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.imapClient != nil {
		s.imapClient.Timeout = 5 * time.Second
		err = s.imapClient.Logout()
		if err != nil {
			tracing.TraceErr(span, err)
			s.log.Warnf("Error during logout: %v", err)
		}
	}

	s.imapClient = nil
	s.outbound = nil
	s.selectedFolder = s.cfg.DefaultFolder

	return err
}
