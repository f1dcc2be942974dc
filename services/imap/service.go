package imap

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"

	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/internal/logger"
	"github.com/inboxbridge/inboxbridge/internal/models"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
	"github.com/inboxbridge/inboxbridge/services/session"
)

// IMAPService is the retrieval and mutation engine over the session's single
// IMAP connection.
type IMAPService struct {
	session *session.Service
	cfg     *config.MailConfig
	log     logger.Logger
}

func NewIMAPService(sess *session.Service, cfg *config.MailConfig, log logger.Logger) *IMAPService {
	return &IMAPService{
		session: sess,
		cfg:     cfg,
		log:     log,
	}
}

// selectFolder selects a folder on the IMAP server.
func (s *IMAPService) selectFolder(ctx context.Context, c *client.Client, folderName string, readOnly bool) (*imap.MailboxStatus, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPService.selectFolder")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagFolder(span, folderName)
	span.SetTag("read_only", readOnly)

	c.Timeout = 30 * time.Second
	mbox, err := c.Select(folderName, readOnly)
	c.Timeout = 0 // Reset timeout

	if err != nil {
		err = fmt.Errorf("error selecting folder %s: %w", folderName, err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	span.SetTag("messages.total", mbox.Messages)
	span.SetTag("messages.unseen", mbox.Unseen)

	return mbox, nil
}

// ListPage lists one page of a folder, newest first. Page 1 holds the newest
// pageSize messages; out-of-range pages yield an empty page, not an error.
// The listing is an all-or-nothing request: any open, list or fetch error
// discards partial results.
func (s *IMAPService) ListPage(ctx context.Context, folder string, page, pageSize int) (*models.EmailPage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.ListPage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagFolder(span, folder)
	span.SetTag("page", page)
	span.SetTag("page_size", pageSize)

	c, err := s.session.AcquireConnection(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	mbox, err := s.selectFolder(ctx, c, folder, true)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	total := int(mbox.Messages)
	result := &models.EmailPage{
		Emails:        []models.EmailMessage{},
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages(total, pageSize),
		TotalMessages: total,
	}

	ids := pageIDs(total, page, pageSize)
	span.SetTag("messages.page", len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	emails, err := s.fetchAndParse(ctx, c, ids)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Parsing completes in arbitrary order; restore newest-first before
	// crossing the HTTP boundary.
	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ID > emails[j].ID
	})

	result.Emails = emails
	return result, nil
}

// FetchMessage fetches and parses a single message by sequence id.
func (s *IMAPService) FetchMessage(ctx context.Context, folder string, id uint32, readOnly bool) (*models.ParsedEmail, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.FetchMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagFolder(span, folder)
	span.SetTag("id", id)

	c, err := s.session.AcquireConnection(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	if _, err := s.selectFolder(ctx, c, folder, readOnly); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	raw, seen, err := s.fetchOne(ctx, c, id)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	parsed, err := parseFullEmail(id, seen, raw)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return parsed, nil
}
