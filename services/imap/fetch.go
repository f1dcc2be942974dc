package imap

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"
	"golang.org/x/sync/errgroup"

	er "github.com/inboxbridge/inboxbridge/internal/errors"
	"github.com/inboxbridge/inboxbridge/internal/models"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

// fetchItems asks for the full body without setting the seen flag, so
// listing stays side-effect-free on flag state.
func fetchItems(section *imap.BodySectionName) []imap.FetchItem {
	return []imap.FetchItem{
		section.FetchItem(),
		imap.FetchFlags,
		imap.FetchUid,
	}
}

// fetchAndParse fetches raw bodies for exactly the given sequence ids and
// parses each into a normalized record. Bodies arrive sequentially from the
// fetch stream; parsing fans out concurrently and is joined with an
// all-complete barrier before returning. The seen flag is captured from the
// fetch attributes before the body is parsed.
func (s *IMAPService) fetchAndParse(ctx context.Context, c *client.Client, ids []uint32) ([]models.EmailMessage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.fetchAndParse")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("messages.requested", len(ids))

	seqSet := new(imap.SeqSet)
	for _, id := range ids {
		seqSet.AddNum(id)
	}

	section := &imap.BodySectionName{Peek: true}
	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)

	c.Timeout = 60 * time.Second
	go func() {
		done <- c.Fetch(seqSet, fetchItems(section), messages)
	}()

	group, _ := errgroup.WithContext(ctx)

	var mu sync.Mutex
	emails := make([]models.EmailMessage, 0, len(ids))
	var readErr error

	for msg := range messages {
		id := msg.SeqNum
		seen := hasFlag(msg.Flags, imap.SeenFlag)

		raw, err := readBody(msg, section)
		if err != nil {
			// Keep draining the channel so the fetch goroutine can finish.
			if readErr == nil {
				readErr = err
			}
			continue
		}

		group.Go(func() error {
			email, err := parseEmail(id, seen, raw)
			if err != nil {
				return err
			}
			mu.Lock()
			emails = append(emails, email)
			mu.Unlock()
			return nil
		})
	}

	c.Timeout = 0

	if err := <-done; err != nil {
		err = fmt.Errorf("error fetching messages: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}
	if readErr != nil {
		tracing.TraceErr(span, readErr)
		return nil, readErr
	}

	if err := group.Wait(); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	span.SetTag("messages.parsed", len(emails))
	return emails, nil
}

// fetchOne fetches the raw body and seen flag of a single message.
func (s *IMAPService) fetchOne(ctx context.Context, c *client.Client, id uint32) ([]byte, bool, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPService.fetchOne")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("id", id)

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	section := &imap.BodySectionName{Peek: true}
	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)

	c.Timeout = 60 * time.Second
	go func() {
		done <- c.Fetch(seqSet, fetchItems(section), messages)
	}()

	var raw []byte
	var seen bool
	var found bool
	var readErr error

	for msg := range messages {
		seen = hasFlag(msg.Flags, imap.SeenFlag)
		raw, readErr = readBody(msg, section)
		found = readErr == nil
	}

	c.Timeout = 0

	if err := <-done; err != nil {
		err = fmt.Errorf("error fetching message %d: %w", id, err)
		tracing.TraceErr(span, err)
		return nil, false, err
	}
	if readErr != nil {
		tracing.TraceErr(span, readErr)
		return nil, false, readErr
	}
	if !found {
		tracing.TraceErr(span, er.ErrMessageNotFound)
		return nil, false, er.ErrMessageNotFound
	}

	return raw, seen, nil
}

// readBody drains the body literal of a fetched message.
func readBody(msg *imap.Message, section *imap.BodySectionName) ([]byte, error) {
	literal := msg.GetBody(section)
	if literal == nil {
		return nil, fmt.Errorf("message %d has no body section", msg.SeqNum)
	}

	raw, err := io.ReadAll(literal)
	if err != nil {
		return nil, fmt.Errorf("error reading body of message %d: %w", msg.SeqNum, err)
	}
	return raw, nil
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
