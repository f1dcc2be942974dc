package imap

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	"github.com/opentracing/opentracing-go"

	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

// MarkRead adds the seen flag on the message in the session's selected
// folder.
func (s *IMAPService) MarkRead(ctx context.Context, id uint32) error {
	return s.storeFlags(ctx, "IMAPService.MarkRead", id, imap.AddFlags, imap.SeenFlag)
}

// MarkUnread removes the seen flag on the message in the session's selected
// folder.
func (s *IMAPService) MarkUnread(ctx context.Context, id uint32) error {
	return s.storeFlags(ctx, "IMAPService.MarkUnread", id, imap.RemoveFlags, imap.SeenFlag)
}

// storeFlags applies a single flag change against the session's selected
// folder. One round-trip, no batching.
func (s *IMAPService) storeFlags(ctx context.Context, operationName string, id uint32, op imap.FlagsOp, flags ...string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, operationName)
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("id", id)

	c, err := s.session.AcquireConnection(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	folder := s.session.SelectedFolder()
	tracing.TagFolder(span, folder)

	if _, err := s.selectFolder(ctx, c, folder, false); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	values := make([]interface{}, 0, len(flags))
	for _, flag := range flags {
		values = append(values, flag)
	}

	c.Timeout = 30 * time.Second
	err = c.Store(seqSet, imap.FormatFlagsOp(op, true), values, nil)
	c.Timeout = 0

	if err != nil {
		err = fmt.Errorf("error updating flags on message %d: %w", id, err)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

// MoveToFolder moves a message from sourceFolder to destFolder.
func (s *IMAPService) MoveToFolder(ctx context.Context, id uint32, sourceFolder, destFolder string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.MoveToFolder")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagFolder(span, sourceFolder)
	span.SetTag("id", id)
	span.SetTag("destination", destFolder)

	c, err := s.session.AcquireConnection(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if _, err := s.selectFolder(ctx, c, sourceFolder, false); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	c.Timeout = 30 * time.Second
	err = c.Move(seqSet, destFolder)
	c.Timeout = 0

	if err != nil {
		err = fmt.Errorf("error moving message %d to %s: %w", id, destFolder, err)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

// DeleteMessage flags a message in the trash folder as deleted, then
// expunges the folder asynchronously. The caller gets its success before the
// expunge runs; expunge failures are logged, never surfaced, and leave the
// mailbox in a flagged-but-not-expunged state a later expunge can recover.
func (s *IMAPService) DeleteMessage(ctx context.Context, id uint32) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.DeleteMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagFolder(span, s.cfg.TrashFolder)
	span.SetTag("id", id)

	c, err := s.session.AcquireConnection(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if _, err := s.selectFolder(ctx, c, s.cfg.TrashFolder, false); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	c.Timeout = 30 * time.Second
	err = c.Store(seqSet, imap.FormatFlagsOp(imap.AddFlags, true), []interface{}{imap.DeletedFlag}, nil)
	c.Timeout = 0

	if err != nil {
		err = fmt.Errorf("error flagging message %d as deleted: %w", id, err)
		tracing.TraceErr(span, err)
		return err
	}

	// Fire-and-forget cleanup of flagged messages. The client is shared with
	// in-flight requests, so the goroutine must not touch c.Timeout.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorf("Recovered from panic during expunge: %v", r)
			}
		}()

		if err := c.Expunge(nil); err != nil {
			s.log.Warnf("Error expunging %s after delete: %v", s.cfg.TrashFolder, err)
		}
	}()

	return nil
}
