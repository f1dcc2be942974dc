package email

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/inboxbridge/inboxbridge/internal/models"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
	"github.com/inboxbridge/inboxbridge/internal/utils"
)

// Reply fetches the source message from the session's selected folder,
// builds a quoted reply linked to it via In-Reply-To and sends it to the
// original sender. A send failure aborts before any Sent append; once the
// send succeeded, the Sent copy is best effort only.
func (s *EmailService) Reply(ctx context.Context, sourceID uint32, replyText string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EmailService.Reply")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("source_id", sourceID)

	folder := s.session.SelectedFolder()
	tracing.TagFolder(span, folder)

	source, err := s.imap.FetchMessage(ctx, folder, sourceID, false)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	outbound, err := s.session.AcquireOutbound(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	recipient := source.From
	if recipient == "" || recipient == models.FieldNotAvailable {
		err = errors.New("source message has no sender to reply to")
		tracing.TraceErr(span, err)
		return err
	}

	// The From header usually carries a display name; the SMTP envelope
	// needs the bare addr-spec.
	envelopeTo, err := envelopeAddress(recipient)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	htmlBody, textBody := buildReplyBodies(replyText, source)

	from := outbound.From()
	message, err := buildMessage(messageParams{
		From:      from,
		To:        []string{recipient},
		Subject:   replySubject(source.Subject),
		MessageID: utils.GenerateMessageID(outbound.Domain(), source.MessageID),
		InReplyTo: source.MessageID,
		Text:      textBody,
		HTML:      htmlBody,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	raw := make([]byte, message.Len())
	copy(raw, message.Bytes())

	if err := outbound.Send(ctx, from, []string{envelopeTo}, message); err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "error sending reply")
	}

	s.appendToSentAsync(raw)
	return nil
}
