package email

import (
	"bytes"
	"context"
	"time"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/emersion/go-imap"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/inboxbridge/inboxbridge/interfaces"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
	"github.com/inboxbridge/inboxbridge/internal/utils"
)

// Send composes and delivers a new outbound message, then keeps a
// best-effort copy in the Sent folder.
func (s *EmailService) Send(ctx context.Context, request interfaces.SendEmailRequest) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EmailService.Send")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := validateSendRequest(request); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	outbound, err := s.session.AcquireOutbound(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	from := outbound.From()
	message, err := buildMessage(messageParams{
		From:      from,
		To:        []string{request.To},
		Subject:   request.Subject,
		MessageID: utils.GenerateMessageID(outbound.Domain(), ""),
		Text:      request.Body,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	raw := make([]byte, message.Len())
	copy(raw, message.Bytes())

	if err := outbound.Send(ctx, from, []string{request.To}, message); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	s.appendToSentAsync(raw)
	return nil
}

func validateSendRequest(request interfaces.SendEmailRequest) error {
	if request.To == "" {
		return errors.New("at least one recipient is required")
	}
	validation := mailvalidate.ValidateEmailSyntax(request.To)
	if !validation.IsValid {
		return errors.Errorf("recipient address %s is not valid", request.To)
	}
	if request.Subject == "" {
		return errors.New("email must have a subject")
	}
	if request.Body == "" {
		return errors.New("email must have a body")
	}
	return nil
}

// appendToSentAsync stores a copy of a sent message in the Sent folder. The
// user-visible send already succeeded, so failures are logged and swallowed.
func (s *EmailService) appendToSentAsync(raw []byte) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorf("Recovered from panic during Sent append: %v", r)
			}
		}()

		c, err := s.session.AcquireConnection(context.Background())
		if err != nil {
			s.log.Warnf("Skipping Sent copy, no connection: %v", err)
			return
		}

		// The client is shared with in-flight requests; leave c.Timeout alone.
		err = c.Append(s.cfg.SentFolder, []string{imap.SeenFlag}, time.Now(), bytes.NewBuffer(raw))
		if err != nil {
			s.log.Warnf("Error appending message to %s: %v", s.cfg.SentFolder, err)
		}
	}()
}
