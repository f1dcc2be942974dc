package imap

import (
	"bytes"
	"net/mail"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/inboxbridge/inboxbridge/internal/models"
)

// parseEmail converts a raw fetched body into a normalized message record.
// The seen flag comes from the fetch attributes, not from the body. Missing
// fields default to the N/A placeholder; a missing date defaults to the
// current time.
func parseEmail(id uint32, seen bool, raw []byte) (models.EmailMessage, error) {
	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return models.EmailMessage{}, errors.Wrapf(err, "error parsing message %d", id)
	}

	email := models.EmailMessage{
		ID:      id,
		From:    headerOrNA(envelope, "From"),
		To:      headerOrNA(envelope, "To"),
		Subject: headerOrNA(envelope, "Subject"),
		Date:    parseDate(envelope.GetHeader("Date")),
		Text:    valueOrNA(envelope.Text),
		HTML:    valueOrNA(envelope.HTML),
		Seen:    seen,
	}

	return email, nil
}

// parseFullEmail additionally keeps the threading headers needed to compose
// a reply.
func parseFullEmail(id uint32, seen bool, raw []byte) (*models.ParsedEmail, error) {
	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing message %d", id)
	}

	parsed := &models.ParsedEmail{
		EmailMessage: models.EmailMessage{
			ID:      id,
			From:    headerOrNA(envelope, "From"),
			To:      headerOrNA(envelope, "To"),
			Subject: headerOrNA(envelope, "Subject"),
			Date:    parseDate(envelope.GetHeader("Date")),
			Text:    valueOrNA(envelope.Text),
			HTML:    valueOrNA(envelope.HTML),
			Seen:    seen,
		},
		MessageID: envelope.GetHeader("Message-Id"),
		RawDate:   envelope.GetHeader("Date"),
	}

	return parsed, nil
}

func headerOrNA(envelope *enmime.Envelope, name string) string {
	return valueOrNA(envelope.GetHeader(name))
}

func valueOrNA(value string) string {
	if value == "" {
		return models.FieldNotAvailable
	}
	return value
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	date, err := mail.ParseDate(value)
	if err != nil {
		return time.Now()
	}
	return date
}
