package email

import (
	"bytes"
	"fmt"
	"html"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"
	"github.com/pkg/errors"

	"github.com/inboxbridge/inboxbridge/internal/models"
)

const replyPrefix = "Re: "

type messageParams struct {
	From      string
	To        []string
	Subject   string
	MessageID string
	InReplyTo string
	Text      string
	HTML      string
}

// envelopeAddress extracts the bare addr-spec from an RFC 5322 address
// header. SMTP MAIL/RCPT commands take the addr-spec only; display names and
// angle brackets belong in the message headers, not the envelope.
func envelopeAddress(header string) (string, error) {
	addr, err := mail.ParseAddress(header)
	if err != nil {
		return "", errors.Wrapf(err, "invalid address %q", header)
	}
	return addr.Address, nil
}

// replySubject prefixes the original subject with "Re: " unless it already
// carries the exact prefix.
func replySubject(subject string) string {
	if subject == models.FieldNotAvailable {
		subject = ""
	}
	if strings.HasPrefix(subject, replyPrefix) {
		return subject
	}
	return replyPrefix + subject
}

// buildReplyBodies assembles the reply content: the reply text followed by a
// quoted rendition of the original (date, sender, original HTML body). The
// plain-text alternative is derived from the HTML.
func buildReplyBodies(replyText string, source *models.ParsedEmail) (htmlBody, textBody string) {
	quoted := source.HTML
	if quoted == "" || quoted == models.FieldNotAvailable {
		quoted = "<p>" + html.EscapeString(source.Text) + "</p>"
	}

	date := source.RawDate
	if date == "" {
		date = source.Date.Format(time.RFC1123Z)
	}

	htmlBody = fmt.Sprintf(
		"<p>%s</p><br><blockquote>On %s, %s wrote:<br>%s</blockquote>",
		html.EscapeString(replyText),
		html.EscapeString(date),
		html.EscapeString(source.From),
		quoted,
	)

	textBody, err := html2text.FromString(htmlBody, html2text.Options{TextOnly: true})
	if err != nil {
		textBody = fmt.Sprintf("%s\n\nOn %s, %s wrote:\n%s", replyText, date, source.From, source.Text)
	}

	return htmlBody, textBody
}

// buildMessage writes the outbound message in MIME format: a single
// text/plain body, or multipart/alternative when an HTML body is present.
func buildMessage(p messageParams) (*bytes.Buffer, error) {
	buffer := bytes.NewBuffer(nil)

	headers := map[string]string{
		"From":         p.From,
		"To":           strings.Join(p.To, ", "),
		"Subject":      p.Subject,
		"Date":         time.Now().Format(time.RFC1123Z),
		"Message-ID":   p.MessageID,
		"MIME-Version": "1.0",
	}
	if p.InReplyTo != "" {
		headers["In-Reply-To"] = p.InReplyTo
		headers["References"] = p.InReplyTo
	}

	if p.HTML == "" {
		headers["Content-Type"] = "text/plain; charset=UTF-8"
		writeHeaders(headers, buffer)
		_, err := buffer.WriteString(p.Text)
		return buffer, err
	}

	writer := multipart.NewWriter(buffer)
	headers["Content-Type"] = "multipart/alternative; boundary=" + writer.Boundary()
	writeHeaders(headers, buffer)

	if err := addPart(writer, "text/plain; charset=UTF-8", p.Text); err != nil {
		return nil, err
	}
	if err := addPart(writer, "text/html; charset=UTF-8", p.HTML); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer, nil
}

// writeHeaders writes email headers to the buffer.
func writeHeaders(headers map[string]string, buffer *bytes.Buffer) {
	for k, v := range headers {
		buffer.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	buffer.WriteString("\r\n")
}

// addPart adds a quoted-printable body part to a multipart message.
func addPart(writer *multipart.Writer, contentType, content string) error {
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}

	encoder := quotedprintable.NewWriter(part)
	if _, err = encoder.Write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write %s content: %w", contentType, err)
	}
	return encoder.Close()
}
