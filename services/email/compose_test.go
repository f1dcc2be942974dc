package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxbridge/inboxbridge/internal/models"
)

func TestReplySubject(t *testing.T) {
	assert.Equal(t, "Re: Hello", replySubject("Hello"))
	assert.Equal(t, "Re: Hello", replySubject("Re: Hello"))
	// the prefix check is case-sensitive and exact
	assert.Equal(t, "Re: RE: Hello", replySubject("RE: Hello"))
	assert.Equal(t, "Re: ", replySubject(models.FieldNotAvailable))
}

func TestEnvelopeAddress_StripsDisplayName(t *testing.T) {
	addr, err := envelopeAddress("Alice Example <alice@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", addr)
}

func TestEnvelopeAddress_BareAddrSpec(t *testing.T) {
	addr, err := envelopeAddress("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", addr)
}

func TestEnvelopeAddress_RejectsNonAddress(t *testing.T) {
	_, err := envelopeAddress(models.FieldNotAvailable)
	assert.Error(t, err)
}

func sourceEmail() *models.ParsedEmail {
	return &models.ParsedEmail{
		EmailMessage: models.EmailMessage{
			ID:      4,
			From:    "alice@example.com",
			Subject: "Status",
			Text:    "All systems go.",
			HTML:    "<p>All systems <b>go</b>.</p>",
			Date:    time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		MessageID: "<status-4@example.com>",
		RawDate:   "Mon, 02 Jan 2006 15:04:05 +0000",
	}
}

func TestBuildReplyBodies_QuotesOriginal(t *testing.T) {
	htmlBody, textBody := buildReplyBodies("Thanks, looks good", sourceEmail())

	assert.Contains(t, htmlBody, "Thanks, looks good")
	assert.Contains(t, htmlBody, "Mon, 02 Jan 2006 15:04:05 +0000")
	assert.Contains(t, htmlBody, "alice@example.com")
	assert.Contains(t, htmlBody, "<p>All systems <b>go</b>.</p>")
	assert.Contains(t, htmlBody, "<blockquote>")

	assert.Contains(t, textBody, "Thanks, looks good")
	assert.Contains(t, textBody, "alice@example.com")
}

func TestBuildReplyBodies_FallsBackToTextWhenNoHTML(t *testing.T) {
	source := sourceEmail()
	source.HTML = models.FieldNotAvailable

	htmlBody, _ := buildReplyBodies("ack", source)

	assert.Contains(t, htmlBody, "All systems go.")
}

func TestBuildReplyBodies_EscapesReplyText(t *testing.T) {
	htmlBody, _ := buildReplyBodies("<script>alert(1)</script>", sourceEmail())

	assert.NotContains(t, htmlBody, "<script>")
	assert.Contains(t, htmlBody, "&lt;script&gt;")
}

func TestBuildMessage_PlainText(t *testing.T) {
	message, err := buildMessage(messageParams{
		From:      "bob@example.com",
		To:        []string{"alice@example.com"},
		Subject:   "Hello",
		MessageID: "<msg-1@example.com>",
		Text:      "Hi Alice",
	})
	require.NoError(t, err)

	raw := message.String()
	assert.Contains(t, raw, "From: bob@example.com\r\n")
	assert.Contains(t, raw, "To: alice@example.com\r\n")
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.Contains(t, raw, "Message-ID: <msg-1@example.com>\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.Contains(t, raw, "Hi Alice")
	assert.NotContains(t, raw, "In-Reply-To")
}

func TestBuildMessage_MultipartWithThreading(t *testing.T) {
	message, err := buildMessage(messageParams{
		From:      "bob@example.com",
		To:        []string{"alice@example.com"},
		Subject:   "Re: Status",
		MessageID: "<msg-2@example.com>",
		InReplyTo: "<status-4@example.com>",
		Text:      "ack",
		HTML:      "<p>ack</p>",
	})
	require.NoError(t, err)

	raw := message.String()
	assert.Contains(t, raw, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, raw, "In-Reply-To: <status-4@example.com>\r\n")
	assert.Contains(t, raw, "References: <status-4@example.com>\r\n")
	assert.Contains(t, raw, "text/plain; charset=UTF-8")
	assert.Contains(t, raw, "text/html; charset=UTF-8")
	assert.Contains(t, raw, "ack")
}
