package imap

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxbridge/inboxbridge/internal/models"
)

func plainMessage() []byte {
	return []byte(strings.Join([]string{
		"From: Alice Example <alice@example.com>",
		"To: bob@example.com",
		"Subject: Quarterly report",
		"Date: Mon, 02 Jan 2006 15:04:05 -0700",
		"Message-Id: <report-123@example.com>",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"Please find the report attached.",
	}, "\r\n"))
}

func htmlMessage() []byte {
	return []byte(strings.Join([]string{
		"From: alice@example.com",
		"To: bob@example.com",
		"Subject: Status",
		"Date: Mon, 02 Jan 2006 15:04:05 -0700",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=frontier",
		"",
		"--frontier",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"All systems go.",
		"--frontier",
		"Content-Type: text/html; charset=UTF-8",
		"",
		"<p>All systems <b>go</b>.</p>",
		"--frontier--",
	}, "\r\n"))
}

func TestParseEmail_PlainText(t *testing.T) {
	email, err := parseEmail(7, true, plainMessage())
	require.NoError(t, err)

	assert.Equal(t, uint32(7), email.ID)
	assert.True(t, email.Seen)
	assert.Equal(t, "Alice Example <alice@example.com>", email.From)
	assert.Equal(t, "bob@example.com", email.To)
	assert.Equal(t, "Quarterly report", email.Subject)
	assert.Contains(t, email.Text, "Please find the report attached.")
	assert.Equal(t, models.FieldNotAvailable, email.HTML)

	expectedDate := time.Date(2006, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*3600))
	assert.True(t, email.Date.Equal(expectedDate))
}

func TestParseEmail_HTMLAlternative(t *testing.T) {
	email, err := parseEmail(3, false, htmlMessage())
	require.NoError(t, err)

	assert.False(t, email.Seen)
	assert.Contains(t, email.Text, "All systems go.")
	assert.Contains(t, email.HTML, "<b>go</b>")
}

func TestParseEmail_MissingFieldsDefaultToPlaceholder(t *testing.T) {
	raw := []byte("Content-Type: text/plain\r\n\r\nbody only\r\n")

	email, err := parseEmail(1, false, raw)
	require.NoError(t, err)

	assert.Equal(t, models.FieldNotAvailable, email.From)
	assert.Equal(t, models.FieldNotAvailable, email.To)
	assert.Equal(t, models.FieldNotAvailable, email.Subject)
	assert.WithinDuration(t, time.Now(), email.Date, 5*time.Second)
}

func TestParseEmail_SeenFlagIndependentOfBody(t *testing.T) {
	seen, err := parseEmail(1, true, plainMessage())
	require.NoError(t, err)
	unseen, err := parseEmail(1, false, plainMessage())
	require.NoError(t, err)

	assert.True(t, seen.Seen)
	assert.False(t, unseen.Seen)
}

func TestParseFullEmail_KeepsThreadingHeaders(t *testing.T) {
	parsed, err := parseFullEmail(7, false, plainMessage())
	require.NoError(t, err)

	assert.Equal(t, "<report-123@example.com>", parsed.MessageID)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 -0700", parsed.RawDate)
	assert.Equal(t, "Quarterly report", parsed.Subject)
}

func TestParseDate_Invalid(t *testing.T) {
	assert.WithinDuration(t, time.Now(), parseDate("not a date"), 5*time.Second)
	assert.WithinDuration(t, time.Now(), parseDate(""), 5*time.Second)
}
