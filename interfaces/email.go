package interfaces

import "context"

type SendEmailRequest struct {
	To      string
	Subject string
	Body    string
}

// EmailService composes and sends outbound mail through the session's SMTP
// client, keeping a best-effort copy in the Sent folder.
type EmailService interface {
	Send(ctx context.Context, request SendEmailRequest) error

	// Reply fetches the source message from the session's selected folder,
	// builds a quoted reply linked via In-Reply-To and sends it. The Sent
	// append is best effort and never surfaces to the caller.
	Reply(ctx context.Context, sourceID uint32, replyText string) error
}
