package interfaces

import (
	"context"

	"github.com/inboxbridge/inboxbridge/internal/models"
)

// MailboxService is the retrieval and mutation surface over the live IMAP
// session. Message ids are per-folder sequence numbers.
type MailboxService interface {
	// ResolveFolder maps a user-supplied name to an actual folder name via a
	// case-insensitive lookup, preferring exact matches over substring
	// matches. The resolved folder becomes the session's selected folder.
	ResolveFolder(ctx context.Context, requested string) (string, error)

	// ListPage returns one page of the folder in id-descending order, newest
	// first. Out-of-range pages yield an empty page, not an error. Listing
	// never mutates the seen flag.
	ListPage(ctx context.Context, folder string, page, pageSize int) (*models.EmailPage, error)

	MarkRead(ctx context.Context, id uint32) error
	MarkUnread(ctx context.Context, id uint32) error
	MoveToFolder(ctx context.Context, id uint32, sourceFolder, destFolder string) error

	// DeleteMessage flags the message deleted in the trash folder and expunges
	// asynchronously; expunge failures are logged, never surfaced.
	DeleteMessage(ctx context.Context, id uint32) error
}
