package imap

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"

	er "github.com/inboxbridge/inboxbridge/internal/errors"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

// ResolveFolder maps a user-supplied folder name to an actual folder on the
// server. The live folder list is fetched fresh on every call; matching is
// case-insensitive, exact matches win over substring matches, remaining ties
// resolve to the first name in sorted order. On success the resolved folder
// becomes the session's selected folder.
func (s *IMAPService) ResolveFolder(ctx context.Context, requested string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.ResolveFolder")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("requested", requested)

	c, err := s.session.AcquireConnection(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	folders, err := s.listFolders(ctx, c)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	resolved, ok := matchFolder(folders, requested)
	if !ok {
		tracing.TraceErr(span, er.ErrFolderNotFound)
		return "", er.ErrFolderNotFound
	}

	span.SetTag("resolved", resolved)
	s.session.SetSelectedFolder(resolved)
	return resolved, nil
}

// listFolders lists all available folders on the server.
func (s *IMAPService) listFolders(ctx context.Context, c *client.Client) ([]string, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPService.listFolders")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	c.Timeout = 30 * time.Second
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)

	go func() {
		done <- c.List("", "*", mailboxes)
	}()

	var folders []string
	for m := range mailboxes {
		folders = append(folders, m.Name)
	}

	c.Timeout = 0 // Reset timeout
	err := <-done
	if err != nil {
		err = fmt.Errorf("error listing folders: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Sort folders alphabetically so tie-breaks stay deterministic
	sort.Strings(folders)

	span.SetTag("folders.count", len(folders))

	return folders, nil
}

// matchFolder picks the folder matching the requested name: exact
// case-insensitive match first, then the first case-insensitive substring
// match.
func matchFolder(folders []string, requested string) (string, bool) {
	needle := strings.ToLower(requested)

	for _, folder := range folders {
		if strings.ToLower(folder) == needle {
			return folder, true
		}
	}

	for _, folder := range folders {
		if strings.Contains(strings.ToLower(folder), needle) {
			return folder, true
		}
	}

	return "", false
}
