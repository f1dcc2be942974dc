package errors

import "github.com/pkg/errors"

var (
	// session errors
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrNoCredentials    = errors.New("credentials are missing")

	// mailbox errors
	ErrFolderNotFound  = errors.New("folder not found")
	ErrMessageNotFound = errors.New("message not found")
)
