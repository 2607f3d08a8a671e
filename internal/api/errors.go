package api

import (
	"errors"
	"fmt"

	"github.com/crewdesk/crewdesk-go/internal/common"
)

var (
	// ErrUnavailable marks transport-level failures: the server could not
	// be reached or did not answer in time.
	ErrUnavailable = errors.New("server unavailable")

	// ErrSessionExpired marks a terminal refresh failure: the credential
	// could not be repaired and the session is gone. Wraps the underlying
	// refresh error (common.ErrNoSession, an *Error, ErrUnavailable).
	ErrSessionExpired = errors.New("session expired")
)

// Error is a typed API error carrying the HTTP status and the server's
// message, so calling code can branch on kind instead of string matching.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Unwrap maps authorization statuses onto the shared sentinel so callers can
// use errors.Is(err, common.ErrUnauthorized).
func (e *Error) Unwrap() error {
	if e.Status == 401 || e.Status == 403 {
		return common.ErrUnauthorized
	}
	return nil
}
