package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/crewdesk/crewdesk-go/internal/logging"
)

// TokenSource yields the current access credential, or "" when absent.
// The session credential cache implements it.
type TokenSource interface {
	Token() string
}

// Refresher repairs an expired access credential. The session coordinator
// implements it and guarantees at most one refresh call is in flight.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// authTransport is the single interception point every outbound request
// passes through. On the way out it attaches the bearer credential; on the
// way back it classifies the response and, for a refreshable 401, asks the
// Refresher to repair the credential and replays the request once.
//
// A response is refreshable iff:
//   - status is 401,
//   - the request is not to the login or refresh endpoint (otherwise a bad
//     login or a failing refresh would recurse forever),
//   - the request body, if any, can be rebuilt via GetBody,
//   - a Refresher has been wired in.
//
// The replay's own response is returned as-is, so a second 401 on the same
// request surfaces to the caller instead of triggering another refresh.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	log    logging.Logger

	mu        sync.RWMutex
	refresher Refresher
}

func (t *authTransport) setRefresher(r Refresher) {
	t.mu.Lock()
	t.refresher = r
	t.mu.Unlock()
}

func (t *authTransport) currentRefresher() Refresher {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.refresher
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(t.withAuth(req))
	if err != nil {
		return nil, err
	}

	r := t.currentRefresher()
	if !refreshable(req, resp) || r == nil {
		return resp, nil
	}

	// The credential was rejected mid-session. Drain the connection, repair
	// the credential exactly once, and replay the original request.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if err := r.Refresh(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	retry, err := rewind(req)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(t.withAuth(retry))
}

// withAuth clones req (RoundTrip must not mutate its argument) and attaches
// the bearer credential when one is cached.
func (t *authTransport) withAuth(req *http.Request) *http.Request {
	r := req.Clone(req.Context())
	if tok := t.tokens.Token(); tok != "" {
		r.Header.Set("Authorization", "Bearer "+tok)
	}
	return r
}

func refreshable(req *http.Request, resp *http.Response) bool {
	if resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	p := req.URL.Path
	if strings.HasSuffix(p, "/auth/login") || strings.HasSuffix(p, "/auth/refresh") {
		return false
	}
	if req.Body != nil && req.GetBody == nil {
		return false
	}
	return true
}

// rewind rebuilds req for a replay, restoring the body from GetBody.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		r.Body = body
	}
	return r, nil
}
