package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/storage"
)

// CookieStore is an http.CookieJar for a single-host client that mirrors its
// contents into a durable storage slot, so the HTTP-only refresh cookie
// survives a process restart the way browser cookies survive a reload.
//
// Because the client only ever talks to one host, cookies are keyed by name
// and matched on path alone. The stdlib cookiejar is not used: it cannot
// export its contents for persistence.
type CookieStore struct {
	mu      sync.Mutex
	cookies map[string]storedCookie
	repo    storage.Repository
	log     logging.Logger
	now     func() time.Time
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires,omitempty"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// NewCookieStore creates a store backed by repo. A nil repo makes the store
// purely in-memory (used by tests).
func NewCookieStore(repo storage.Repository, log logging.Logger) *CookieStore {
	return &CookieStore{
		cookies: make(map[string]storedCookie),
		repo:    repo,
		log:     log,
		now:     time.Now,
	}
}

// Load restores previously persisted cookies. Call once before first use.
func (s *CookieStore) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	data, err := s.repo.Get(ctx, common.CookieSlot)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var list []storedCookie
	if err := json.Unmarshal(data, &list); err != nil {
		// A corrupt slot is not worth failing startup over; start empty.
		s.log.Warn(ctx, "discarding unreadable cookie slot", "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, c := range list {
		if !c.expired(now) {
			s.cookies[c.Name] = c
		}
	}
	return nil
}

// SetCookies implements http.CookieJar. Deletions (Max-Age<0 or an expiry in
// the past) remove the cookie, matching server-side cookie clearing on
// logout or rejected refresh.
func (s *CookieStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, ck := range cookies {
		if ck.Name == "" {
			continue
		}
		path := ck.Path
		if path == "" {
			path = "/"
		}

		switch {
		case ck.MaxAge < 0:
			delete(s.cookies, ck.Name)
		case ck.MaxAge > 0:
			s.cookies[ck.Name] = storedCookie{
				Name: ck.Name, Value: ck.Value, Path: path,
				Expires: now.Add(time.Duration(ck.MaxAge) * time.Second),
			}
		case !ck.Expires.IsZero() && ck.Expires.Before(now):
			delete(s.cookies, ck.Name)
		default:
			s.cookies[ck.Name] = storedCookie{
				Name: ck.Name, Value: ck.Value, Path: path, Expires: ck.Expires,
			}
		}
	}

	s.persistLocked()
}

// Cookies implements http.CookieJar, returning unexpired cookies whose path
// covers the request path.
func (s *CookieStore) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []*http.Cookie
	for _, c := range s.cookies {
		if c.expired(now) {
			continue
		}
		if pathMatches(c.Path, u.Path) {
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

// Has reports whether an unexpired cookie with the given name exists. Only
// presence is inspected, never the value.
func (s *CookieStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cookies[name]
	return ok && !c.expired(s.now())
}

// Remove deletes a cookie by name and persists the change.
func (s *CookieStore) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cookies, name)
	s.persistLocked()
}

func (s *CookieStore) persistLocked() {
	if s.repo == nil {
		return
	}
	list := make([]storedCookie, 0, len(s.cookies))
	for _, c := range s.cookies {
		list = append(list, c)
	}
	data, err := json.Marshal(list)
	if err != nil {
		s.log.Error(context.Background(), "failed to serialize cookies", "error", err)
		return
	}
	if err := s.repo.Set(context.Background(), common.CookieSlot, data); err != nil {
		s.log.Warn(context.Background(), "failed to persist cookies", "error", err)
	}
}

// pathMatches implements RFC 6265 path-match.
func pathMatches(cookiePath, reqPath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if cookiePath == reqPath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
