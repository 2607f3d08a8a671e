package session

import (
	"context"
	"sync"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

// Cache holds the current access credential. The in-memory value is
// authoritative; it is mirrored to a durable storage slot so a restart with
// a still-valid token does not force a re-login. The cache is a pure store:
// it never talks to the network and is only mutated by the coordinator and
// the manager.
type Cache struct {
	mu    sync.RWMutex
	token string
	repo  storage.Repository
	log   logging.Logger
}

// NewCache creates a Cache and loads any previously persisted token.
// A nil repo makes the cache purely in-memory.
func NewCache(ctx context.Context, repo storage.Repository, log logging.Logger) (*Cache, error) {
	c := &Cache{repo: repo, log: log}
	if repo != nil {
		data, err := repo.Get(ctx, common.AccessTokenSlot)
		if err != nil {
			return nil, err
		}
		c.token = string(data)
	}
	return c, nil
}

// Token returns the cached access credential, or "" when absent.
func (c *Cache) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the credential wholesale. A failed durable write is
// logged, not fatal: the in-memory value still carries the session.
func (c *Cache) SetToken(ctx context.Context, token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if c.repo != nil {
		if err := c.repo.Set(ctx, common.AccessTokenSlot, []byte(token)); err != nil {
			c.log.Warn(ctx, "failed to persist access token", "error", err)
		}
	}
}

// Clear drops the credential from memory and durable storage.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	if c.repo != nil {
		if err := c.repo.Delete(ctx, common.AccessTokenSlot); err != nil {
			c.log.Warn(ctx, "failed to clear access token slot", "error", err)
		}
	}
}

// Expired peeks at the token's exp claim without verifying the signature.
// Purely advisory: it saves a round trip that is certain to 401, while the
// server remains the authority. An absent token is expired; a token that
// cannot be parsed or carries no expiry is not (the server decides).
func (c *Cache) Expired(now time.Time) bool {
	tok := c.Token()
	if tok == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
