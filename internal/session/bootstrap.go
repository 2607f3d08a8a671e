package session

import (
	"context"
	"errors"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
)

// Bootstrap runs once at application start, before any protected UI, and
// attempts silent restoration of a session:
//
//  1. A cached, not-yet-expired credential is verified with a "who am I"
//     call; success populates the state. On failure the stale credential is
//     cleared and we fall through.
//  2. Silent refresh from the long-lived cookie, including the
//     signal-cookie short-circuit (a device with no cookies makes zero
//     refresh round trips).
//
// Ending up logged out is the expected state for a first-time visitor, not
// an error: Bootstrap returns nil in every branch. IsInitialized becomes
// true exactly once, in all branches, and never reverts; callers must never
// be left blocking on that flag. Repeated calls are no-ops.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.state.IsInitialized {
		m.mu.Unlock()
		return nil
	}
	m.state.IsLoading = true
	m.bootstrapping = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.state.IsInitialized = true
		m.state.IsLoading = false
		m.bootstrapping = false
		st := snapshot(m.state)
		m.mu.Unlock()
		m.publish(st)
	}()

	if m.cache.Token() != "" && !m.cache.Expired(time.Now()) {
		u, err := m.client.Me(ctx)
		if err == nil {
			m.setUser(u)
			m.log.Info(ctx, "session restored from cached credential", "user", u.Username)
			return nil
		}
		// Stale or revoked credential: drop it and fall through to the
		// cookie path. The dispatcher may already have tried a refresh on
		// our behalf; either way the silent restore below is authoritative.
		m.log.Debug(ctx, "cached credential rejected", "error", err)
		m.cache.Clear(ctx)
	}

	if err := m.coordinator.TryRestore(ctx); err != nil {
		if !errors.Is(err, common.ErrNoSession) {
			m.log.Warn(ctx, "silent session restore failed", "error", err)
		}
		return nil
	}

	m.log.Info(ctx, "session restored from refresh cookie")
	return nil
}
