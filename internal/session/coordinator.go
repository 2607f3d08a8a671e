package session

import (
	"context"
	"sync"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/models"
)

// refreshClient is the slice of the API client the coordinator needs.
type refreshClient interface {
	Refresh(ctx context.Context) (*models.RefreshResult, error)
	HasRefreshSignal() bool
}

// Coordinator serializes credential refreshes: at most one refresh network
// call is in flight at any time. The first caller to observe a rejected
// credential performs the refresh; callers arriving while it is in flight
// are queued as channel futures and receive the shared outcome, in arrival
// order, the moment the flight settles. The queue is only ever non-empty
// while refreshing is true and is drained before the flag clears for the
// next caller.
//
// Before spending a round trip, the coordinator checks the refresh-signal
// cookie: its absence deterministically means no session exists, so the
// refresh fails immediately with common.ErrNoSession.
type Coordinator struct {
	client  refreshClient
	cache   *Cache
	timeout time.Duration
	log     logging.Logger

	// onSession receives the user returned by a successful refresh;
	// onTerminal fires when a non-silent refresh fails for good. Both are
	// set once during wiring, before any traffic.
	onSession  func(*models.User)
	onTerminal func(error)

	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

// NewCoordinator creates a Coordinator. timeout bounds the refresh network
// call itself; zero means no bound beyond the caller's context.
func NewCoordinator(client refreshClient, cache *Cache, timeout time.Duration, log logging.Logger) *Coordinator {
	return &Coordinator{client: client, cache: cache, timeout: timeout, log: log}
}

// SetOnSession registers the callback invoked with the user record of every
// successful refresh.
func (c *Coordinator) SetOnSession(fn func(*models.User)) { c.onSession = fn }

// SetOnTerminal registers the callback invoked when a dispatcher-triggered
// refresh fails terminally. Silent restoration (TryRestore) never fires it:
// a first-time visitor without a session is not a failure.
func (c *Coordinator) SetOnTerminal(fn func(error)) { c.onTerminal = fn }

// Refresh repairs the access credential on behalf of a request that was
// rejected with 401. On terminal failure the cache is cleared and the
// terminal callback fires.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.refresh(ctx, true)
}

// TryRestore attempts silent session restoration at startup. Identical to
// Refresh (including single-flight coalescing with concurrent callers)
// except that failure is reported only to the caller.
func (c *Coordinator) TryRestore(ctx context.Context) error {
	return c.refresh(ctx, false)
}

func (c *Coordinator) refresh(ctx context.Context, terminal bool) error {
	c.mu.Lock()
	if c.refreshing {
		// A refresh is already in flight: queue up and wait for its
		// outcome instead of issuing a duplicate call.
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			// The caller gives up waiting; the flight itself continues
			// and its result still applies.
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	err := c.doRefresh(ctx)

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	// Drain in arrival order. Buffered channels: a waiter that already
	// abandoned its context does not block the others.
	for _, ch := range waiters {
		ch <- err
	}

	if err != nil && terminal && c.onTerminal != nil {
		c.onTerminal(err)
	}
	return err
}

func (c *Coordinator) doRefresh(ctx context.Context) error {
	if !c.client.HasRefreshSignal() {
		// No signal cookie, no session: synthesize the failure without a
		// wasted round trip.
		c.cache.Clear(ctx)
		return common.ErrNoSession
	}

	// The flight outlives the initiating caller: a replayed request must
	// complete even if the original caller's context is torn down.
	rctx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, c.timeout)
		defer cancel()
	}

	res, err := c.client.Refresh(rctx)
	if err != nil {
		c.log.Warn(ctx, "credential refresh failed", "error", err)
		c.cache.Clear(ctx)
		return err
	}

	c.cache.SetToken(ctx, res.AccessToken)
	if c.onSession != nil && res.User != nil {
		c.onSession(res.User)
	}
	c.log.Debug(ctx, "credential refreshed")
	return nil
}
