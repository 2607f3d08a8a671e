package session

import (
	"context"
	"sync"

	"github.com/crewdesk/crewdesk-go/internal/api"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/models"
)

// Manager owns the published session state and is the only component other
// subsystems observe. State changes are pushed to subscribers; the five
// session operations (login, register, logout, update, status check) and
// the device-session management calls all live here.
type Manager struct {
	client      api.Client
	cache       *Cache
	devices     *DeviceStore
	coordinator *Coordinator
	log         logging.Logger

	mu            sync.RWMutex
	state         models.SessionState
	subs          map[int]func(models.SessionState)
	nextSub       int
	expired       func()
	expiredFired  bool
	bootstrapping bool
}

// NewManager wires the manager into the coordinator's callbacks: successful
// refreshes update the published user, terminal refresh failures clear the
// session and notify the host application.
func NewManager(client api.Client, cache *Cache, devices *DeviceStore, coordinator *Coordinator, log logging.Logger) *Manager {
	m := &Manager{
		client:      client,
		cache:       cache,
		devices:     devices,
		coordinator: coordinator,
		log:         log,
		subs:        make(map[int]func(models.SessionState)),
	}
	coordinator.SetOnSession(m.setUser)
	coordinator.SetOnTerminal(m.sessionLost)
	return m
}

// State returns a snapshot of the current session state. The contained user
// is a copy; mutating it does not affect the published state.
func (m *Manager) State() models.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return snapshot(m.state)
}

// Subscribe registers fn to be called with a state snapshot after every
// change. The returned function unsubscribes. Callbacks run outside the
// state lock, on the goroutine that caused the change.
func (m *Manager) Subscribe(fn func(models.SessionState)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SetExpiredHandler registers the terminal-failure fallback: it fires when a
// live session is lost for good (refresh rejected mid-flight), so the host
// application can navigate to its login surface. It never fires for the
// expected logged-out result of bootstrap, and at most once per expiry.
func (m *Manager) SetExpiredHandler(fn func()) {
	m.mu.Lock()
	m.expired = fn
	m.mu.Unlock()
}

// Login authenticates, stores the issued access credential, and publishes
// the user. A failed login surfaces the API's typed error untouched.
func (m *Manager) Login(ctx context.Context, username, password string, rememberMe bool) (*models.User, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	creds := models.Credentials{
		Username:          username,
		Password:          password,
		RememberMe:        rememberMe,
		DeviceFingerprint: m.devices.Fingerprint(ctx),
	}

	res, err := m.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	m.cache.SetToken(ctx, res.AccessToken)

	m.mu.Lock()
	m.expiredFired = false
	m.mu.Unlock()

	m.setUser(res.User)
	m.log.Info(ctx, "logged in", "user", res.User.Username)
	return res.User, nil
}

// Register creates an account. It does not log the new user in; the caller
// follows up with Login.
func (m *Manager) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	return m.client.Register(ctx, reg)
}

// Logout invalidates the session server-side on a best-effort basis and
// unconditionally clears local state: local logout always succeeds, even
// when the server call does not.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn(ctx, "server-side logout failed, clearing local session anyway", "error", err)
	}
	m.cache.Clear(ctx)
	m.setUser(nil)
	return nil
}

// LogoutAll revokes every session for the user, then performs the same
// local cleanup as Logout. Returns the number of sessions the server
// revoked.
func (m *Manager) LogoutAll(ctx context.Context) (int, error) {
	n, err := m.client.LogoutAll(ctx)
	if err != nil {
		return 0, err
	}
	m.cache.Clear(ctx)
	m.setUser(nil)
	return n, nil
}

// UpdateUser applies a partial profile update to the published user without
// a server round trip, so dependent views can reflect an edit immediately.
// No-op when logged out.
func (m *Manager) UpdateUser(patch models.UserPatch) {
	m.mu.Lock()
	if m.state.User == nil {
		m.mu.Unlock()
		return
	}
	u := *m.state.User
	patch.Apply(&u)
	m.state.User = &u
	st := snapshot(m.state)
	m.mu.Unlock()

	m.publish(st)
}

// CheckStatus re-fetches the current user. An expired credential is repaired
// transparently by the dispatcher; a terminal failure clears local state and
// is returned to the caller.
func (m *Manager) CheckStatus(ctx context.Context) error {
	u, err := m.client.Me(ctx)
	if err != nil {
		return err
	}
	m.setUser(u)
	return nil
}

// Sessions lists the user's active device sessions.
func (m *Manager) Sessions(ctx context.Context) ([]models.SessionInfo, error) {
	return m.client.Sessions(ctx)
}

// RevokeSession revokes one device session by id.
func (m *Manager) RevokeSession(ctx context.Context, id int) error {
	return m.client.RevokeSession(ctx, id)
}

// ForgetDevice regenerates the device identifier, so the next login binds
// this machine to a brand-new server-side session scope.
func (m *Manager) ForgetDevice(ctx context.Context) (string, error) {
	return m.devices.Reset(ctx)
}

// setUser replaces the published user; IsAuthenticated is derived, never set
// on its own.
func (m *Manager) setUser(u *models.User) {
	m.mu.Lock()
	m.state.User = u
	m.state.IsAuthenticated = u != nil
	st := snapshot(m.state)
	m.mu.Unlock()

	m.publish(st)
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	if m.state.IsLoading == v {
		m.mu.Unlock()
		return
	}
	m.state.IsLoading = v
	st := snapshot(m.state)
	m.mu.Unlock()

	m.publish(st)
}

// sessionLost handles a terminal refresh failure: clear the user, publish,
// and fire the expired handler once. Queued callers all report the same
// failure, hence the idempotence guard. During bootstrap the handler is
// suppressed entirely: ending up logged out there is the expected state,
// not an expiry event.
func (m *Manager) sessionLost(err error) {
	m.mu.Lock()
	if m.expiredFired {
		m.mu.Unlock()
		return
	}
	if !m.bootstrapping {
		m.expiredFired = true
	}
	m.state.User = nil
	m.state.IsAuthenticated = false
	st := snapshot(m.state)
	fn := m.expired
	if m.bootstrapping {
		fn = nil
	}
	m.mu.Unlock()

	m.log.Warn(context.Background(), "session lost", "error", err)
	m.publish(st)
	if fn != nil {
		fn()
	}
}

func (m *Manager) publish(st models.SessionState) {
	m.mu.RLock()
	fns := make([]func(models.SessionState), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(st)
	}
}

// snapshot deep-copies the user so subscribers cannot mutate shared state.
func snapshot(st models.SessionState) models.SessionState {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
