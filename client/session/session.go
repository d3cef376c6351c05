package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/client"
)

// State is the session lifecycle position.
type State int

const (
	// StateLoading holds until Restore has consulted the store.
	StateLoading State = iota
	// StateSignedOut means no valid session is held.
	StateSignedOut
	// StateSignedIn means a token and user are loaded.
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSignedOut:
		return "signed_out"
	case StateSignedIn:
		return "signed_in"
	default:
		return "unknown"
	}
}

// Manager drives the session state machine on top of the API client and a
// Store. It starts in StateLoading; call Restore to settle the initial state.
//
// The manager registers itself as the client's unauthorized hook: when any
// authenticated call returns 401, the session is torn down exactly once and
// the OnInvalidate callback fires, no matter how many requests were in flight.
type Manager struct {
	client *client.Client
	store  Store
	logger *zap.Logger

	mu           sync.RWMutex
	state        State
	user         *client.SessionUser
	teardownOnce *sync.Once

	onInvalidate func()
	onChange     func(State)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithInvalidateHook sets the callback fired when the server invalidates the
// session. It runs at most once per sign-in.
func WithInvalidateHook(fn func()) ManagerOption {
	return func(m *Manager) {
		m.onInvalidate = fn
	}
}

// WithChangeHook sets the callback fired on every state transition.
func WithChangeHook(fn func(State)) ManagerOption {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithLogger attaches a logger for session events. Defaults to a no-op.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager and wires it into the client's 401 handling.
func NewManager(c *client.Client, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:       c,
		store:        store,
		logger:       zap.NewNop(),
		state:        StateLoading,
		teardownOnce: &sync.Once{},
	}
	for _, opt := range opts {
		opt(m)
	}
	c.SetUnauthorizedHook(m.invalidate)
	return m
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns a copy of the signed-in user, or nil when signed out.
func (m *Manager) CurrentUser() *client.SessionUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Restore loads a persisted session from the store. A missing or unreadable
// session settles to StateSignedOut rather than failing.
func (m *Manager) Restore(ctx context.Context) error {
	token, ok, err := m.store.Get(keyToken)
	if err != nil || !ok || token == "" {
		m.setSignedOut()
		return err
	}

	raw, ok, err := m.store.Get(keyUser)
	if err != nil || !ok {
		m.setSignedOut()
		return err
	}

	var user client.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// Corrupt entry; drop it instead of wedging the app in loading.
		m.logger.Warn("persisted session unreadable, clearing", zap.Error(err))
		_ = m.store.Delete(keyToken)
		_ = m.store.Delete(keyUser)
		m.setSignedOut()
		return nil
	}

	m.setSignedIn(token, user)
	return nil
}

// SignIn authenticates with email and password. On rejection the session
// stays (or becomes) signed out and the returned error carries the server's
// message; the invalidate hook does not fire.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	result, err := m.client.Auth().Login(ctx, client.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	return m.persist(result)
}

// SignInWithRole authenticates against the role-aware endpoint.
func (m *Manager) SignInWithRole(ctx context.Context, email, password, role string) error {
	result, err := m.client.Auth().LoginWithRole(ctx, client.Credentials{Email: email, Password: password}, role)
	if err != nil {
		return err
	}
	return m.persist(result)
}

// SignUp registers a new account and signs it in.
func (m *Manager) SignUp(ctx context.Context, input client.RegisterInput) error {
	result, err := m.client.Auth().Register(ctx, input)
	if err != nil {
		return err
	}
	return m.persist(result)
}

// SignOut clears the session. Calling it while already signed out is a no-op.
func (m *Manager) SignOut() {
	m.client.ClearToken()
	_ = m.store.Delete(keyToken)
	_ = m.store.Delete(keyUser)
	m.setSignedOut()
}

// RefreshUser re-fetches the signed-in user's record so profile edits show up
// without a re-login. The role is taken from the session, not the response.
func (m *Manager) RefreshUser(ctx context.Context) error {
	current := m.CurrentUser()
	if current == nil {
		return fmt.Errorf("no active session")
	}

	var (
		fresh *client.User
		err   error
	)
	switch current.Role {
	case "teacher":
		fresh, err = m.client.Users().GetTeacher(ctx, current.ID)
	case "student":
		fresh, err = m.client.Users().GetStudent(ctx, current.ID)
	default:
		return fmt.Errorf("unknown session role %q", current.Role)
	}
	if err != nil {
		return err
	}

	updated := client.SessionUser{ID: fresh.ID, Name: fresh.Name, Email: fresh.Email, Role: current.Role}

	m.mu.Lock()
	if m.state == StateSignedIn {
		m.user = &updated
	}
	m.mu.Unlock()

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	return m.store.Set(keyUser, string(raw))
}

func (m *Manager) persist(result *client.LoginResult) error {
	raw, err := json.Marshal(result.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := m.store.Set(keyToken, result.Token); err != nil {
		return err
	}
	if err := m.store.Set(keyUser, string(raw)); err != nil {
		return err
	}
	m.setSignedIn(result.Token, result.User)
	return nil
}

// invalidate is the client's 401 hook. Concurrent 401s collapse into one
// teardown and one OnInvalidate call.
func (m *Manager) invalidate() {
	m.mu.RLock()
	once := m.teardownOnce
	m.mu.RUnlock()

	once.Do(func() {
		m.logger.Info("session invalidated by server")
		m.SignOut()
		if m.onInvalidate != nil {
			m.onInvalidate()
		}
	})
}

func (m *Manager) setSignedIn(token string, user client.SessionUser) {
	m.client.SetToken(token)

	m.mu.Lock()
	m.state = StateSignedIn
	m.user = &user
	// Fresh generation: the next server-side invalidation tears down once.
	m.teardownOnce = &sync.Once{}
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil {
		hook(StateSignedIn)
	}
}

func (m *Manager) setSignedOut() {
	m.mu.Lock()
	changed := m.state != StateSignedOut
	m.state = StateSignedOut
	m.user = nil
	hook := m.onChange
	m.mu.Unlock()

	if changed && hook != nil {
		hook(StateSignedOut)
	}
}
