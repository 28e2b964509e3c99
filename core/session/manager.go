package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/user"
)

// State mirrors what views need to know about the current identity.
type State struct {
	User      *user.User
	IsLoading bool
	Err       error
}

// Manager is the single owner of session state for one client process (one
// CLI run, or one browser session bound by the web layer). It is not safe
// for concurrent use; callers serialize access the way a UI event loop
// would.
type Manager struct {
	usrSvc *user.Service
	store  Store
	logger core.Logger

	current     *Session
	state       State
	initialized bool
}

func NewManager(usrSvc *user.Service, store Store, logger core.Logger) *Manager {
	return &Manager{
		usrSvc: usrSvc,
		store:  store,
		logger: logger,
		state:  State{IsLoading: true},
	}
}

func (m *Manager) State() State      { return m.state }
func (m *Manager) Current() *Session { return m.current }
func (m *Manager) IsLoading() bool   { return m.state.IsLoading }

func (m *Manager) IsAuthenticated() bool {
	return !m.state.IsLoading && m.state.User != nil
}

func (m *Manager) IsStaff() bool {
	return m.IsAuthenticated() && m.state.User.IsStaff
}

func (m *Manager) IsInstructor() bool {
	return m.IsAuthenticated() && m.state.User.HasInstructorRole()
}

func (m *Manager) IsStudent() bool {
	return m.IsAuthenticated() && m.state.User.HasStudentRole()
}

// Rehydrate seeds state from a stored snapshot before the network trip; the
// state stays loading until Init reconciles with the server, whose answer
// always overwrites the snapshot.
func (m *Manager) Rehydrate(sess Session) {
	m.current = &sess
	m.state = State{User: sess.User, IsLoading: true}
}

// Init resolves the current identity against the backend. It runs exactly
// once per Manager lifetime; later calls are no-ops. A failed fetch leaves
// the state unauthenticated with Err recorded; it is never retried here.
func (m *Manager) Init(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	m.initialized = true

	usr, err := m.usrSvc.CurrentUser(ctx)
	if err != nil {
		m.state = State{Err: err}
		return errors.Wrap(err, "resolving session")
	}

	m.state = State{User: usr}
	if m.current != nil {
		if usr == nil {
			// stale snapshot; the backend no longer knows this session
			m.dropCurrent(ctx)
		} else {
			m.current.User = usr
			m.saveCurrent(ctx)
		}
	}
	return nil
}

// Login transitions through loading to either an authenticated state or a
// recorded error, persisting the fresh session on success.
func (m *Manager) Login(ctx context.Context, creds user.Credentials) (Session, error) {
	m.state = State{IsLoading: true}

	usr, err := m.usrSvc.Login(ctx, creds)
	if err != nil {
		m.state = State{Err: err}
		return Session{}, err
	}

	sess := New(&usr, m.usrSvc.Client().Cookies())
	m.current = &sess
	m.state = State{User: &usr}
	m.initialized = true
	m.saveCurrent(ctx)
	return sess, nil
}

// Logout clears local session state unconditionally; the backend call is
// best-effort and its failure only gets logged.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.usrSvc.Logout(ctx); err != nil {
		m.logger.Warn("backend logout failed", err)
	}
	m.dropCurrent(ctx)
	m.state = State{}
}

// Reset restores the zero state; it exists for tests.
func (m *Manager) Reset() {
	m.current = nil
	m.state = State{IsLoading: true}
	m.initialized = false
}

func (m *Manager) saveCurrent(ctx context.Context) {
	if m.current == nil {
		return
	}
	m.current.SetCookies(m.usrSvc.Client().Cookies())
	if err := m.store.SaveSession(ctx, *m.current); err != nil {
		m.logger.Error("saving session", err)
	}
}

func (m *Manager) dropCurrent(ctx context.Context) {
	if m.current == nil {
		return
	}
	if err := m.store.DeleteSession(ctx, m.current.ID); err != nil && errors.Cause(err) != ErrNotFound {
		m.logger.Warn("deleting session", err)
	}
	m.current = nil
}
