// Package session resolves which identity is acting and manages the
// login, impersonation and logout transitions on top of the credential
// store.
//
// Impersonation takes strict precedence: while an impersonation token is
// stored, it and the impersonated user are the active identity, and the
// admin's own token is kept underneath so the admin can return.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nathanbeddoewebdev/panelctl/internal/credstore"
)

// impersonationCookieTTL is the lifetime of the auth_token cookie that
// mirrors the impersonation token.
const impersonationCookieTTL = 24 * time.Hour

// Event outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Event describes a session transition.
type Event struct {
	Action  string // "login", "impersonate_start", "impersonate_stop", "logout"
	Subject string // user the transition is about, if known
	Outcome string
	Detail  string
}

// Recorder receives session transitions, typically for an audit trail.
type Recorder interface {
	Record(ev Event)
}

// Options configures the collaborators of a Manager. All fields are
// optional.
type Options struct {
	Navigator Navigator
	Federated FederatedSession
	Recorder  Recorder
	Logger    *slog.Logger
}

// Manager is the single shared session for a process.
type Manager struct {
	store     *credstore.Store
	navigator Navigator
	federated FederatedSession
	recorder  Recorder
	logger    *slog.Logger

	mu sync.Mutex
}

// NewManager returns a Manager over store.
func NewManager(store *credstore.Store, opts Options) *Manager {
	m := &Manager{
		store:     store,
		navigator: opts.Navigator,
		federated: opts.Federated,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Login stores the credentials of a freshly authenticated user.
func (m *Manager) Login(token string, user User) error {
	if token == "" {
		return errors.New("session: login token is empty")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: failed to encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(credstore.AuthToken, token, 0); err != nil {
		m.record(Event{Action: "login", Subject: user.ID, Outcome: OutcomeError, Detail: err.Error()})
		return fmt.Errorf("session: %w", err)
	}
	if err := m.store.Set(credstore.User, string(data), 0); err != nil {
		m.logger.Warn("failed to store user profile", "error", err)
	}
	if user.PartnerID != "" {
		if err := m.store.Set(credstore.PartnerID, user.PartnerID, 0); err != nil {
			m.logger.Warn("failed to store partner id", "error", err)
		}
	} else {
		m.store.Clear(credstore.PartnerID)
	}

	m.logger.Info("logged in", "user_id", user.ID)
	m.record(Event{Action: "login", Subject: user.ID, Outcome: OutcomeSuccess})
	return nil
}

// StartImpersonation makes user the active identity. It returns false,
// without touching any stored credential, when adminToken is empty, when
// the impersonation token is empty, or when an impersonation is already
// active.
func (m *Manager) StartImpersonation(adminToken, impersonationToken string, user User) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	reject := func(reason string) bool {
		m.logger.Warn("impersonation rejected", "reason", reason, "target_user", user.ID)
		m.record(Event{Action: "impersonate_start", Subject: user.ID, Outcome: OutcomeRejected, Detail: reason})
		return false
	}

	switch {
	case adminToken == "":
		return reject("admin token is empty")
	case impersonationToken == "":
		return reject("impersonation token is empty")
	case m.store.Has(credstore.ImpersonationToken):
		return reject("already impersonating another user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return reject("failed to encode user: " + err.Error())
	}

	writes := []struct{ name, value string }{
		{credstore.AdminToken, adminToken},
		{credstore.ImpersonatedUser, string(data)},
		{credstore.ImpersonationToken, impersonationToken},
	}
	for _, w := range writes {
		if err := m.store.Set(w.name, w.value, 0); err != nil {
			for _, undo := range writes {
				m.store.Clear(undo.name)
			}
			m.logger.Error("failed to store impersonation credentials", "error", err)
			m.record(Event{Action: "impersonate_start", Subject: user.ID, Outcome: OutcomeError, Detail: err.Error()})
			return false
		}
	}

	// Anything that only inspects the auth_token cookie must see the
	// impersonated identity.
	m.store.SetCookie(credstore.AuthToken, impersonationToken, impersonationCookieTTL)

	m.logger.Info("impersonation started", "target_user", user.ID)
	m.record(Event{Action: "impersonate_start", Subject: user.ID, Outcome: OutcomeSuccess})
	return true
}

// StopImpersonation clears the impersonation overlay and reports whether
// one was active. With redirect set, an active impersonation also navigates
// back to the admin landing target.
func (m *Manager) StopImpersonation(redirect bool) bool {
	m.mu.Lock()
	wasActive := m.stopLocked()
	m.mu.Unlock()

	if wasActive && redirect {
		m.navigate(TargetAdmin)
	}
	return wasActive
}

func (m *Manager) stopLocked() bool {
	wasActive := m.store.Has(credstore.ImpersonationToken)
	adminToken, hasAdmin := m.store.Get(credstore.AdminToken)
	subject := ""
	if u, ok := m.readUser(credstore.ImpersonatedUser); ok {
		subject = u.ID
	}

	m.store.Clear(credstore.AdminToken)
	m.store.Clear(credstore.ImpersonationToken)
	m.store.Clear(credstore.ImpersonatedUser)

	if !wasActive {
		return false
	}

	// The auth_token cookie was pointed at the impersonation token; hand
	// it back to the admin.
	if hasAdmin {
		m.store.SetCookie(credstore.AuthToken, adminToken, credstore.DefaultTTL)
	}

	m.logger.Info("impersonation stopped", "target_user", subject)
	m.record(Event{Action: "impersonate_stop", Subject: subject, Outcome: OutcomeSuccess})
	return true
}

// Logout ends the session from any state. It is safe to call repeatedly;
// credentials that are already absent are skipped silently.
func (m *Manager) Logout(ctx context.Context) {
	if m.federated != nil && m.federated.Active() {
		if err := m.federated.SignOut(ctx); err != nil {
			m.logger.Warn("federated sign-out failed", "error", err)
		}
	}

	m.mu.Lock()
	subject := ""
	if u, ok := m.readUser(credstore.User); ok {
		subject = u.ID
	}
	wasAuthenticated := m.store.Has(credstore.AuthToken)

	m.stopLocked()
	for _, name := range credstore.Names {
		m.store.Clear(name)
	}
	m.mu.Unlock()

	if wasAuthenticated {
		m.logger.Info("logged out", "user_id", subject)
		m.record(Event{Action: "logout", Subject: subject, Outcome: OutcomeSuccess})
	}
	m.navigate(TargetLogin)
}

// ActiveToken returns the impersonation token if present, else the auth
// token, else "".
func (m *Manager) ActiveToken() string {
	if token, ok := m.store.Get(credstore.ImpersonationToken); ok {
		return token
	}
	token, _ := m.store.Get(credstore.AuthToken)
	return token
}

// ActiveUser mirrors ActiveToken's precedence for the user profile.
func (m *Manager) ActiveUser() (User, bool) {
	if m.IsImpersonating() {
		return m.readUser(credstore.ImpersonatedUser)
	}
	return m.readUser(credstore.User)
}

// IsImpersonating reports whether an impersonation token is stored in
// either backend.
func (m *Manager) IsImpersonating() bool {
	return m.store.Has(credstore.ImpersonationToken)
}

// AdminToken returns the admin token kept underneath an impersonation.
func (m *Manager) AdminToken() string {
	token, _ := m.store.Get(credstore.AdminToken)
	return token
}

// AccountUser returns the profile of the user who logged in, which stays
// the admin while an impersonation is active.
func (m *Manager) AccountUser() (User, bool) {
	return m.readUser(credstore.User)
}

// PartnerID returns the tenant-scoping identifier of the logged-in user.
func (m *Manager) PartnerID() string {
	id, _ := m.store.Get(credstore.PartnerID)
	return id
}

// Current returns the derived session.
func (m *Manager) Current() Session {
	s := Session{
		ActiveToken:     m.ActiveToken(),
		IsImpersonating: m.IsImpersonating(),
	}
	if s.IsImpersonating {
		s.UnderlyingAdminToken = m.AdminToken()
	}
	if u, ok := m.ActiveUser(); ok {
		s.ActiveUser = &u
	}
	return s
}

// State classifies the current session.
func (m *Manager) State() State {
	switch {
	case m.IsImpersonating():
		return Impersonating
	case m.store.Has(credstore.AuthToken):
		return Authenticated
	default:
		return Anonymous
	}
}

func (m *Manager) readUser(name string) (User, bool) {
	raw, ok := m.store.Get(name)
	if !ok {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.logger.Debug("stored user is not valid JSON", "credential", name, "error", err)
		return User{}, false
	}
	return u, true
}

func (m *Manager) navigate(target string) {
	if m.navigator != nil {
		m.navigator.Navigate(target)
	}
}

func (m *Manager) record(ev Event) {
	if m.recorder != nil {
		m.recorder.Record(ev)
	}
}
