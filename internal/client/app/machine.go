// Package app contains the top-level controller of the client: which screen
// is visible, which identity is active, which entries are shown, and the
// single transient notification.
//
// All mutations funnel through one mutex, the Go analog of a single-threaded
// event queue. Handlers re-check that their result still applies before
// writing it, so a snapshot delivered late for a previous identity is simply
// dropped.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/avolkovs/daykeeper/internal/client/identity"
	"github.com/avolkovs/daykeeper/internal/client/store"
	"github.com/avolkovs/daykeeper/internal/dday"
	"github.com/avolkovs/daykeeper/internal/logging"
)

// Screen is the full-screen view currently shown.
type Screen string

const (
	ScreenLoading Screen = "loading"
	ScreenStart   Screen = "start"
	ScreenAuth    Screen = "auth"
	ScreenApp     Screen = "app"
)

// AuthView is the sub-state of ScreenAuth.
type AuthView string

const (
	AuthLogin  AuthView = "login"
	AuthSignup AuthView = "signup"
	AuthReset  AuthView = "reset"
)

// Notification is the single transient status message. A new one overwrites
// the old; only explicit dismissal hides it.
type Notification struct {
	Title   string
	Message string
	Visible bool
}

// State is a consistent snapshot for rendering.
type State struct {
	Screen   Screen
	AuthView AuthView
	Identity *identity.Identity
	Entries  []store.Entry
	Note     Notification
}

// StoreFactory builds the entry store matching an identity's mode.
type StoreFactory func(ident identity.Identity) (store.Store, error)

// Machine routes user intents and gate events into screen transitions.
// It runs for the lifetime of the session; there is no terminal state.
type Machine struct {
	gate   *identity.Gate
	stores StoreFactory
	logger logging.Logger

	mu          sync.Mutex
	screen      Screen
	authView    AuthView
	note        Notification
	current     *identity.Identity
	entries     []store.Entry
	activeStore store.Store
	cancelSub   func()
	unobserve   func()
}

func NewMachine(gate *identity.Gate, stores StoreFactory, logger logging.Logger) *Machine {
	return &Machine{
		gate:     gate,
		stores:   stores,
		logger:   logger.With("component", "machine"),
		screen:   ScreenLoading,
		authView: AuthLogin,
	}
}

// Start subscribes to the gate. The immediate first callback resolves
// ScreenLoading into ScreenStart (no identity) or ScreenApp (resumed
// session).
func (m *Machine) Start() {
	m.unobserve = m.gate.Observe(m.identityChanged)
}

// Close tears down the gate observation and any live entry subscription.
func (m *Machine) Close() {
	if m.unobserve != nil {
		m.unobserve()
	}
	m.mu.Lock()
	m.detachLocked()
	m.mu.Unlock()
}

// State returns a rendering snapshot. ScreenApp without an identity degrades
// to ScreenLoading instead of rendering a broken main screen.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Screen:   m.screen,
		AuthView: m.authView,
		Identity: m.current,
		Entries:  append([]store.Entry(nil), m.entries...),
		Note:     m.note,
	}
	if s.Screen == ScreenApp && s.Identity == nil {
		s.Screen = ScreenLoading
	}
	return s
}

// identityChanged is the gate observer. Two guards keep provider events from
// fighting screen transitions the user explicitly requested:
//
//   - a non-nil identity arriving while the signup view is open does not
//     jump to the main screen (the account must verify + log in first);
//   - a nil identity arriving while any auth view is open does not bounce
//     the user back to the start screen (e.g. the automatic sign-out right
//     after signup).
func (m *Machine) identityChanged(ident *identity.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ident == nil {
		m.detachLocked()
		m.current = nil
		m.entries = nil
		if m.screen != ScreenAuth {
			m.screen = ScreenStart
		}
		return
	}

	if m.screen == ScreenAuth && m.authView == AuthSignup {
		return
	}
	m.attachLocked(*ident)
}

// attachLocked makes ident active: the previous subscription is torn down
// first so stale data can never leak across identities.
func (m *Machine) attachLocked(ident identity.Identity) {
	m.detachLocked()
	m.current = &ident
	m.entries = nil
	m.screen = ScreenApp

	st, err := m.stores(ident)
	if err != nil {
		m.logger.Error(context.Background(), "store init failed", "mode", ident.Mode, "err", err)
		m.note = Notification{Title: "Storage problem", Message: "Could not open your D-Day list.", Visible: true}
		return
	}
	m.activeStore = st

	owner := ident.ID
	cancel, err := st.Subscribe(context.Background(), func(entries []store.Entry) {
		m.mu.Lock()
		defer m.mu.Unlock()
		// drop snapshots delivered for an identity that is no longer active
		if m.current == nil || m.current.ID != owner {
			return
		}
		m.entries = entries
	})
	if err != nil {
		m.logger.Error(context.Background(), "subscribe failed", "owner", owner, "err", err)
		m.note = Notification{Title: "Storage problem", Message: "Could not load your D-Day list.", Visible: true}
		return
	}
	m.cancelSub = cancel
}

func (m *Machine) detachLocked() {
	if m.cancelSub != nil {
		m.cancelSub()
		m.cancelSub = nil
	}
	m.activeStore = nil
}

func (m *Machine) setNote(n *identity.Notice) {
	if n == nil {
		return
	}
	m.mu.Lock()
	m.note = Notification{Title: n.Title, Message: n.Message, Visible: true}
	m.mu.Unlock()
}

func (m *Machine) notify(title, message string) {
	m.mu.Lock()
	m.note = Notification{Title: title, Message: message, Visible: true}
	m.mu.Unlock()
}

// DismissNote hides the notification. This is the only way it goes away.
func (m *Machine) DismissNote() {
	m.mu.Lock()
	m.note.Visible = false
	m.mu.Unlock()
}

// --- navigation intents ---

// ShowLogin opens the auth screen on the login view.
func (m *Machine) ShowLogin() {
	m.mu.Lock()
	m.screen = ScreenAuth
	m.authView = AuthLogin
	m.mu.Unlock()
}

// ShowSignup and ShowReset switch views within the auth screen.
func (m *Machine) ShowSignup() {
	m.mu.Lock()
	if m.screen == ScreenAuth {
		m.authView = AuthSignup
	}
	m.mu.Unlock()
}

func (m *Machine) ShowReset() {
	m.mu.Lock()
	if m.screen == ScreenAuth {
		m.authView = AuthReset
	}
	m.mu.Unlock()
}

// BackToLogin returns from signup/reset to the login view.
func (m *Machine) BackToLogin() {
	m.mu.Lock()
	if m.screen == ScreenAuth {
		m.authView = AuthLogin
	}
	m.mu.Unlock()
}

// StartGuest synthesizes the guest identity; the resulting gate event lands
// on the main screen with the device-local store attached.
func (m *Machine) StartGuest() {
	m.gate.StartGuestSession()
}

// --- identity operations; failures surface as notifications and never
// change the screen, so the user stays where they are to retry ---

func (m *Machine) Login(ctx context.Context, email, password string) {
	m.setNote(m.gate.Login(ctx, email, password))
}

func (m *Machine) LoginWithSSO(ctx context.Context, ticket string) {
	m.setNote(m.gate.LoginWithSSO(ctx, ticket))
}

func (m *Machine) Signup(ctx context.Context, email, password string) {
	m.setNote(m.gate.Signup(ctx, email, password))
}

func (m *Machine) ResetPassword(ctx context.Context, email string) {
	m.setNote(m.gate.ResetPassword(ctx, email))
}

func (m *Machine) Logout(ctx context.Context) {
	m.gate.Logout(ctx)
}

// --- entry operations ---

var errNoActiveStore = errors.New("no active store")

func (m *Machine) store() (store.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeStore == nil {
		return nil, errNoActiveStore
	}
	return m.activeStore, nil
}

// AddEntry validates locally, then submits. Validation failures never reach
// the store.
func (m *Machine) AddEntry(ctx context.Context, title, date string) {
	if title == "" || date == "" {
		m.notify("Add failed", "Please enter both a title and a date.")
		return
	}
	if _, err := dday.ParseDate(date); err != nil {
		m.notify("Add failed", "The date must look like 2025-12-31.")
		return
	}

	st, err := m.store()
	if err != nil {
		m.notify("Add failed", "No D-Day list is open.")
		return
	}
	if err := st.Add(ctx, title, date); err != nil {
		m.logger.Error(ctx, "add entry failed", "title", title, "err", err)
		m.notify("Add failed", "Could not add the D-Day. Please try again.")
		return
	}
	m.notify("Success", "New D-Day added.")
}

func (m *Machine) RemoveEntry(ctx context.Context, id string) {
	st, err := m.store()
	if err != nil {
		m.notify("Delete failed", "No D-Day list is open.")
		return
	}
	if err := st.Remove(ctx, id); err != nil {
		m.logger.Error(ctx, "remove entry failed", "id", id, "err", err)
		m.notify("Delete failed", "Could not delete the D-Day. Please try again.")
		return
	}
	m.notify("Success", "D-Day deleted.")
}
