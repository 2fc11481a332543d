package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/logging"
)

// Gate mediates every identity operation and holds the single active
// Identity. Observers get the current value once at registration and again
// on every change, in the order changes happen.
type Gate struct {
	provider Provider
	logger   logging.Logger

	// emitMu serializes apply+broadcast so observers see changes in the
	// order they happen, never reordered.
	emitMu sync.Mutex

	mu        sync.Mutex
	current   *Identity
	observers map[int]func(*Identity)
	nextID    int
}

func NewGate(p Provider, logger logging.Logger) *Gate {
	return &Gate{
		provider:  p,
		logger:    logger.With("component", "gate"),
		observers: map[int]func(*Identity){},
	}
}

// Current returns the active identity, or nil.
func (g *Gate) Current() *Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Observe registers cb, invokes it immediately with the current identity,
// and returns an unsubscribe function. The unsubscribe function must be
// called exactly once on teardown; extra calls are harmless.
func (g *Gate) Observe(cb func(*Identity)) func() {
	// registration and the initial delivery hold emitMu so a concurrent
	// setCurrent cannot slot a newer value in between them
	g.emitMu.Lock()
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.observers[id] = cb
	current := g.current
	g.mu.Unlock()

	cb(current)
	g.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.observers, id)
			g.mu.Unlock()
		})
	}
}

// setCurrent replaces the active identity and notifies observers. Changes
// are delivered in the order they are applied; no reordering.
func (g *Gate) setCurrent(ident *Identity) {
	g.emitMu.Lock()
	defer g.emitMu.Unlock()

	g.mu.Lock()
	g.current = ident
	observers := make([]func(*Identity), 0, len(g.observers))
	for _, cb := range g.observers {
		observers = append(observers, cb)
	}
	g.mu.Unlock()

	for _, cb := range observers {
		cb(ident)
	}
}

// Restore revalidates a persisted session at startup. Failures are
// deliberately quiet: an expired or unreachable session just means the user
// starts signed out.
func (g *Gate) Restore(ctx context.Context) {
	ident, err := g.provider.Resume(ctx)
	if err != nil {
		g.logger.Debug(ctx, "session resume failed", "err", err)
		return
	}
	if ident != nil {
		g.setCurrent(ident)
	}
}

// Login authenticates with email/password. An unverified account is signed
// back out immediately so a half-verified session is never left active.
func (g *Gate) Login(ctx context.Context, email, password string) *Notice {
	ident, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailNotVerified):
			if soErr := g.provider.SignOut(ctx); soErr != nil {
				g.logger.Warn(ctx, "sign-out after unverified login failed", "err", soErr)
			}
			return &Notice{
				Title:   "Verification required",
				Message: "Please verify your email address first. Check your inbox for the verification link.",
			}
		case errors.Is(err, common.ErrNetwork):
			return &Notice{
				Title:   "Connection problem",
				Message: "Could not reach the server. Check your network and try again.",
			}
		default:
			g.logger.Debug(ctx, "login failed", "err", err)
			return &Notice{
				Title:   "Login failed",
				Message: "Check your email and password and try again.",
			}
		}
	}

	g.setCurrent(ident)
	return nil
}

// LoginWithSSO exchanges an SSO ticket for a session. An abandoned flow is
// not an error and produces no notice.
func (g *Gate) LoginWithSSO(ctx context.Context, ticket string) *Notice {
	ident, err := g.provider.SignInWithSSO(ctx, ticket)
	if err != nil {
		if errors.Is(err, common.ErrSSODismissed) {
			return nil
		}
		g.logger.Debug(ctx, "sso login failed", "err", err)
		return &Notice{
			Title:   "Sign-in failed",
			Message: "Could not complete the sign-in flow. Please try again.",
		}
	}

	g.setCurrent(ident)
	return nil
}

// Signup creates an account. The new account never becomes the active
// identity here; the user has to verify the email and log in.
func (g *Gate) Signup(ctx context.Context, email, password string) *Notice {
	if err := g.provider.SignUp(ctx, email, password); err != nil {
		return signupNotice(err)
	}

	// provider-side signup must not leave a session behind
	if err := g.provider.SignOut(ctx); err != nil {
		g.logger.Warn(ctx, "sign-out after signup failed", "err", err)
	}
	return &Notice{
		Title:   "Account created",
		Message: "Check your email for the verification link, then log in.",
	}
}

func signupNotice(err error) *Notice {
	switch {
	case errors.Is(err, common.ErrEmailInUse):
		return &Notice{Title: "Signup failed", Message: "This email is already registered."}
	case errors.Is(err, common.ErrWeakPassword):
		return &Notice{Title: "Signup failed", Message: "The password is too weak. Use at least 6 characters."}
	case errors.Is(err, common.ErrMissingPassword):
		return &Notice{Title: "Signup failed", Message: "Please enter a password."}
	case errors.Is(err, common.ErrInvalidEmail):
		return &Notice{Title: "Signup failed", Message: "That does not look like a valid email address."}
	default:
		return &Notice{Title: "Signup failed", Message: "Could not create the account. Please try again."}
	}
}

// ResetPassword requests a reset email. An empty address is rejected locally
// without contacting the provider.
func (g *Gate) ResetPassword(ctx context.Context, email string) *Notice {
	if email == "" {
		return &Notice{Title: "Reset failed", Message: "Please enter your email address."}
	}

	if err := g.provider.SendPasswordReset(ctx, email); err != nil {
		if errors.Is(err, common.ErrEmailNotRegistered) {
			return &Notice{Title: "Reset failed", Message: "This email is not registered."}
		}
		g.logger.Debug(ctx, "password reset failed", "err", err)
		return &Notice{Title: "Reset failed", Message: "Could not send the reset link. Please try again."}
	}
	return &Notice{Title: "Reset link sent", Message: "Check your email for the password reset link."}
}

// Logout ends the active session. For the guest pseudo-identity this is a
// pure local clear; there is no provider session to terminate.
func (g *Gate) Logout(ctx context.Context) {
	current := g.Current()
	if current != nil && current.Mode == ModeRemote {
		if err := g.provider.SignOut(ctx); err != nil {
			g.logger.Warn(ctx, "provider sign-out failed", "err", err)
		}
	}
	g.setCurrent(nil)
}

// StartGuestSession activates the local-guest identity without touching the
// provider.
func (g *Gate) StartGuestSession() {
	guest := Guest()
	g.setCurrent(&guest)
}
