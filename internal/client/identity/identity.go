// Package identity owns the acting principal: who is signed in (if anyone),
// how sign-in/sign-up/sign-out flows run against the identity provider, and
// how provider failures collapse into a small user-facing vocabulary.
package identity

import "context"

// Mode says where an identity's data lives.
type Mode string

const (
	// ModeRemote: a real provider account; entries live server-side.
	ModeRemote Mode = "remote"
	// ModeLocalGuest: the "start immediately" pseudo-identity; entries live
	// on this device only and never appear in remote queries.
	ModeLocalGuest Mode = "local-guest"
)

// Fixed sentinel values for the guest pseudo-identity.
const (
	GuestID    = "local"
	GuestLabel = "Guest"
)

// Identity is the acting principal. At most one is active at a time.
type Identity struct {
	ID    string
	Label string
	Mode  Mode
}

// Guest synthesizes the local-guest identity. No provider involved.
func Guest() Identity {
	return Identity{ID: GuestID, Label: GuestLabel, Mode: ModeLocalGuest}
}

// Provider is the external identity backend. Implementations must fail with
// the sentinel errors from internal/common (matched via errors.Is); raw
// provider messages never cross this boundary.
type Provider interface {
	// SignIn authenticates with email/password and establishes a session.
	SignIn(ctx context.Context, email, password string) (*Identity, error)

	// SignInWithSSO exchanges a single-sign-on ticket for a session.
	// An abandoned flow fails with common.ErrSSODismissed.
	SignInWithSSO(ctx context.Context, ticket string) (*Identity, error)

	// SignUp creates an account and triggers a verification email.
	// It never establishes a session.
	SignUp(ctx context.Context, email, password string) error

	// SendPasswordReset requests a reset email for the address.
	SendPasswordReset(ctx context.Context, email string) error

	// SignOut terminates the current session, if any.
	SignOut(ctx context.Context) error

	// Resume revalidates a previously persisted session.
	// (nil, nil) means there is nothing to resume.
	Resume(ctx context.Context) (*Identity, error)
}

// Notice is a user-facing status message produced by gate operations.
// A nil *Notice means the operation completed with nothing to tell the user.
type Notice struct {
	Title   string
	Message string
}
