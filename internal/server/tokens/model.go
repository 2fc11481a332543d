// Package tokens manages one-shot action tokens: email verification links,
// password reset links and SSO tickets. A token is consumed on first use.
package tokens

import "time"

// Kind discriminates what a token is good for. A token of one kind can never
// be redeemed as another.
type Kind string

const (
	KindVerify Kind = "verify"
	KindReset  Kind = "reset"
	KindSSO    Kind = "sso"
)

type Token struct {
	Token     string
	UserID    string
	Kind      Kind
	ExpiresAt time.Time
}
