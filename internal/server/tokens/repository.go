package tokens

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, t *Token) error
	// Consume removes the token and returns it. A missing token yields
	// common.ErrNotFound, an expired one common.ErrTokenExpired.
	Consume(ctx context.Context, token string, kind Kind) (*Token, error)
}
