package users

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}
