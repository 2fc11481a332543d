package entries

import (
	"context"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Entry, error)
	Create(ctx context.Context, entry *Entry) (*Entry, error)
	// Delete removes the entry only if it belongs to ownerID; a foreign or
	// unknown ID yields common.ErrNotFound.
	Delete(ctx context.Context, ownerID, id string) error
}
