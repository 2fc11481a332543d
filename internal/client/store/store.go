// Package store provides the entry storage used by the client: a uniform
// CRUD+subscribe contract over two backing modes, device-local (guest) and
// remote-subscribed (signed-in).
package store

import (
	"context"
	"time"
)

// Entry is one tracked target date.
//
// ID is unique within the owning identity's entry set. Date is a calendar
// day in dday.DateLayout. OwnerID and CreatedAt are only populated in
// remote mode; guest entries are implicitly owned by the device.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Store is the uniform contract both variants satisfy.
//
// Entries are never edited in place; the only mutations are Add and Remove.
// Subscribe invokes onChange with the current entry set once shortly after
// registration and again after every observed mutation, until the returned
// cancel function is called. Cancel is safe to call more than once but must
// be called at least once to release the listener.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Add(ctx context.Context, title, date string) error
	Remove(ctx context.Context, id string) error
	Subscribe(ctx context.Context, onChange func([]Entry)) (cancel func(), err error)
}
