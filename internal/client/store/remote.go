package store

import (
	"context"
	"fmt"
)

// Backend is the remote-entry surface the API client provides. WatchEntries
// must invoke onSnapshot once with the current server-side list and again on
// every server-observed mutation until the returned cancel is called.
type Backend interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	CreateEntry(ctx context.Context, title, date string) error
	DeleteEntry(ctx context.Context, id string) error
	WatchEntries(ctx context.Context, onSnapshot func([]Entry)) (func(), error)
}

// RemoteStore adapts the remote backend to the Store contract. It never
// updates optimistically: the watch snapshot that follows each mutation is
// the source of truth.
type RemoteStore struct {
	backend Backend
}

func NewRemoteStore(b Backend) *RemoteStore {
	return &RemoteStore{backend: b}
}

func (s *RemoteStore) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.backend.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (s *RemoteStore) Add(ctx context.Context, title, date string) error {
	if err := s.backend.CreateEntry(ctx, title, date); err != nil {
		return fmt.Errorf("add entry %q: %w", title, err)
	}
	return nil
}

func (s *RemoteStore) Remove(ctx context.Context, id string) error {
	if err := s.backend.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("remove entry %s: %w", id, err)
	}
	return nil
}

func (s *RemoteStore) Subscribe(ctx context.Context, onChange func([]Entry)) (func(), error) {
	cancel, err := s.backend.WatchEntries(ctx, onChange)
	if err != nil {
		return nil, fmt.Errorf("watch entries: %w", err)
	}
	return cancel, nil
}
