package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkovs/daykeeper/internal/common"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStore(dir)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.Add(ctx, "launch", "2026-03-01"))
	require.NoError(t, s.Add(ctx, "deadline", "2025-12-31"))

	entries, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "launch", entries[0].Title)
	assert.Equal(t, "2026-03-01", entries[0].Date)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	// a fresh store over the same directory sees the same data
	entries2, err := NewLocalStore(dir).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, entries2)
}

func TestLocalStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	require.NoError(t, s.Add(ctx, "launch", "2026-03-01"))
	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.Remove(ctx, entries[0].ID))

	entries, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = s.Remove(ctx, "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLocalStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	snapshots := make(chan []Entry, 8)
	cancel, err := s.Subscribe(ctx, func(entries []Entry) { snapshots <- entries })
	require.NoError(t, err)
	defer cancel()

	// initial snapshot
	assert.Empty(t, recvSnapshot(t, snapshots))

	require.NoError(t, s.Add(ctx, "launch", "2026-03-01"))
	got := recvSnapshot(t, snapshots)
	require.Len(t, got, 1)
	assert.Equal(t, "launch", got[0].Title)

	require.NoError(t, s.Remove(ctx, got[0].ID))
	assert.Empty(t, recvSnapshot(t, snapshots))

	// canceled subscriptions receive nothing further
	cancel()
	require.NoError(t, s.Add(ctx, "after", "2027-01-01"))
	select {
	case extra := <-snapshots:
		t.Fatalf("snapshot after cancel: %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalStoreSubscribeThenAddKeepsOrder(t *testing.T) {
	ctx := context.Background()

	// an add landing right after Subscribe returns must not be shadowed by
	// a late initial snapshot
	for i := 0; i < 25; i++ {
		s := NewLocalStore(t.TempDir())

		snapshots := make(chan []Entry, 8)
		cancel, err := s.Subscribe(ctx, func(entries []Entry) { snapshots <- entries })
		require.NoError(t, err)

		require.NoError(t, s.Add(ctx, "launch", "2026-03-01"))

		// the initial empty snapshot may arrive first or be replaced by
		// the add snapshot, but never the other way around
		got := recvSnapshot(t, snapshots)
		if len(got) == 0 {
			got = recvSnapshot(t, snapshots)
		}
		require.Len(t, got, 1)
		assert.Equal(t, "launch", got[0].Title)

		select {
		case extra := <-snapshots:
			t.Fatalf("stale snapshot after the add: %v", extra)
		case <-time.After(20 * time.Millisecond):
		}
		cancel()
	}
}

func recvSnapshot(t *testing.T, ch chan []Entry) []Entry {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
