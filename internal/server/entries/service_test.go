package entries

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/logging"
)

type memEntryRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *memEntryRepo) ListByOwner(_ context.Context, ownerID string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Entry
	for _, e := range r.entries {
		if e.OwnerID == ownerID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memEntryRepo) Create(_ context.Context, entry *Entry) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return entry, nil
}

func (r *memEntryRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id && e.OwnerID == ownerID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func newTestService() (*Service, *memEntryRepo) {
	repo := &memEntryRepo{}
	return NewService(repo, NewHub(), logging.NewJSONLogger(io.Discard)), repo
}

func recvSnapshot(t *testing.T, ch <-chan []Entry) []Entry {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
		return nil
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "", "2026-03-01")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, "u1", "launch", "03/01/2026")
	assert.ErrorIs(t, err, common.ErrValidation)

	entry, err := svc.Create(ctx, "u1", "launch", "2026-03-01")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "u1", entry.OwnerID)
}

func TestListIsOwnerScoped(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "mine", "2026-03-01")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", "theirs", "2026-04-01")
	require.NoError(t, err)

	mine, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)
}

func TestDeleteForeignEntryNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	entry, err := svc.Create(ctx, "u1", "mine", "2026-03-01")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", entry.ID), common.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", entry.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", entry.ID), common.ErrNotFound)
}

func TestWatchReceivesMutations(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ch, cancel := svc.Watch("u1")
	defer cancel()

	entry, err := svc.Create(ctx, "u1", "launch", "2026-03-01")
	require.NoError(t, err)

	snap := recvSnapshot(t, ch)
	require.Len(t, snap, 1)
	assert.Equal(t, "launch", snap[0].Title)

	require.NoError(t, svc.Delete(ctx, "u1", entry.ID))
	assert.Empty(t, recvSnapshot(t, ch))
}

func TestWatchIsOwnerScoped(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ch, cancel := svc.Watch("u1")
	defer cancel()

	_, err := svc.Create(ctx, "u2", "theirs", "2026-03-01")
	require.NoError(t, err)

	select {
	case s := <-ch:
		t.Fatalf("unexpected snapshot for foreign owner: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubLatestWins(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("u1")
	defer cancel()

	// nobody reading: the second broadcast replaces the first
	h.Broadcast("u1", []Entry{{ID: "old"}})
	h.Broadcast("u1", []Entry{{ID: "new"}})

	snap := <-ch
	require.Len(t, snap, 1)
	assert.Equal(t, "new", snap[0].ID)
}

func TestHubCancelIdempotent(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe("u1")
	cancel()
	cancel()

	// broadcasting after cancel must not panic
	h.Broadcast("u1", []Entry{{ID: "x"}})
}
