package entries

import "sync"

// Hub fans out entry snapshots to watchers, keyed by owner. Channels are
// buffered with capacity one and a newer snapshot replaces an unread one, so
// a slow watcher only ever misses intermediate states, never the latest.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan []Entry
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[int]chan []Entry{}}
}

// Subscribe registers a watcher for ownerID. The returned cancel must be
// called exactly once; the channel is closed by it.
func (h *Hub) Subscribe(ownerID string) (<-chan []Entry, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan []Entry, 1)
	id := h.nextID
	h.nextID++

	if h.subs[ownerID] == nil {
		h.subs[ownerID] = map[int]chan []Entry{}
	}
	h.subs[ownerID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[ownerID], id)
			if len(h.subs[ownerID]) == 0 {
				delete(h.subs, ownerID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Broadcast delivers snapshot to every watcher of ownerID without blocking:
// an unread older snapshot is dropped first.
func (h *Hub) Broadcast(ownerID string, snapshot []Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[ownerID] {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}
