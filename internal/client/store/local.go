package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/avolkovs/daykeeper/internal/common"
)

// localListKey is the single key under which the guest entry list lives.
const localListKey = "localDdays"

// LocalStore keeps guest-mode entries on the device, serialized as one JSON
// list in a diskv directory. It is the full and only copy of the data.
type LocalStore struct {
	d *diskv.Diskv

	mu       sync.Mutex
	watchers map[int]*localWatcher
	nextID   int
	lastAdd  int64
}

// localWatcher delivers snapshots to one subscriber through a buffered
// channel drained by a single goroutine, so callbacks arrive in the order
// the store emits them. The channel has capacity one and a newer snapshot
// replaces an unread one; watchers always converge on the latest state.
type localWatcher struct {
	ch   chan []Entry
	done chan struct{}
}

// push enqueues a snapshot. The caller holds the store mutex, so pushes are
// ordered and the drain-then-send below never blocks.
func (w *localWatcher) push(entries []Entry) {
	select {
	case <-w.ch:
	default:
	}
	w.ch <- entries
}

func (w *localWatcher) run(onChange func([]Entry)) {
	for {
		select {
		case entries := <-w.ch:
			onChange(entries)
		case <-w.done:
			return
		}
	}
}

// NewLocalStore opens (or creates) the on-device store rooted at basePath.
func NewLocalStore(basePath string) *LocalStore {
	return &LocalStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		watchers: map[int]*localWatcher{},
	}
}

func (s *LocalStore) readList() ([]Entry, error) {
	if !s.d.Has(localListKey) {
		return []Entry{}, nil
	}
	raw, err := s.d.Read(localListKey)
	if err != nil {
		return nil, fmt.Errorf("read local entries: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode local entries: %w", err)
	}
	return entries, nil
}

func (s *LocalStore) writeList(entries []Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode local entries: %w", err)
	}
	if err := s.d.Write(localListKey, raw); err != nil {
		return fmt.Errorf("write local entries: %w", err)
	}
	return nil
}

// List returns the persisted entry set; an absent key is an empty list.
func (s *LocalStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readList()
}

// Add appends a new entry and re-serializes the list synchronously.
// The id is the creation instant in Unix milliseconds, bumped by one if two
// adds land within the same millisecond.
func (s *LocalStore) Add(_ context.Context, title, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readList()
	if err != nil {
		return err
	}

	id := time.Now().UnixMilli()
	if id <= s.lastAdd {
		id = s.lastAdd + 1
	}
	s.lastAdd = id

	entries = append(entries, Entry{
		ID:    strconv.FormatInt(id, 10),
		Title: title,
		Date:  date,
	})
	if err := s.writeList(entries); err != nil {
		return err
	}

	s.broadcast(entries)
	return nil
}

// Remove filters the entry out and re-serializes. Removing an unknown id
// reports common.ErrNotFound.
func (s *LocalStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readList()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("remove entry %s: %w", id, common.ErrNotFound)
	}
	if err := s.writeList(kept); err != nil {
		return err
	}

	s.broadcast(kept)
	return nil
}

// Subscribe registers onChange and enqueues the current list before
// releasing the store lock, so a mutation that lands right after Subscribe
// returns can never be shadowed by an older initial snapshot. There is no
// external change source in guest mode; snapshots follow this process's own
// mutations only.
func (s *LocalStore) Subscribe(_ context.Context, onChange func([]Entry)) (func(), error) {
	s.mu.Lock()
	entries, err := s.readList()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	w := &localWatcher{ch: make(chan []Entry, 1), done: make(chan struct{})}
	id := s.nextID
	s.nextID++
	s.watchers[id] = w
	w.push(entries)
	s.mu.Unlock()

	go w.run(onChange)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(w.done)
		})
	}
	return cancel, nil
}

// broadcast enqueues a fresh snapshot for every watcher. Caller holds s.mu.
func (s *LocalStore) broadcast(entries []Entry) {
	for _, w := range s.watchers {
		w.push(append([]Entry(nil), entries...))
	}
}
