package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key is an ordered tuple of strings identifying one cached query result.
type Key []string

func K(parts ...string) Key { return Key(parts) }

func (k Key) String() string { return strings.Join(k, "\x1f") }

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// Entry is the cached state for one key. Entries are replaced wholesale on
// refetch and marked stale on invalidation, never patched in place.
type Entry struct {
	Data      any
	FetchedAt time.Time
	Stale     bool
}

type storeEntry struct {
	key   Key
	entry Entry
}

type watcher struct {
	key Key
	fn  func(Key)
}

// Store is the key-addressed cache every query and mutation goes through.
// It is created once at application start; get/set/invalidate are its only
// mutation surface. Concurrent fetches of one key collapse into a single
// network call.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]storeEntry
	watchers map[int]watcher
	nextID   int
	group    singleflight.Group
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[string]storeEntry),
		watchers: make(map[int]watcher),
		now:      time.Now,
	}
}

func (s *Store) Entry(key Key) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.entries[key.String()]
	return stored.entry, ok
}

func (s *Store) Set(key Key, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = storeEntry{
		key:   key,
		entry: Entry{Data: data, FetchedAt: s.now()},
	}
}

// Invalidate marks every entry whose key begins with prefix as stale and
// notifies watchers registered on matching keys. Entries are never removed:
// the stale data stays readable until a refetch replaces it.
func (s *Store) Invalidate(prefix Key) {
	var notify []func(Key)
	s.mu.Lock()
	for raw, stored := range s.entries {
		if stored.key.HasPrefix(prefix) {
			stored.entry.Stale = true
			s.entries[raw] = stored
		}
	}
	for _, w := range s.watchers {
		if w.key.HasPrefix(prefix) {
			notify = append(notify, w.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range notify {
		fn(prefix)
	}
}

// Watch registers fn to run whenever key is invalidated. The returned cancel
// removes the registration; a consumer that has navigated away no longer
// triggers refetches.
func (s *Store) Watch(key Key, fn func(Key)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = watcher{key: key, fn: fn}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// fetch runs fn at most once per key across concurrent callers; latecomers
// block on the in-flight call and share its result.
func (s *Store) fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	value, err, _ := s.group.Do(key.String(), func() (any, error) {
		return fn(ctx)
	})
	return value, err
}
