// Package watchlist holds the process-wide watchlist.
//
// Every change goes through dispatch: an action is reduced into a new entry
// slice under one lock, the whole list is written through to storage, and
// subscribers receive the new snapshot. Snapshots are never mutated after they
// are published, so subscribers may keep them.
package watchlist

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

// Store is the single owner of watchlist state
type Store struct {
	storage domain.WatchlistStorage
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex // serializes dispatch
	entries []domain.WatchlistEntry

	loadOnce sync.Once
	loaded   chan struct{}

	subMu   sync.Mutex
	subs    map[int]func([]domain.WatchlistEntry)
	nextSub int
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to stamp AddedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store. Call Load once to read persisted entries.
func New(storage domain.WatchlistStorage, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		entries: []domain.WatchlistEntry{},
		loaded:  make(chan struct{}),
		subs:    make(map[int]func([]domain.WatchlistEntry)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted watchlist. Only the first call does any work.
// A read failure leaves the watchlist empty.
func (s *Store) Load() {
	s.loadOnce.Do(func() {
		defer close(s.loaded)

		entries, err := s.storage.LoadWatchlist()
		if err != nil {
			s.logger.Error("failed to load watchlist", "error", err)
			entries = nil
		}
		s.dispatch(loadedAction{entries: entries})
		s.logger.Info("watchlist loaded", "count", len(entries))
	})
}

// Loading reports whether the initial load is still pending
func (s *Store) Loading() bool {
	select {
	case <-s.loaded:
		return false
	default:
		return true
	}
}

// Wait blocks until the initial load has completed or ctx is done
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Add inserts item stamped with the current time. Adding an item that is
// already present changes nothing. It reports whether the item was added.
func (s *Store) Add(ctx context.Context, item domain.ContentItem) (bool, error) {
	if !item.Kind.Valid() {
		return false, domain.ErrUnknownKind
	}
	if err := s.Wait(ctx); err != nil {
		return false, err
	}
	return s.dispatch(addAction{item: item, at: s.now()}), nil
}

// Remove deletes the entry for (kind, id) if present and reports whether it did
func (s *Store) Remove(ctx context.Context, kind domain.Kind, id int) (bool, error) {
	if err := s.Wait(ctx); err != nil {
		return false, err
	}
	return s.dispatch(removeAction{key: domain.Key{Kind: kind, ID: id}}), nil
}

// Toggle adds item when absent and removes it when present.
// It reports whether the item is on the watchlist afterwards.
func (s *Store) Toggle(ctx context.Context, item domain.ContentItem) (bool, error) {
	if s.Contains(item.Kind, item.ID) {
		_, err := s.Remove(ctx, item.Kind, item.ID)
		return false, err
	}
	_, err := s.Add(ctx, item)
	return err == nil, err
}

// Clear removes every entry
func (s *Store) Clear(ctx context.Context) error {
	if err := s.Wait(ctx); err != nil {
		return err
	}
	s.dispatch(clearAction{})
	return nil
}

// Contains reports whether (kind, id) is on the watchlist
func (s *Store) Contains(kind domain.Kind, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.entries, domain.Key{Kind: kind, ID: id}) >= 0
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// List returns the entries, most recently added first
func (s *Store) List() []domain.WatchlistEntry {
	s.mu.Lock()
	entries := s.entries
	s.mu.Unlock()
	return sorted(entries)
}

// Subscribe registers fn to receive the sorted list after every change.
// fn runs while the store is locked and must not call back into the store.
// The returned func unregisters it.
func (s *Store) Subscribe(fn func([]domain.WatchlistEntry)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) dispatch(a action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := a.reduce(s.entries)
	if !changed {
		return false
	}
	s.entries = next

	if a.persist() {
		// memory stays authoritative when the write fails
		if err := s.storage.SaveWatchlist(next); err != nil {
			s.logger.Error("failed to persist watchlist", "count", len(next), "error", err)
		}
	}

	s.notify(sorted(next))
	return true
}

func (s *Store) notify(snapshot []domain.WatchlistEntry) {
	s.subMu.Lock()
	subs := make([]func([]domain.WatchlistEntry), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func sorted(entries []domain.WatchlistEntry) []domain.WatchlistEntry {
	out := make([]domain.WatchlistEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out
}
