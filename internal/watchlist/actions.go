package watchlist

import (
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

// action is a watchlist change. reduce returns the next entry list and whether
// anything changed; it never mutates its input.
type action interface {
	reduce(entries []domain.WatchlistEntry) ([]domain.WatchlistEntry, bool)
	persist() bool
}

type loadedAction struct {
	entries []domain.WatchlistEntry
}

func (a loadedAction) reduce(_ []domain.WatchlistEntry) ([]domain.WatchlistEntry, bool) {
	seen := make(map[domain.Key]struct{}, len(a.entries))
	next := make([]domain.WatchlistEntry, 0, len(a.entries))
	for _, e := range a.entries {
		if !e.Kind.Valid() {
			continue
		}
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		next = append(next, e)
	}
	return next, true
}

func (loadedAction) persist() bool { return false }

type addAction struct {
	item domain.ContentItem
	at   time.Time
}

func (a addAction) reduce(entries []domain.WatchlistEntry) ([]domain.WatchlistEntry, bool) {
	if indexOf(entries, a.item.Key()) >= 0 {
		return entries, false
	}
	next := make([]domain.WatchlistEntry, 0, len(entries)+1)
	next = append(next, domain.WatchlistEntry{ContentItem: a.item, AddedAt: a.at})
	next = append(next, entries...)
	return next, true
}

func (addAction) persist() bool { return true }

type removeAction struct {
	key domain.Key
}

func (a removeAction) reduce(entries []domain.WatchlistEntry) ([]domain.WatchlistEntry, bool) {
	i := indexOf(entries, a.key)
	if i < 0 {
		return entries, false
	}
	next := make([]domain.WatchlistEntry, 0, len(entries)-1)
	next = append(next, entries[:i]...)
	next = append(next, entries[i+1:]...)
	return next, true
}

func (removeAction) persist() bool { return true }

type clearAction struct{}

func (clearAction) reduce(entries []domain.WatchlistEntry) ([]domain.WatchlistEntry, bool) {
	return []domain.WatchlistEntry{}, len(entries) > 0
}

func (clearAction) persist() bool { return true }

func indexOf(entries []domain.WatchlistEntry, key domain.Key) int {
	for i, e := range entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}
