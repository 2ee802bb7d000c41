package tui

import "github.com/mmcdole/marquee/internal/domain"

// WatchlistObserver adapts watchlist subscriptions to a channel for Bubble Tea.
type WatchlistObserver struct {
	ch chan []domain.WatchlistEntry
}

// NewWatchlistObserver creates a channel-based observer.
func NewWatchlistObserver() *WatchlistObserver {
	return &WatchlistObserver{ch: make(chan []domain.WatchlistEntry, 1)}
}

// OnChange delivers the newest snapshot, replacing one not yet read.
func (o *WatchlistObserver) OnChange(entries []domain.WatchlistEntry) {
	for {
		select {
		case o.ch <- entries:
			return
		default:
		}
		// drop the stale snapshot
		select {
		case <-o.ch:
		default:
		}
	}
}

// Changes returns the receive side
func (o *WatchlistObserver) Changes() <-chan []domain.WatchlistEntry {
	return o.ch
}
