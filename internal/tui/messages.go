package tui

import (
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg signals that a controller operation on a tab finished.
// Err is nil for no-ops and superseded fetches.
type PageLoadedMsg struct {
	Tab int
	Op  string
	Err error
}

// SearchDebounceMsg fires after typing pauses. Stale sequence numbers are ignored.
type SearchDebounceMsg struct {
	Seq   int
	Query string
}

// DetailLoadedMsg carries the aggregated detail for the open item
type DetailLoadedMsg struct {
	Result       detail.Result
	Availability detail.Availability
}

// GenresLoadedMsg carries the genre list for a kind
type GenresLoadedMsg struct {
	Kind   domain.Kind
	Genres []domain.Genre
	Err    error
}

// WatchlistChangedMsg carries the latest watchlist snapshot
type WatchlistChangedMsg struct {
	Entries []domain.WatchlistEntry
}

// WatchlistReadyMsg signals that the initial watchlist load finished
type WatchlistReadyMsg struct {
	Entries []domain.WatchlistEntry
}

// WatchlistToggledMsg reports the outcome of a user toggle
type WatchlistToggledMsg struct {
	Item domain.ContentItem
	On   bool
	Err  error
}

// LinkOpenedMsg reports the outcome of opening a web link
type LinkOpenedMsg struct {
	URL string
	Err error
}

// TickMsg drives spinner animation and polling of in-flight fetches
type TickMsg struct{}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
