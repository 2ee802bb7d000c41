package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/browse"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/watchlist"
)

// Command factories for async operations

const (
	fetchTimeout   = 30 * time.Second
	searchDebounce = 500 * time.Millisecond
)

// ControllerCmd runs one controller operation for a tab
func ControllerCmd(tab int, op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		return PageLoadedMsg{Tab: tab, Op: op, Err: fn(ctx)}
	}
}

// LoadCmd performs a tab's initial fetch
func LoadCmd(tab int, c *browse.Controller) tea.Cmd {
	return ControllerCmd(tab, "load", c.Load)
}

// NextPageCmd requests the next page for a tab
func NextPageCmd(tab int, c *browse.Controller) tea.Cmd {
	return ControllerCmd(tab, "next page", c.LoadNextPage)
}

// RefreshCmd reloads page 1 for a tab
func RefreshCmd(tab int, c *browse.Controller) tea.Cmd {
	return ControllerCmd(tab, "refresh", c.Refresh)
}

// RetryCmd re-fetches the page that failed
func RetryCmd(tab int, c *browse.Controller) tea.Cmd {
	return ControllerCmd(tab, "retry", c.Retry)
}

// SortCmd applies a sort option
func SortCmd(tab int, c *browse.Controller, opt browse.SortOption) tea.Cmd {
	return ControllerCmd(tab, "sort", func(ctx context.Context) error {
		return c.SetSortOption(ctx, opt)
	})
}

// GenreCmd applies a genre filter
func GenreCmd(tab int, c *browse.Controller, genreID *int) tea.Cmd {
	return ControllerCmd(tab, "genre", func(ctx context.Context) error {
		return c.SetGenreFilter(ctx, genreID)
	})
}

// SearchCmd runs a search query
func SearchCmd(tab int, c *browse.Controller, query string) tea.Cmd {
	return ControllerCmd(tab, "search", func(ctx context.Context) error {
		return c.SetQuery(ctx, query)
	})
}

// DebounceSearchCmd waits for typing to pause before searching
func DebounceSearchCmd(seq int, query string) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Seq: seq, Query: query}
	})
}

// LoadDetailCmd loads detail and watch providers for an item
func LoadDetailCmd(agg *detail.Aggregator, item domain.ContentItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		res := agg.Load(ctx, item.Kind, item.ID)
		return DetailLoadedMsg{Result: res, Availability: agg.Availability(res)}
	}
}

// LoadGenresCmd loads the genre list for a kind
func LoadGenresCmd(genres *browse.Genres, kind domain.Kind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		list, err := genres.Get(ctx, kind)
		return GenresLoadedMsg{Kind: kind, Genres: list, Err: err}
	}
}

// WarmGenresCmd loads movie and TV genres in the background
func WarmGenresCmd(genres *browse.Genres) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := genres.Warm(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading genres"}
		}
		return nil
	}
}

// ToggleWatchlistCmd adds or removes an item
func ToggleWatchlistCmd(store *watchlist.Store, item domain.ContentItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		on, err := store.Toggle(ctx, item)
		return WatchlistToggledMsg{Item: item, On: on, Err: err}
	}
}

// WatchlistReadyCmd delivers the watchlist once its initial load completes
func WatchlistReadyCmd(store *watchlist.Store) tea.Cmd {
	return func() tea.Msg {
		if err := store.Wait(context.Background()); err != nil {
			return ErrMsg{Err: err, Context: "loading watchlist"}
		}
		return WatchlistReadyMsg{Entries: store.List()}
	}
}

// listenToWatchlistCmd waits for the next watchlist change
func listenToWatchlistCmd(ch <-chan []domain.WatchlistEntry) tea.Cmd {
	return func() tea.Msg {
		entries, ok := <-ch
		if !ok {
			return nil
		}
		return WatchlistChangedMsg{Entries: entries}
	}
}

// OpenLinkCmd opens a web link outside the terminal
func OpenLinkCmd(open func(string) error, link string) tea.Cmd {
	return func() tea.Msg {
		return LinkOpenedMsg{URL: link, Err: open(link)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
