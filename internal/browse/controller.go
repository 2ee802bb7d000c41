package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// ErrFilterUnsupported is returned when sorting or genre filtering is
// requested on a listing that has neither (top rated, search).
var ErrFilterUnsupported = errors.New("listing does not support this filter")

// Status is the controller's position in its fetch state machine
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusLoadingMore
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusLoadingMore:
		return "loading-more"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Query is the filter state a listing is fetched with
type Query struct {
	List    domain.ListType
	Kind    domain.Kind // empty for search
	Sort    SortOption
	GenreID *int
	Text    string // search only
}

// Fetcher loads one page for a query
type Fetcher func(ctx context.Context, q Query, page int) (domain.Page, error)

// State is a snapshot of a controller's page state.
type State struct {
	Status     Status
	Page       int // last page applied; 1 after a reset
	TotalPages int
	Items      []domain.ContentItem
	Query      Query

	InFlightPage int  // 0 when idle
	Refreshing   bool // page-1 reload that keeps the current items on screen

	Err     error
	ErrPage int
	Stopped bool // pagination halted after a later-page failure
}

// Blocking reports whether the error should replace the list (page-1 failure)
func (s State) Blocking() bool {
	return s.Err != nil && s.ErrPage == 1
}

// HasMore reports whether another page can be requested
func (s State) HasMore() bool {
	return s.Page < s.TotalPages && !s.Stopped
}

// FullScreenLoading reports whether the list should show the blocking spinner
func (s State) FullScreenLoading() bool {
	return s.Status == StatusLoading && !s.Refreshing
}

// Controller drives incremental pagination for one screen.
// Every method is safe for concurrent use. At most one fetch is in flight;
// a reset (sort, genre, query, refresh) supersedes it and its late result is dropped.
type Controller struct {
	name      string
	fetch     Fetcher
	canSort   bool
	canFilter bool
	logger    *slog.Logger

	mu    sync.Mutex
	state State
	seen  map[domain.Key]struct{}
	token uint64
}

func newController(name string, q Query, fetch Fetcher, canSort, canFilter bool, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		name:      name,
		fetch:     fetch,
		canSort:   canSort,
		canFilter: canFilter,
		logger:    logger.With("controller", name),
		state:     State{Status: StatusIdle, Page: 1, TotalPages: 1, Query: q},
		seen:      make(map[domain.Key]struct{}),
	}
}

// NewDiscover pages through /discover for kind with sort and genre filters
func NewDiscover(gw domain.Gateway, kind domain.Kind, logger *slog.Logger) *Controller {
	q := Query{List: domain.ListDiscover, Kind: kind, Sort: SortPopularity}
	return newController("discover-"+string(kind), q, listFetcher(gw), true, true, logger)
}

// NewTopRated pages through the top-rated listing for kind
func NewTopRated(gw domain.Gateway, kind domain.Kind, logger *slog.Logger) *Controller {
	q := Query{List: domain.ListTopRated, Kind: kind}
	return newController("top-rated-"+string(kind), q, listFetcher(gw), false, false, logger)
}

// NewSearch pages through multi-type search results
func NewSearch(gw domain.Gateway, logger *slog.Logger) *Controller {
	fetch := func(ctx context.Context, q Query, page int) (domain.Page, error) {
		return gw.Search(ctx, q.Text, page)
	}
	return newController("search", Query{}, fetch, false, false, logger)
}

func listFetcher(gw domain.Gateway) Fetcher {
	return func(ctx context.Context, q Query, page int) (domain.Page, error) {
		var sortKey string
		if q.Sort != "" {
			sortKey = q.Sort.APIKey(q.Kind)
		}
		return gw.FetchList(ctx, q.Kind, q.List, page, sortKey, q.GenreID)
	}
}

// Name identifies the controller in logs
func (c *Controller) Name() string { return c.name }

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = append([]domain.ContentItem(nil), c.state.Items...)
	if c.state.Query.GenreID != nil {
		id := *c.state.Query.GenreID
		s.Query.GenreID = &id
	}
	return s
}

// Load fetches the first page. It is a no-op while page 1 is already in flight.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state.InFlightPage == 1 {
		c.mu.Unlock()
		return nil
	}
	token, q := c.resetLocked()
	c.mu.Unlock()
	return c.run(ctx, token, q, 1)
}

// SetSortOption changes the sort and reloads from page 1 when it differs
func (c *Controller) SetSortOption(ctx context.Context, opt SortOption) error {
	if !c.canSort {
		return ErrFilterUnsupported
	}
	c.mu.Lock()
	if c.state.Query.Sort == opt {
		c.mu.Unlock()
		return nil
	}
	c.state.Query.Sort = opt
	token, q := c.resetLocked()
	c.mu.Unlock()

	c.logger.Debug("sort changed", "sort", opt)
	return c.run(ctx, token, q, 1)
}

// SetGenreFilter changes the genre filter (nil = all genres) and reloads when it differs
func (c *Controller) SetGenreFilter(ctx context.Context, genreID *int) error {
	if !c.canFilter {
		return ErrFilterUnsupported
	}
	c.mu.Lock()
	if sameGenre(c.state.Query.GenreID, genreID) {
		c.mu.Unlock()
		return nil
	}
	if genreID != nil {
		id := *genreID
		genreID = &id
	}
	c.state.Query.GenreID = genreID
	token, q := c.resetLocked()
	c.mu.Unlock()

	c.logger.Debug("genre filter changed", "genre", genreID)
	return c.run(ctx, token, q, 1)
}

// SetQuery replaces the search text and reloads. An empty query clears the
// results without a fetch.
func (c *Controller) SetQuery(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if text == c.state.Query.Text && c.state.Status != StatusIdle {
		c.mu.Unlock()
		return nil
	}
	c.state.Query.Text = text
	token, q := c.resetLocked()
	if text == "" {
		c.state.Status = StatusReady
		c.state.InFlightPage = 0
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.run(ctx, token, q, 1)
}

// LoadNextPage fetches the page after the last one applied. It does nothing when
// every page is loaded, a fetch or refresh is in flight, or pagination stopped on error.
func (c *Controller) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	s := &c.state
	if s.Status == StatusIdle || s.InFlightPage != 0 || s.Refreshing || s.Blocking() || !s.HasMore() {
		c.mu.Unlock()
		return nil
	}
	next := s.Page + 1
	s.InFlightPage = next
	s.Status = StatusLoadingMore
	token, q := c.token, s.Query
	c.mu.Unlock()

	return c.run(ctx, token, q, next)
}

// Refresh reloads page 1 and replaces the items once it arrives. Current items
// stay visible meanwhile and any in-flight next-page fetch is superseded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status == StatusIdle {
		c.mu.Unlock()
		return c.Load(ctx)
	}
	if c.state.InFlightPage == 1 {
		c.mu.Unlock()
		return nil
	}
	c.token++
	c.state.Refreshing = true
	c.state.InFlightPage = 1
	c.state.Stopped = false
	c.state.Err = nil
	c.state.ErrPage = 0
	token, q := c.token, c.state.Query
	c.mu.Unlock()

	return c.run(ctx, token, q, 1)
}

// Retry re-fetches the page whose fetch last failed
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	s := &c.state
	if s.Err == nil || s.InFlightPage != 0 {
		c.mu.Unlock()
		return nil
	}
	page := s.ErrPage
	if page <= 1 {
		token, q := c.resetLocked()
		c.mu.Unlock()
		return c.run(ctx, token, q, 1)
	}
	s.Err = nil
	s.ErrPage = 0
	s.Stopped = false
	s.InFlightPage = page
	s.Status = StatusLoadingMore
	token, q := c.token, s.Query
	c.mu.Unlock()

	return c.run(ctx, token, q, page)
}

// resetLocked clears page state for a fresh page-1 load and supersedes any in-flight fetch.
func (c *Controller) resetLocked() (uint64, Query) {
	c.token++
	c.state.Status = StatusLoading
	c.state.Page = 1
	c.state.TotalPages = 1
	c.state.Items = nil
	c.state.InFlightPage = 1
	c.state.Refreshing = false
	c.state.Err = nil
	c.state.ErrPage = 0
	c.state.Stopped = false
	clear(c.seen)
	return c.token, c.state.Query
}

func (c *Controller) run(ctx context.Context, token uint64, q Query, page int) error {
	resp, err := c.fetch(ctx, q, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token || c.state.InFlightPage != page {
		c.logger.Debug("discarding stale response", "page", page)
		return nil
	}

	s := &c.state
	s.InFlightPage = 0
	refreshing := s.Refreshing
	s.Refreshing = false

	if err != nil {
		c.logger.Error("failed to fetch page", "page", page, "error", err)
		s.Err = err
		s.ErrPage = page
		s.Status = StatusError
		if page == 1 {
			s.Items = nil
			clear(c.seen)
		} else {
			s.Stopped = true
		}
		return err
	}

	if page == 1 {
		s.Items = make([]domain.ContentItem, 0, len(resp.Results))
		clear(c.seen)
	}
	added := 0
	for _, item := range resp.Results {
		key := item.Key()
		if _, dup := c.seen[key]; dup {
			continue
		}
		c.seen[key] = struct{}{}
		s.Items = append(s.Items, item)
		added++
	}

	s.Page = page
	s.TotalPages = resp.TotalPages
	s.Status = StatusReady
	s.Err = nil
	s.ErrPage = 0

	c.logger.Debug("page applied", "page", page, "added", added, "total", len(s.Items),
		"totalPages", resp.TotalPages, "refresh", refreshing)
	return nil
}

func sameGenre(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
