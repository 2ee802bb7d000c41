package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/browse"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/images"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/watchlist"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateDetail
	StateHelp
)

// Tab indices
const (
	TabMovies = iota
	TabTV
	TabTopRated
	TabSearch
	TabWatchlist

	tabCount
)

const (
	tickInterval  = 100 * time.Millisecond
	statusTimeout = 3 * time.Second

	// Vertical chrome: tab bar and footer
	ChromeHeight = 2
	// Search input line above the results
	SearchInputHeight = 1
)

// LinkOpener opens web links outside the terminal
type LinkOpener interface {
	Open(link string) error
}

// Deps are the services the model drives
type Deps struct {
	Gateway    domain.Gateway
	Watchlist  *watchlist.Store
	Aggregator *detail.Aggregator
	Genres     *browse.Genres
	Images     images.Resolver
	Opener     LinkOpener
	Logger     *slog.Logger
}

// tab is one top-level screen. Watchlist has no controller.
type tab struct {
	title   string
	ctrl    *browse.Controller
	list    *components.ContentList
	pending int // controller commands not yet answered
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State     ApplicationState
	prevState ApplicationState // restored when help closes
	Ready     bool

	// Services
	Watchlist  *watchlist.Store
	Aggregator *detail.Aggregator
	Genres     *browse.Genres
	Opener     LinkOpener
	logger     *slog.Logger

	// UI components
	Tabs        []*tab
	ActiveTab   int
	Detail      components.DetailPane
	SortModal   components.SortModal
	GenreModal  components.GenreModal
	SearchInput textinput.Model
	searchSeq   int

	// Theme
	Theme  styles.Theme
	Styles styles.Styles

	// Data
	Entries []domain.WatchlistEntry
	marked  map[domain.Key]bool

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	observer *WatchlistObserver
}

// NewModel creates a new application model
func NewModel(deps Deps, theme styles.Theme) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	st := styles.New(theme)

	newTab := func(title string, ctrl *browse.Controller) *tab {
		return &tab{title: title, ctrl: ctrl, list: components.NewContentList(title, st)}
	}
	tabs := make([]*tab, tabCount)
	tabs[TabMovies] = newTab("Movies", browse.NewDiscover(deps.Gateway, domain.KindMovie, logger))
	tabs[TabTV] = newTab("TV Shows", browse.NewDiscover(deps.Gateway, domain.KindTV, logger))
	tabs[TabTopRated] = newTab("Top Rated", browse.NewTopRated(deps.Gateway, domain.KindMovie, logger))
	tabs[TabSearch] = newTab("Search", browse.NewSearch(deps.Gateway, logger))
	tabs[TabWatchlist] = newTab("Watchlist", nil)

	input := textinput.New()
	input.Placeholder = "Search movies and TV shows..."
	input.Prompt = "search: "
	input.CharLimit = 100
	input.PromptStyle = st.FilterPrompt

	observer := NewWatchlistObserver()
	deps.Watchlist.Subscribe(observer.OnChange)

	m := Model{
		State:       StateBrowsing,
		Watchlist:   deps.Watchlist,
		Aggregator:  deps.Aggregator,
		Genres:      deps.Genres,
		Opener:      deps.Opener,
		logger:      logger,
		Tabs:        tabs,
		ActiveTab:   TabMovies,
		Detail:      components.NewDetailPane(deps.Images),
		SortModal:   components.NewSortModal(),
		GenreModal:  components.NewGenreModal(),
		SearchInput: input,
		Theme:       theme,
		Styles:      st,
		marked:      make(map[domain.Key]bool),
		observer:    observer,
	}
	for i := range m.Tabs {
		m.syncTab(i)
	}
	m.Tabs[m.ActiveTab].list.SetFocused(true)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	t := m.Tabs[m.ActiveTab]
	t.pending++
	return tea.Batch(
		LoadCmd(m.ActiveTab, t.ctrl),
		WarmGenresCmd(m.Genres),
		WatchlistReadyCmd(m.Watchlist),
		listenToWatchlistCmd(m.observer.Changes()),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		for i, t := range m.Tabs {
			t.list.SetSpinnerFrame(m.SpinnerFrame)
			if t.pending > 0 {
				m.syncTab(i)
			}
		}
		m.Detail.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case PageLoadedMsg:
		t := m.Tabs[msg.Tab]
		t.pending = max(t.pending-1, 0)
		m.syncTab(msg.Tab)
		if msg.Err != nil {
			if errors.Is(msg.Err, browse.ErrFilterUnsupported) {
				return m, m.setStatus(fmt.Sprintf("%s can't be filtered", t.title), false)
			}
			m.logger.Debug("listing fetch failed", "tab", t.title, "op", msg.Op, "error", msg.Err)
		}
		return m, m.maybeLoadMore(msg.Tab)

	case SearchDebounceMsg:
		if msg.Seq != m.searchSeq {
			return m, nil
		}
		return m, m.runCtrl(TabSearch, func(c *browse.Controller) tea.Cmd {
			return SearchCmd(TabSearch, c, msg.Query)
		})

	case DetailLoadedMsg:
		if m.Detail.SetResult(msg.Result, msg.Availability) && msg.Result.Err != nil {
			m.logger.Warn("detail load failed", "key", msg.Result.Key, "error", msg.Result.Err)
		}
		return m, nil

	case GenresLoadedMsg:
		if m.GenreModal.IsVisible() && m.GenreModal.Kind() == msg.Kind {
			m.GenreModal.SetGenres(msg.Genres, msg.Err)
		}
		// titles carry the genre name
		m.syncTab(TabMovies)
		m.syncTab(TabTV)
		return m, nil

	case WatchlistReadyMsg:
		m.setEntries(msg.Entries)
		return m, nil

	case WatchlistChangedMsg:
		m.setEntries(msg.Entries)
		return m, listenToWatchlistCmd(m.observer.Changes())

	case WatchlistToggledMsg:
		if msg.Err != nil {
			return m, m.setStatus(components.ErrorText(msg.Err), true)
		}
		if msg.On {
			return m, m.setStatus(fmt.Sprintf("Added %s to watchlist", msg.Item.Title), false)
		}
		return m, m.setStatus(fmt.Sprintf("Removed %s from watchlist", msg.Item.Title), false)

	case LinkOpenedMsg:
		if msg.Err != nil {
			return m, m.setStatus("Could not open link: "+msg.Err.Error(), true)
		}
		return m, m.setStatus("Opened "+msg.URL, false)

	case ErrMsg:
		m.logger.Error("background task failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other textinput internals
	if m.SearchInput.Focused() {
		var cmd tea.Cmd
		m.SearchInput, cmd = m.SearchInput.Update(msg)
		return m, cmd
	}
	if m.GenreModal.IsVisible() {
		cmd, _ := m.GenreModal.Update(msg)
		return m, cmd
	}
	return m, nil
}

// runCtrl dispatches a controller command for a tab and tracks it as pending
func (m *Model) runCtrl(idx int, build func(*browse.Controller) tea.Cmd) tea.Cmd {
	t := m.Tabs[idx]
	if t.ctrl == nil {
		return nil
	}
	t.pending++
	return build(t.ctrl)
}

// maybeLoadMore requests the next page when the cursor nears the end of a listing
func (m *Model) maybeLoadMore(idx int) tea.Cmd {
	t := m.Tabs[idx]
	if t.ctrl == nil || t.pending > 0 || !t.list.NearEnd() {
		return nil
	}
	snap := t.ctrl.Snapshot()
	if snap.Status != browse.StatusReady || !snap.HasMore() {
		return nil
	}
	return m.runCtrl(idx, func(c *browse.Controller) tea.Cmd {
		return NextPageCmd(idx, c)
	})
}

// syncTab copies controller (or watchlist) state into the tab's list
func (m *Model) syncTab(idx int) {
	t := m.Tabs[idx]
	if t.ctrl == nil {
		t.list.SetState(m.watchlistState())
		t.list.SetTitle(fmt.Sprintf("%s (%d)", t.title, len(m.Entries)))
		return
	}

	snap := t.ctrl.Snapshot()
	ls := components.ListState{
		Items:       snap.Items,
		Loading:     snap.FullScreenLoading(),
		Refreshing:  snap.Refreshing,
		LoadingMore: snap.Status == browse.StatusLoadingMore,
		HasMore:     snap.HasMore(),
		ShowKind:    idx == TabSearch,
		Empty:       "Nothing found.",
	}
	if snap.Blocking() {
		ls.Err = snap.Err
	} else if snap.Err != nil {
		ls.Notice = components.ErrorText(snap.Err) + " · r to retry"
	}
	if idx == TabSearch && snap.Query.Text == "" {
		ls.Empty = "Type / to search movies and TV shows."
	}
	t.list.SetState(ls)
	t.list.SetTitle(m.tabTitle(idx, snap))
}

// tabTitle describes the listing with its sort and genre
func (m Model) tabTitle(idx int, snap browse.State) string {
	t := m.Tabs[idx]
	switch idx {
	case TabMovies, TabTV:
		title := t.title + " · " + snap.Query.Sort.String()
		if snap.Query.GenreID != nil {
			if name := m.Genres.Name(snap.Query.Kind, *snap.Query.GenreID); name != "" {
				title += " · " + name
			}
		}
		return title
	case TabSearch:
		if snap.Query.Text != "" {
			return fmt.Sprintf("%s: %q", t.title, snap.Query.Text)
		}
	}
	return t.title
}

func (m Model) watchlistState() components.ListState {
	items := make([]domain.ContentItem, len(m.Entries))
	for i, e := range m.Entries {
		items[i] = e.ContentItem
	}
	return components.ListState{
		Items:    items,
		Loading:  m.Watchlist.Loading(),
		ShowKind: true,
		Empty:    "Your watchlist is empty. Press w on any title to add it.",
	}
}

// setEntries applies a watchlist snapshot to every view that shows it
func (m *Model) setEntries(entries []domain.WatchlistEntry) {
	m.Entries = entries
	m.marked = make(map[domain.Key]bool, len(entries))
	for _, e := range entries {
		m.marked[e.Key()] = true
	}
	for _, t := range m.Tabs {
		t.list.SetMarked(m.marked)
	}
	m.syncTab(TabWatchlist)
	m.Detail.SetInWatchlist(m.marked[m.Detail.Item().Key()])
}

// switchTab focuses another tab and loads it on first visit
func (m *Model) switchTab(idx int) tea.Cmd {
	if idx == m.ActiveTab || idx < 0 || idx >= len(m.Tabs) {
		return nil
	}
	m.Tabs[m.ActiveTab].list.SetFocused(false)
	m.ActiveTab = idx
	t := m.Tabs[idx]
	t.list.SetFocused(true)

	if idx == TabSearch {
		if m.SearchInput.Value() == "" {
			return m.SearchInput.Focus()
		}
		return nil
	}
	if t.ctrl != nil && t.ctrl.Snapshot().Status == browse.StatusIdle && t.pending == 0 {
		return m.runCtrl(idx, func(c *browse.Controller) tea.Cmd {
			return LoadCmd(idx, c)
		})
	}
	return nil
}

// openDetail shows the detail pane for item and starts loading it
func (m *Model) openDetail(item domain.ContentItem) tea.Cmd {
	m.State = StateDetail
	m.Detail.Open(item)
	m.Detail.SetInWatchlist(m.marked[item.Key()])
	m.updateLayout()
	return LoadDetailCmd(m.Aggregator, item)
}

// applyTheme switches palettes on every component
func (m *Model) applyTheme(theme styles.Theme) {
	m.Theme = theme
	m.Styles = styles.New(theme)
	for _, t := range m.Tabs {
		t.list.SetStyles(m.Styles)
	}
	m.SearchInput.PromptStyle = m.Styles.FilterPrompt
}

// setStatus shows a message in the footer and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// loading reports whether any tab has a fetch outstanding
func (m Model) loading() bool {
	for _, t := range m.Tabs {
		if t.pending > 0 {
			return true
		}
	}
	return m.Detail.Loading() && m.State == StateDetail
}

// activeTab returns the focused tab
func (m Model) activeTab() *tab {
	return m.Tabs[m.ActiveTab]
}
