package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/browse"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/images"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/watchlist"
)

type fakeGateway struct {
	mu      sync.Mutex
	queries []string
	lists   []domain.Kind
}

func (f *fakeGateway) FetchList(_ context.Context, kind domain.Kind, _ domain.ListType, page int, _ string, _ *int) (domain.Page, error) {
	f.mu.Lock()
	f.lists = append(f.lists, kind)
	f.mu.Unlock()
	return domain.Page{
		Page: page,
		Results: []domain.ContentItem{
			{ID: 1, Kind: kind, Title: "Arrival"},
			{ID: 2, Kind: kind, Title: "Heat"},
		},
		TotalPages:   1,
		TotalResults: 2,
	}, nil
}

func (f *fakeGateway) FetchDetail(context.Context, domain.Kind, int) (*domain.Detail, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) FetchWatchProviders(context.Context, domain.Kind, int) (domain.WatchProviders, error) {
	return nil, nil
}

func (f *fakeGateway) FetchGenres(context.Context, domain.Kind) ([]domain.Genre, error) {
	return []domain.Genre{{ID: 28, Name: "Action"}}, nil
}

func (f *fakeGateway) Search(_ context.Context, query string, page int) (domain.Page, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return domain.Page{Page: page, TotalPages: 1}, nil
}

func newTestModel(t *testing.T, gw *fakeGateway) Model {
	t.Helper()
	mem, err := store.Open("")
	require.NoError(t, err)

	wl := watchlist.New(mem, log.NullLogger())
	wl.Load()

	m := NewModel(Deps{
		Gateway:    gw,
		Watchlist:  wl,
		Aggregator: detail.NewAggregator(gw, detail.DefaultRegion, log.NullLogger()),
		Genres:     browse.NewGenres(gw, log.NullLogger()),
		Images:     images.NewResolver(""),
		Logger:     log.NullLogger(),
	}, styles.Dark())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// loaded runs the initial movies fetch through the model
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m.Tabs[TabMovies].pending++
	msg := LoadCmd(TabMovies, m.Tabs[TabMovies].ctrl)()
	m, _ = update(t, m, msg)
	return m
}

func TestPageLoadedSyncsList(t *testing.T) {
	m := loaded(t, newTestModel(t, &fakeGateway{}))

	movies := m.Tabs[TabMovies]
	assert.Equal(t, 0, movies.pending)
	assert.Equal(t, 2, movies.list.ItemCount())
	assert.Equal(t, "Movies · Popularity", movies.list.Title())
}

func TestTabSwitchLoadsOnFirstVisit(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw)

	m, cmd := update(t, m, runes("2"))
	require.NotNil(t, cmd)
	assert.Equal(t, TabTV, m.ActiveTab)
	assert.Equal(t, 1, m.Tabs[TabTV].pending)

	m, _ = update(t, m, cmd())
	assert.Equal(t, 2, m.Tabs[TabTV].list.ItemCount())
	assert.Equal(t, []domain.Kind{domain.KindTV}, gw.lists)

	// already loaded
	m, _ = update(t, m, runes("1"))
	m, cmd = update(t, m, runes("2"))
	assert.Nil(t, cmd)
}

func TestSearchDebounceDropsStaleInput(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw)

	m, _ = update(t, m, runes("4"))
	require.True(t, m.SearchInput.Focused())

	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, runes("u"))
	assert.Equal(t, 2, m.searchSeq)
	assert.Equal(t, "du", m.SearchInput.Value())

	_, cmd := update(t, m, SearchDebounceMsg{Seq: 1, Query: "d"})
	assert.Nil(t, cmd)

	m, cmd = update(t, m, SearchDebounceMsg{Seq: 2, Query: "du"})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, []string{"du"}, gw.queries)
	assert.Equal(t, `Search: "du"`, m.Tabs[TabSearch].list.Title())
}

func TestSortOnlyOnDiscoverTabs(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})

	m, _ = update(t, m, runes("3"))
	m, _ = update(t, m, runes("s"))
	assert.False(t, m.SortModal.IsVisible())
	assert.Contains(t, m.StatusMsg, "can't be sorted")

	m, _ = update(t, m, runes("1"))
	m, _ = update(t, m, runes("s"))
	assert.True(t, m.SortModal.IsVisible())

	// pick "Rating"
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.SortModal.IsVisible())

	m, _ = update(t, m, cmd())
	assert.Equal(t, browse.SortRating, m.Tabs[TabMovies].ctrl.Snapshot().Query.Sort)
}

func TestWatchlistToggleMarksItem(t *testing.T) {
	m := loaded(t, newTestModel(t, &fakeGateway{}))

	m, cmd := update(t, m, runes("w"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Added Arrival to watchlist", m.StatusMsg)

	m, _ = update(t, m, listenToWatchlistCmd(m.observer.Changes())())
	assert.True(t, m.marked[domain.Key{Kind: domain.KindMovie, ID: 1}])
	assert.Equal(t, 1, m.Tabs[TabWatchlist].list.ItemCount())
}

func TestDetailOpenAndBack(t *testing.T) {
	m := loaded(t, newTestModel(t, &fakeGateway{}))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, StateDetail, m.State)
	assert.True(t, m.Detail.Loading())

	m, _ = update(t, m, cmd())
	assert.True(t, m.Detail.Failed())

	// help returns to the detail pane
	m, _ = update(t, m, runes("?"))
	assert.Equal(t, StateHelp, m.State)
	m, _ = update(t, m, runes("x"))
	assert.Equal(t, StateDetail, m.State)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateBrowsing, m.State)
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})

	m, _ = update(t, m, runes("t"))
	assert.Equal(t, "light", m.Theme.Name)
	m, _ = update(t, m, runes("t"))
	assert.Equal(t, "dark", m.Theme.Name)
}
