package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/browse"
	"github.com/mmcdole/marquee/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.State == StateHelp {
		// any key closes help
		m.State = m.prevState
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	if m.State == StateDetail {
		return m.handleDetailKey(msg)
	}

	t := m.activeTab()

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		return m, m.switchTab((m.ActiveTab + 1) % tabCount)

	case key.Matches(msg, Keys.PrevTab):
		return m, m.switchTab((m.ActiveTab + tabCount - 1) % tabCount)

	case key.Matches(msg, Keys.Escape):
		if t.list.IsFiltering() {
			t.list.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		if m.ActiveTab == TabSearch && !t.list.IsFiltering() {
			return m, m.SearchInput.Focus()
		}
		if t.list.IsFiltering() {
			t.list, _ = t.list.Update(msg)
		} else {
			t.list.ToggleFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if item, ok := t.list.Selected(); ok {
			return m, m.openDetail(item)
		}
		return m, nil

	case key.Matches(msg, Keys.Sort):
		return m.showSortModal()

	case key.Matches(msg, Keys.Genre):
		return m.showGenreModal()

	case key.Matches(msg, Keys.Refresh):
		return m.handleRefresh()

	case key.Matches(msg, Keys.Watchlist):
		if item, ok := t.list.Selected(); ok {
			return m, ToggleWatchlistCmd(m.Watchlist, item)
		}
		return m, nil

	case key.Matches(msg, Keys.Theme):
		m.applyTheme(m.Theme.Toggled())
		return m, m.setStatus("Theme: "+m.Theme.Name, false)
	}

	for i, b := range Keys.Tabs {
		if key.Matches(msg, b) {
			return m, m.switchTab(i)
		}
	}

	// List navigation
	t.list, _ = t.list.Update(msg)
	return m, m.maybeLoadMore(m.ActiveTab)
}

// handleDetailKey handles keys while the detail pane is open
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.State = StateBrowsing
		return m, nil

	case key.Matches(msg, Keys.Watchlist):
		return m, ToggleWatchlistCmd(m.Watchlist, m.Detail.Item())

	case key.Matches(msg, Keys.Open):
		link := m.Detail.ReferralLink()
		if link == "" {
			link = m.Detail.Homepage()
		}
		if link == "" || m.Opener == nil {
			return m, m.setStatus("No link to open", false)
		}
		return m, OpenLinkCmd(m.Opener.Open, link)

	case key.Matches(msg, Keys.Refresh):
		if m.Detail.Failed() {
			return m, m.openDetail(m.Detail.Item())
		}
		return m, nil

	case key.Matches(msg, Keys.Theme):
		m.applyTheme(m.Theme.Toggled())
		return m, nil
	}

	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	return m, cmd
}

// routeToModal routes key input to active modals
// Returns (handled, model, cmd) where handled is true if a modal consumed the input
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	// Handle sort modal if visible
	if m.SortModal.IsVisible() {
		handled, selection := m.SortModal.HandleKey(msg)
		if handled {
			if selection != nil {
				opt := *selection
				idx := m.ActiveTab
				return true, m, m.runCtrl(idx, func(c *browse.Controller) tea.Cmd {
					return SortCmd(idx, c, opt)
				})
			}
			return true, m, nil
		}
	}

	// Handle genre modal if visible
	if m.GenreModal.IsVisible() {
		cmd, selection := m.GenreModal.Update(msg)
		if selection != nil {
			id := selection.ID
			idx := m.ActiveTab
			return true, m, m.runCtrl(idx, func(c *browse.Controller) tea.Cmd {
				return GenreCmd(idx, c, id)
			})
		}
		return true, m, cmd
	}

	if m.State != StateBrowsing {
		return false, m, nil
	}

	// Handle search input typing
	if m.ActiveTab == TabSearch && m.SearchInput.Focused() {
		switch msg.String() {
		case "esc", "enter", "down":
			m.SearchInput.Blur()
			return true, m, nil
		case "tab":
			m.SearchInput.Blur()
			return true, m, m.switchTab((m.ActiveTab + 1) % tabCount)
		}
		before := m.SearchInput.Value()
		var cmd tea.Cmd
		m.SearchInput, cmd = m.SearchInput.Update(msg)
		if query := m.SearchInput.Value(); query != before {
			m.searchSeq++
			return true, m, tea.Batch(cmd, DebounceSearchCmd(m.searchSeq, query))
		}
		return true, m, cmd
	}

	// Handle filter typing mode
	if t := m.activeTab(); t.list.IsFilterTyping() {
		t.list, _ = t.list.Update(msg)
		return true, m, nil
	}

	return false, m, nil
}

// showSortModal opens the sort picker on listings that support it
func (m Model) showSortModal() (tea.Model, tea.Cmd) {
	t := m.activeTab()
	if t.ctrl == nil {
		return m, nil
	}
	snap := t.ctrl.Snapshot()
	if snap.Query.List != domain.ListDiscover {
		return m, m.setStatus(t.title+" can't be sorted", false)
	}
	m.SortModal.Show(browse.SortOptions(snap.Query.Kind), snap.Query.Sort)
	return m, nil
}

// showGenreModal opens the genre picker on listings that support it
func (m Model) showGenreModal() (tea.Model, tea.Cmd) {
	t := m.activeTab()
	if t.ctrl == nil {
		return m, nil
	}
	snap := t.ctrl.Snapshot()
	if snap.Query.List != domain.ListDiscover {
		return m, m.setStatus(t.title+" can't be filtered by genre", false)
	}
	focus := m.GenreModal.Show(snap.Query.Kind, nil, snap.Query.GenreID)
	return m, tea.Batch(focus, LoadGenresCmd(m.Genres, snap.Query.Kind))
}

// handleRefresh retries a failed fetch or reloads page 1
func (m Model) handleRefresh() (tea.Model, tea.Cmd) {
	t := m.activeTab()
	if t.ctrl == nil {
		return m, nil
	}
	idx := m.ActiveTab
	if t.ctrl.Snapshot().Err != nil {
		return m, m.runCtrl(idx, func(c *browse.Controller) tea.Cmd {
			return RetryCmd(idx, c)
		})
	}
	return m, m.runCtrl(idx, func(c *browse.Controller) tea.Cmd {
		return RefreshCmd(idx, c)
	})
}
