package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	titles := make([]string, len(m.Tabs))
	for i, t := range m.Tabs {
		titles[i] = t.title
	}
	tabBar := components.RenderTabs(m.Styles, titles, m.ActiveTab)

	var content string
	switch {
	case m.State == StateDetail:
		content = m.Detail.View(m.Styles)
	case m.ActiveTab == TabSearch:
		content = lipgloss.JoinVertical(lipgloss.Left,
			" "+m.SearchInput.View(),
			m.activeTab().list.View())
	default:
		content = m.activeTab().list.View()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, tabBar, content, m.renderFooter())

	// Overlay sort modal if visible
	if m.SortModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.SortModal.View(m.Styles))
	}

	// Overlay genre modal if visible
	if m.GenreModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.GenreModal.View(m.Styles, m.SpinnerFrame))
	}

	return view
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	st := m.Styles

	// Left side: spinner when loading, otherwise the status message
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = st.Error.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = st.Dim.Render(m.StatusMsg)
	case m.loading():
		left = styles.Spinner(m.SpinnerFrame) + " " + st.Dim.Render("Loading...")
	}

	// Center section: context-specific hints
	var center string
	switch {
	case m.State == StateDetail:
		center = hint(st, "w", "watchlist") + "  " + hint(st, "o", "open") + "  " + hint(st, "esc", "back")
	case m.ActiveTab == TabMovies || m.ActiveTab == TabTV:
		center = hint(st, "s", "sort") + "  " + hint(st, "f", "genre")
	case m.ActiveTab == TabSearch:
		center = hint(st, "/", "search")
	}

	// Right side: "? help" hint
	right := hint(st, "?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(st styles.Styles, k, desc string) string {
	return st.Accent.Render(k) + st.Dim.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      LISTS
  j/k        Up/down               s      Sort (Movies, TV)
  g/G        First/last item       f      Genre (Movies, TV)
  Ctrl+u/d   Scroll half page      /      Filter / search
  Tab/S-Tab  Next/previous tab     r      Refresh / retry
  1-5        Jump to tab           w      Toggle watchlist
  Enter      Details

DETAILS                         OTHER
  w          Toggle watchlist      t      Toggle theme
  o          Open where to watch   q      Quit
  r          Retry                 ?      This help
  Esc        Back

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		m.Styles.Modal.Render(help))
}
