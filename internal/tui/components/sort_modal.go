package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/browse"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

const sortModalWidth = 20

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible bool
	options []browse.SortOption
	cursor  int
	active  browse.SortOption
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal with the given options and current sort
func (m *SortModal) Show(options []browse.SortOption, active browse.SortOption) {
	m.visible = true
	m.options = options
	m.active = active
	// Position cursor on the active option
	m.cursor = 0
	for i, opt := range options {
		if opt == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(msg tea.KeyMsg) (handled bool, selection *browse.SortOption) {
	if !m.visible {
		return false, nil
	}

	switch {
	case key.Matches(msg, ModalKeys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(msg, ModalKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, ModalKeys.Select):
		chosen := m.options[m.cursor]
		m.visible = false
		return true, &chosen
	case key.Matches(msg, ModalKeys.Close), msg.String() == "s":
		m.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View(st styles.Styles) string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		prefix := "  "
		if opt == m.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+opt.String(), sortModalWidth)

		style := lipgloss.NewStyle().Foreground(st.Theme.Subtle)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(st.Theme.Text).Background(st.Theme.Selection)
		case opt == m.active:
			style = lipgloss.NewStyle().Foreground(st.Theme.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	return st.Modal.Render(st.ModalTitle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
