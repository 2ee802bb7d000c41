package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

const (
	genreModalWidth   = 28
	genreModalVisible = 10
)

// GenreSelection is a confirmed genre choice. ID is nil for "All genres".
type GenreSelection struct {
	ID *int
}

type genreOption struct {
	id   *int
	name string
}

// GenreModal picks a genre filter, narrowing the list as the user types
type GenreModal struct {
	visible bool
	loading bool
	err     error
	kind    domain.Kind
	genres  []domain.Genre
	active  *int

	input   textinput.Model
	options []genreOption
	cursor  int
	offset  int
}

// NewGenreModal creates a new genre modal
func NewGenreModal() GenreModal {
	ti := textinput.New()
	ti.Placeholder = "type a genre..."
	ti.Prompt = "> "
	ti.CharLimit = 30
	return GenreModal{input: ti}
}

// Show opens the modal for kind. Genres arrive later via SetGenres when not yet loaded.
func (m *GenreModal) Show(kind domain.Kind, genres []domain.Genre, active *int) tea.Cmd {
	m.visible = true
	m.kind = kind
	m.active = active
	m.err = nil
	m.genres = genres
	m.loading = genres == nil
	m.input.SetValue("")
	m.refilter()
	m.moveToActive()
	return m.input.Focus()
}

// Kind returns the kind the modal was opened for
func (m GenreModal) Kind() domain.Kind { return m.kind }

// SetGenres fills the modal once the genre list loads
func (m *GenreModal) SetGenres(genres []domain.Genre, err error) {
	m.loading = false
	m.err = err
	m.genres = genres
	m.refilter()
	m.moveToActive()
}

// Hide dismisses the modal
func (m *GenreModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m GenreModal) IsVisible() bool { return m.visible }

// Update handles a message while visible. A non-nil selection means the user confirmed.
func (m *GenreModal) Update(msg tea.Msg) (tea.Cmd, *GenreSelection) {
	if !m.visible {
		return nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ModalKeys.Close):
			m.Hide()
			return nil, nil
		case key.Matches(keyMsg, ModalKeys.Select):
			if len(m.options) == 0 {
				return nil, nil
			}
			chosen := m.options[m.cursor]
			m.Hide()
			return nil, &GenreSelection{ID: chosen.id}
		case keyMsg.String() == "up" || keyMsg.String() == "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			m.ensureVisible()
			return nil, nil
		case keyMsg.String() == "down" || keyMsg.String() == "ctrl+n":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
			m.ensureVisible()
			return nil, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return cmd, nil
}

// refilter ranks genre names against the typed text. "All genres" leads when nothing is typed.
func (m *GenreModal) refilter() {
	m.cursor = 0
	m.offset = 0
	query := strings.TrimSpace(m.input.Value())

	if query == "" {
		m.options = make([]genreOption, 0, len(m.genres)+1)
		m.options = append(m.options, genreOption{name: "All genres"})
		for _, g := range m.genres {
			id := g.ID
			m.options = append(m.options, genreOption{id: &id, name: g.Name})
		}
		return
	}

	names := make([]string, len(m.genres))
	for i, g := range m.genres {
		names[i] = g.Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	sort.Sort(ranks)

	m.options = make([]genreOption, 0, len(ranks))
	for _, r := range ranks {
		id := m.genres[r.OriginalIndex].ID
		m.options = append(m.options, genreOption{id: &id, name: r.Target})
	}
}

func (m *GenreModal) moveToActive() {
	for i, opt := range m.options {
		if sameID(opt.id, m.active) {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m *GenreModal) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+genreModalVisible {
		m.offset = m.cursor - genreModalVisible + 1
	}
}

func sameID(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// View renders the genre modal
func (m GenreModal) View(st styles.Styles, spinnerFrame int) string {
	if !m.visible {
		return ""
	}

	title := st.ModalTitle.Render("Filter by genre")
	input := m.input.View()

	var body string
	switch {
	case m.loading:
		body = st.Dim.Render(styles.Spinner(spinnerFrame) + " Loading genres...")
	case m.err != nil:
		body = st.Error.Render(styles.Truncate(errorText(m.err), genreModalWidth))
	case len(m.options) == 0:
		body = st.Dim.Render("No matches")
	default:
		end := min(m.offset+genreModalVisible, len(m.options))
		lines := make([]string, 0, end-m.offset)
		for i := m.offset; i < end; i++ {
			opt := m.options[i]
			prefix := "  "
			if sameID(opt.id, m.active) {
				prefix = "✓ "
			}
			text := styles.Pad(prefix+opt.name, genreModalWidth)

			style := lipgloss.NewStyle().Foreground(st.Theme.Subtle)
			switch {
			case i == m.cursor:
				style = lipgloss.NewStyle().Foreground(st.Theme.Text).Background(st.Theme.Selection)
			case sameID(opt.id, m.active):
				style = lipgloss.NewStyle().Foreground(st.Theme.Accent)
			}
			lines = append(lines, style.Render(text))
		}
		body = strings.Join(lines, "\n")
	}

	return st.Modal.Render(title + "\n" + input + "\n\n" + body)
}
