package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants for the content list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// nearEndRows is how close to the bottom the cursor gets before the next page is wanted
	nearEndRows = 5
)

// ListState is what the list shows besides its items
type ListState struct {
	Items       []domain.ContentItem
	Loading     bool   // full-screen spinner
	Refreshing  bool   // items stay, header shows a spinner
	LoadingMore bool   // footer spinner
	Err         error  // replaces the items
	Notice      string // footer message for a non-blocking failure
	HasMore     bool
	Empty       string // message when there are no items
	ShowKind    bool   // label rows with Movie/TV (mixed lists)
}

// ContentList is a scrollable, filterable list of movies and shows
type ContentList struct {
	styles styles.Styles
	title  string
	state  ListState
	marked map[domain.Key]bool

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into state.Items
}

// NewContentList creates an empty list with a title
func NewContentList(title string, st styles.Styles) *ContentList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "

	c := &ContentList{
		title:       title,
		filterInput: ti,
		marked:      make(map[domain.Key]bool),
	}
	c.SetStyles(st)
	return c
}

// SetStyles applies a theme
func (c *ContentList) SetStyles(st styles.Styles) {
	c.styles = st
	c.filterInput.PromptStyle = st.FilterPrompt
	c.filterInput.TextStyle = st.Filter
}

// SetState replaces what the list shows. The cursor stays on the same row when
// items were appended and returns to the top when the list was replaced.
func (c *ContentList) SetState(state ListState) {
	replaced := !samePrefix(c.state.Items, state.Items)
	c.state = state
	if replaced {
		c.cursor = 0
		c.offset = 0
	}
	if c.filterActive {
		c.applyFilter(false)
	}
	c.clampCursor()
}

// State returns the current list state
func (c *ContentList) State() ListState { return c.state }

// SetMarked sets which items carry the watchlist marker
func (c *ContentList) SetMarked(marked map[domain.Key]bool) {
	c.marked = marked
}

// SetSize updates dimensions
func (c *ContentList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// SetFocused sets focus
func (c *ContentList) SetFocused(focused bool) { c.focused = focused }

// SetSpinnerFrame updates the spinner animation frame
func (c *ContentList) SetSpinnerFrame(frame int) { c.spinnerFrame = frame }

// SetTitle sets the header
func (c *ContentList) SetTitle(title string) { c.title = title }

// Title returns the header
func (c *ContentList) Title() string { return c.title }

// Selected returns the item under the cursor
func (c *ContentList) Selected() (domain.ContentItem, bool) {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count || c.state.Err != nil {
		return domain.ContentItem{}, false
	}
	return c.state.Items[c.mapIndex(c.cursor)], true
}

// SelectedIndex returns the cursor position
func (c *ContentList) SelectedIndex() int { return c.cursor }

// ItemCount returns the number of visible rows
func (c *ContentList) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.state.Items)
}

// NearEnd reports whether the cursor is close enough to the bottom to fetch more.
// Always false while filtering.
func (c *ContentList) NearEnd() bool {
	if c.filterActive || !c.state.HasMore {
		return false
	}
	return len(c.state.Items) > 0 && c.cursor >= len(c.state.Items)-nearEndRows
}

// ToggleFilter activates the filter input
func (c *ContentList) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ContentList) IsFiltering() bool { return c.filterActive }

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ContentList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *ContentList) ClearFilter() { c.clearFilter() }

// Update handles navigation and filter input
func (c *ContentList) Update(msg tea.Msg) (*ContentList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	// Typing into the filter
	if c.IsFilterTyping() {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			c.clearFilter()
			return c, nil
		case key.Matches(keyMsg, ListKeys.Accept):
			// Accept filter, blur input to allow navigation
			c.filterInput.Blur()
			return c, nil
		case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
			c.clearFilter()
			return c, nil
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter(true)
		return c, cmd
	}

	// Filter applied but blurred
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			c.clearFilter()
			return c, nil
		case key.Matches(keyMsg, ListKeys.Filter):
			c.filterInput.Focus()
			return c, nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, ListKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
	case key.Matches(keyMsg, ListKeys.HalfUp):
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
	}
	c.ensureVisible()
	return c, nil
}

// View renders the list inside its border
func (c *ContentList) View() string {
	style := c.styles.InactiveBorder
	if c.focused {
		style = c.styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent())
}

// Internal methods

func (c *ContentList) recalcMaxVisible() {
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1 // -1 for title
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ContentList) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ContentList) clampCursor() {
	count := c.ItemCount()
	if c.cursor >= count {
		c.cursor = max(count-1, 0)
	}
	c.ensureVisible()
}

func (c *ContentList) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
	c.clampCursor()
}

// titleSource adapts items to fuzzy.Source
type titleSource []domain.ContentItem

func (s titleSource) String(i int) string { return strings.ToLower(s[i].Title) }
func (s titleSource) Len() int            { return len(s) }

func (c *ContentList) applyFilter(resetCursor bool) {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), titleSource(c.state.Items))
	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	if resetCursor {
		c.cursor = 0
		c.offset = 0
	}
}

func (c *ContentList) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// samePrefix reports whether next starts with the items of prev (an append)
func samePrefix(prev, next []domain.ContentItem) bool {
	if len(prev) == 0 || len(next) < len(prev) {
		return len(prev) == 0 && len(next) == 0
	}
	return prev[0].Key() == next[0].Key() && prev[len(prev)-1].Key() == next[len(prev)-1].Key()
}

// Rendering

func (c *ContentList) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)

	title := c.title
	if c.state.Refreshing {
		title += " " + styles.Spinner(c.spinnerFrame)
	}
	titleLine := c.styles.Accent.Render(styles.Truncate(title, itemWidth))

	if c.state.Loading {
		loading := c.styles.Dim.Render(styles.Spinner(c.spinnerFrame) + " Loading...")
		return titleLine + "\n \n" + loading + "\n "
	}

	if c.state.Err != nil {
		msg := c.styles.Error.Render(styles.Truncate(errorText(c.state.Err), itemWidth))
		hint := c.styles.Dim.Render("press r to retry")
		return titleLine + "\n \n" + msg + "\n" + hint
	}

	count := c.ItemCount()
	if count == 0 {
		empty := c.state.Empty
		if empty == "" {
			empty = "No items"
		}
		if c.filterActive && c.filterQuery != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + c.styles.Dim.Render(empty) + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderItem(c.state.Items[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = c.styles.Dim.Render("↑ more")
	}
	footer := " "
	switch {
	case end < count:
		footer = c.styles.Dim.Render("↓ more")
	case c.state.LoadingMore:
		footer = c.styles.Dim.Render(styles.Spinner(c.spinnerFrame) + " Loading more...")
	case c.state.Notice != "":
		footer = c.styles.Error.Render(styles.Truncate(c.state.Notice, itemWidth))
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ContentList) renderItem(item domain.ContentItem, selected bool, width int) string {
	marker := " "
	markerFg := c.styles.Theme.Accent
	if c.marked[item.Key()] {
		marker = "★"
	}

	rating := item.FormattedRating()
	ratingFg := c.styles.Theme.Rating

	label := ""
	if c.state.ShowKind {
		switch item.Kind {
		case domain.KindMovie:
			label = " Movie"
		case domain.KindTV:
			label = " TV"
		}
	}
	mutedFg := c.styles.Theme.Muted

	title := item.Title
	if y := item.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", item.Title, y)
	}

	// width - marker(1) - space(1) - rating - label - margins(2) - gap(1)
	available := max(width-5-lipgloss.Width(rating)-lipgloss.Width(label), 5)
	title = styles.Pad(styles.Truncate(title, available), available)

	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: " " + title + " "},
		{Text: rating, Foreground: &ratingFg},
	}
	if label != "" {
		parts = append(parts, styles.RowPart{Text: label, Foreground: &mutedFg})
	}
	return c.styles.RenderListRow(parts, selected, width)
}

func (c *ContentList) renderFilterBar() string {
	input := c.filterInput.View()
	if c.filterQuery == "" {
		return input
	}
	return input + c.styles.Dim.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.state.Items)))
}
