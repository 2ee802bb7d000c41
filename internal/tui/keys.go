package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	NextTab key.Binding
	PrevTab key.Binding
	Tabs    [tabCount]key.Binding
	Enter   key.Binding
	Back    key.Binding

	// Actions
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Genre     key.Binding
	Refresh   key.Binding
	Watchlist key.Binding
	Open      key.Binding
	Theme     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		NextTab: key.NewBinding(
			key.WithKeys("tab", "L"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "H"),
			key.WithHelp("S-tab", "previous tab"),
		),
		Tabs: [tabCount]key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "movies")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tv shows")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "top rated")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "search")),
			key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "watchlist")),
		},
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "h", "left"),
			key.WithHelp("esc", "back"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter/search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Genre: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "genre"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh/retry"),
		),
		Watchlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle watchlist"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
