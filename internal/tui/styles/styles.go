package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette
type Theme struct {
	Name      string
	Accent    lipgloss.Color
	Surface   lipgloss.Color // modal background
	Selection lipgloss.Color // selected row background
	Muted     lipgloss.Color
	Subtle    lipgloss.Color
	Text      lipgloss.Color
	Good      lipgloss.Color
	Bad       lipgloss.Color
	Rating    lipgloss.Color
}

// Dark is the default palette
func Dark() Theme {
	return Theme{
		Name:      "dark",
		Accent:    lipgloss.Color("#01B4E4"),
		Surface:   lipgloss.Color("#0D253F"),
		Selection: lipgloss.Color("#374151"),
		Muted:     lipgloss.Color("#6B7280"),
		Subtle:    lipgloss.Color("#9CA3AF"),
		Text:      lipgloss.Color("#F9FAFB"),
		Good:      lipgloss.Color("#10B981"),
		Bad:       lipgloss.Color("#EF4444"),
		Rating:    lipgloss.Color("#F5C518"),
	}
}

// Light is the palette for light terminals
func Light() Theme {
	return Theme{
		Name:      "light",
		Accent:    lipgloss.Color("#0369A1"),
		Surface:   lipgloss.Color("#F3F4F6"),
		Selection: lipgloss.Color("#D1D5DB"),
		Muted:     lipgloss.Color("#6B7280"),
		Subtle:    lipgloss.Color("#4B5563"),
		Text:      lipgloss.Color("#111827"),
		Good:      lipgloss.Color("#047857"),
		Bad:       lipgloss.Color("#B91C1C"),
		Rating:    lipgloss.Color("#B45309"),
	}
}

// ForName returns the palette called name, falling back to Dark
func ForName(name string) Theme {
	if strings.EqualFold(name, "light") {
		return Light()
	}
	return Dark()
}

// Toggled returns the other palette
func (t Theme) Toggled() Theme {
	if t.Name == "light" {
		return Dark()
	}
	return Light()
}

// Styles are the rendered styles for one theme
type Styles struct {
	Theme Theme

	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Rating   lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Badge    lipgloss.Style
	DimBadge lipgloss.Style

	FilterPrompt lipgloss.Style
	Filter       lipgloss.Style
}

// New builds the styles for a theme
func New(t Theme) Styles {
	return Styles{
		Theme: t,

		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted),

		Title:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(t.Subtle),
		Dim:      lipgloss.NewStyle().Foreground(t.Muted),
		Accent:   lipgloss.NewStyle().Foreground(t.Accent),
		Error:    lipgloss.NewStyle().Foreground(t.Bad),
		Success:  lipgloss.NewStyle().Foreground(t.Good),
		Rating:   lipgloss.NewStyle().Foreground(t.Rating).Bold(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Background(t.Surface).
			Padding(0, 1),
		ModalTitle: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true).
			MarginBottom(1),

		HelpKey:  lipgloss.NewStyle().Foreground(t.Accent),
		HelpDesc: lipgloss.NewStyle().Foreground(t.Muted),

		Badge: lipgloss.NewStyle().
			Foreground(t.Surface).
			Background(t.Accent).
			Padding(0, 1),
		DimBadge: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Background(t.Selection).
			Padding(0, 1),

		FilterPrompt: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Filter:       lipgloss.NewStyle().Foreground(t.Accent),
	}
}

// SpinnerFrames is the loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner returns the frame for a tick count
func Spinner(frame int) string {
	return SpinnerFrames[frame%len(SpinnerFrames)]
}

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads a string with spaces to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RowPart is a piece of a list row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a row with a uniform background when selected.
// Each part is styled separately to avoid ANSI reset issues.
func (s Styles) RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := s.Theme.Selection

	var b strings.Builder
	visible := 0
	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(s.Theme.Text)
		default:
			style = style.Foreground(s.Theme.Subtle)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	pad := lipgloss.NewStyle()
	if selected {
		pad = pad.Background(bg)
	}
	// fill to width minus the one-char margins
	if n := width - visible - 2; n > 0 {
		b.WriteString(pad.Render(strings.Repeat(" ", n)))
	}
	margin := pad.Render(" ")
	return margin + b.String() + margin
}
