package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/images"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants for the detail pane
const (
	DetailBorderHeight     = 2
	DetailScrollIndicators = 2
)

// detailContent holds the three-zone layout content
type detailContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// DetailPane shows one movie or show with its watch providers
type DetailPane struct {
	item         domain.ContentItem
	result       *detail.Result
	availability detail.Availability
	inWatchlist  bool
	images       images.Resolver

	loading      bool
	spinnerFrame int

	width      int
	height     int
	offset     int
	maxVisible int
}

// NewDetailPane creates an empty detail pane
func NewDetailPane(resolver images.Resolver) DetailPane {
	return DetailPane{images: resolver}
}

// Open starts showing item while its detail loads
func (d *DetailPane) Open(item domain.ContentItem) {
	d.item = item
	d.result = nil
	d.availability = detail.Availability{}
	d.loading = true
	d.offset = 0
}

// SetResult fills the pane. Results for another item are ignored.
func (d *DetailPane) SetResult(res detail.Result, av detail.Availability) bool {
	if res.Key != d.item.Key() {
		return false
	}
	d.result = &res
	d.availability = av
	d.loading = false
	return true
}

// Item returns the item being shown
func (d DetailPane) Item() domain.ContentItem { return d.item }

// Loading reports whether the detail fetch is pending
func (d DetailPane) Loading() bool { return d.loading }

// Failed reports whether the detail fetch failed
func (d DetailPane) Failed() bool { return d.result != nil && d.result.Err != nil }

// ReferralLink returns the provider page for the region, if any
func (d DetailPane) ReferralLink() string {
	if !d.availability.Available {
		return ""
	}
	return d.availability.Providers.ReferralLink
}

// Homepage returns the official site, if any
func (d DetailPane) Homepage() string {
	if d.result == nil || d.result.Detail == nil {
		return ""
	}
	return d.result.Detail.Homepage
}

// SetInWatchlist updates the watchlist badge
func (d *DetailPane) SetInWatchlist(in bool) { d.inWatchlist = in }

// SetSpinnerFrame updates the spinner animation frame
func (d *DetailPane) SetSpinnerFrame(frame int) { d.spinnerFrame = frame }

// SetSize updates the component dimensions
func (d *DetailPane) SetSize(width, height int) {
	d.width = width
	d.height = height
	// border, scroll indicators, title and blank line
	d.maxVisible = max(height-DetailBorderHeight-DetailScrollIndicators-2, 1)
}

// Update scrolls the body
func (d DetailPane) Update(msg tea.Msg) (DetailPane, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ListKeys.Down):
			d.offset++
		case key.Matches(keyMsg, ListKeys.Up):
			if d.offset > 0 {
				d.offset--
			}
		case key.Matches(keyMsg, ListKeys.Home):
			d.offset = 0
		}
	}
	return d, nil
}

// View renders the component
func (d DetailPane) View(st styles.Styles) string {
	style := st.ActiveBorder
	contentWidth := max(d.width-3, 10)
	content := d.render(st, contentWidth)

	titleLine := st.Accent.Render(styles.Truncate(d.item.Kind.Label(), contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(d.maxVisible-len(headerLines)-len(footerLines), 1)

	// Clamp body scroll offset
	offset := min(d.offset, max(len(bodyLines)-availableForBody, 0))
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = st.Dim.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = st.Dim.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if len(headerLines) > 0 {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	parts = append(parts, footerLines...)

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(d.width-frameW, 0)).
		Height(max(d.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (d DetailPane) render(st styles.Styles, width int) detailContent {
	header := d.renderHeader(st, width)

	switch {
	case d.loading:
		return detailContent{
			header: header,
			body:   st.Dim.Render(styles.Spinner(d.spinnerFrame) + " Loading details..."),
		}
	case d.result == nil:
		return detailContent{header: header}
	case d.result.Err != nil:
		return detailContent{
			header: header,
			body: st.Error.Render(wrap(errorText(d.result.Err), width)) + "\n" +
				st.Dim.Render("press r to retry"),
		}
	}

	return detailContent{
		header: header,
		body:   d.renderBody(st, width),
		footer: d.renderFooter(st, width),
	}
}

func (d DetailPane) renderHeader(st styles.Styles, width int) string {
	var b strings.Builder

	item := d.item
	if d.result != nil && d.result.Detail != nil {
		item = d.result.Detail.ContentItem
	}

	b.WriteString(st.Title.Render(styles.Truncate(item.Title, width)))
	b.WriteString("\n")

	// Meta line: Year · Runtime or Seasons · Status
	var meta []string
	if y := item.Year(); y > 0 {
		meta = append(meta, fmt.Sprintf("%d", y))
	}
	if d.result != nil && d.result.Detail != nil {
		det := d.result.Detail
		switch det.Kind {
		case domain.KindMovie:
			if rt := det.FormattedRuntime(); rt != "" {
				meta = append(meta, rt)
			}
		case domain.KindTV:
			if det.SeasonCount > 0 {
				meta = append(meta, plural(det.SeasonCount, "season"))
			}
			if det.EpisodeCount > 0 {
				meta = append(meta, plural(det.EpisodeCount, "episode"))
			}
		}
		if det.Status != "" {
			meta = append(meta, det.Status)
		}
	}
	if len(meta) > 0 {
		b.WriteString(st.Dim.Render(styles.Truncate(strings.Join(meta, " · "), width)))
		b.WriteString("\n")
	}

	status := []string{st.Rating.Render("★ " + item.FormattedRating())}
	if d.inWatchlist {
		status = append(status, st.Badge.Render("In watchlist"))
	}
	b.WriteString(strings.Join(status, "   "))

	return b.String()
}

func (d DetailPane) renderBody(st styles.Styles, width int) string {
	det := d.result.Detail
	var b strings.Builder

	b.WriteString(st.Subtitle.Render(det.Kind.DateLabel() + ": " + det.FormattedDate()))
	b.WriteString("\n")

	if len(det.Genres) > 0 {
		names := make([]string, len(det.Genres))
		for i, g := range det.Genres {
			names[i] = g.Name
		}
		b.WriteString(st.Subtitle.Render(wrap(strings.Join(names, ", "), width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	overview := det.Overview
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString(wrap(overview, width))
	b.WriteString("\n\n")

	b.WriteString(d.renderProviders(st, width))
	return b.String()
}

// renderProviders falls back to a notice when the provider fetch failed or the region lists nothing
func (d DetailPane) renderProviders(st styles.Styles, width int) string {
	var b strings.Builder
	b.WriteString(st.Accent.Render("Where to watch (" + d.availability.Region + ")"))
	b.WriteString("\n")

	if !d.availability.Available {
		b.WriteString(st.Dim.Render("Not available for streaming, rent or purchase in this region."))
		return b.String()
	}

	p := d.availability.Providers
	groups := []struct {
		label     string
		providers []domain.Provider
	}{
		{"Stream", p.Streaming},
		{"Rent", p.Rental},
		{"Buy", p.Purchase},
	}
	for _, g := range groups {
		if len(g.providers) == 0 {
			continue
		}
		names := make([]string, len(g.providers))
		for i, pr := range g.providers {
			names[i] = pr.Name
		}
		line := st.HelpDesc.Render(g.label+": ") + strings.Join(names, ", ")
		b.WriteString(wrap(line, width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d DetailPane) renderFooter(st styles.Styles, width int) string {
	var lines []string
	if link := d.ReferralLink(); link != "" {
		lines = append(lines, st.Dim.Render(styles.Truncate("JustWatch: "+link, width)))
	}
	poster := d.images.Poster(d.result.Detail.PosterPath, images.SizeDetail)
	if !images.IsPlaceholder(poster) {
		lines = append(lines, st.Dim.Render(styles.Truncate("Poster: "+poster, width)))
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
