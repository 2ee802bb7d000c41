package components

import (
	"strings"

	"github.com/mmcdole/marquee/internal/tui/styles"
)

// RenderTabs renders the tab bar with the active tab highlighted
func RenderTabs(st styles.Styles, titles []string, active int) string {
	parts := make([]string, len(titles))
	for i, title := range titles {
		label := string(rune('1'+i)) + " " + title
		if i == active {
			parts[i] = st.Badge.Render(label)
		} else {
			parts[i] = st.DimBadge.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
