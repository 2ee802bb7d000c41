package tui

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 3)
	for i, t := range m.Tabs {
		h := contentHeight
		if i == TabSearch {
			h = max(contentHeight-SearchInputHeight, 3)
		}
		t.list.SetSize(m.Width, h)
	}
	m.Detail.SetSize(m.Width, contentHeight)
	m.SearchInput.Width = max(m.Width-len(m.SearchInput.Prompt)-2, 10)
}
