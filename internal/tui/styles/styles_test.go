package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "abc...", Truncate("abcdefghij", 6))
	assert.LessOrEqual(t, lipgloss.Width(Truncate("Amélie Poulain", 8)), 8)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", Pad("ab", 5))
	assert.Equal(t, 4, lipgloss.Width(Pad("abcdefgh", 4)))
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, "dark", ForName("").Name)
	assert.Equal(t, "light", ForName("LIGHT").Name)
	assert.Equal(t, "light", Dark().Toggled().Name)
	assert.Equal(t, "dark", Light().Toggled().Name)
}

func TestRenderListRowFillsWidth(t *testing.T) {
	s := New(Dark())
	row := s.RenderListRow([]RowPart{{Text: "Dune"}}, true, 20)
	assert.Equal(t, 20, lipgloss.Width(row))
}
