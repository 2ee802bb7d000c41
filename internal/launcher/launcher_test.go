package launcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func fakeLauncher(command string, goos string, available ...string) (*Launcher, *[]call) {
	var calls []call
	l := New(command, nil, nil)
	l.goos = goos
	l.lookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	l.start = func(name string, args ...string) error {
		calls = append(calls, call{name, args})
		return nil
	}
	return l, &calls
}

func TestOpenUsesFirstAvailableOpener(t *testing.T) {
	l, calls := fakeLauncher("", "linux", "gio", "sensible-browser")

	require.NoError(t, l.Open("https://www.justwatch.com/us/movie/dune"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "gio", (*calls)[0].name)
	assert.Equal(t, []string{"open", "https://www.justwatch.com/us/movie/dune"}, (*calls)[0].args)
}

func TestOpenPrefersConfiguredBrowser(t *testing.T) {
	l, calls := fakeLauncher("firefox", "linux", "firefox", "xdg-open")

	require.NoError(t, l.Open("https://example.com"))
	assert.Equal(t, "firefox", (*calls)[0].name)
}

func TestOpenWindows(t *testing.T) {
	l, calls := fakeLauncher("", "windows", "rundll32")

	require.NoError(t, l.Open("https://example.com"))
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "https://example.com"}, (*calls)[0].args)
}

func TestOpenRejectsNonWebLinks(t *testing.T) {
	l, calls := fakeLauncher("", "linux", "xdg-open")

	for _, link := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://"} {
		assert.Error(t, l.Open(link), link)
	}
	assert.Empty(t, *calls)
}

func TestOpenNoOpener(t *testing.T) {
	l, _ := fakeLauncher("", "linux")
	assert.ErrorIs(t, l.Open("https://example.com"), ErrNoOpener)
}
