// Package launcher opens web links (provider pages, homepages) outside the terminal.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoOpener is returned when no browser or system opener could be started
var ErrNoOpener = errors.New("no way to open links found")

// launchPath defines a single way to open a link
type launchPath struct {
	command string
	args    []string // placed before the url
}

// candidateOpeners lists openers to try in order per platform
var candidateOpeners = map[string][]launchPath{
	"darwin": {
		{command: "open"},
	},
	"linux": {
		{command: "xdg-open"},
		{command: "gio", args: []string{"open"}},
		{command: "sensible-browser"},
		{command: "wslview"}, // WSL
	},
	"windows": {
		{command: "rundll32", args: []string{"url.dll,FileProtocolHandler"}},
	},
}

// Launcher opens links in the configured browser or the system default
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	goos     string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// New creates a Launcher. command may be empty to use the platform opener.
func New(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start() // don't wait for the browser
}

// Open opens an http(s) link
func (l *Launcher) Open(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not a web link", link)
	}

	// Tier 1: User configured a specific browser
	if l.command != "" {
		l.logger.Info("opening link with configured browser", "command", l.command, "url", link)
		return l.tryLaunch(launchPath{command: l.command, args: l.args}, link)
	}

	// Tier 2: Platform openers in order
	candidates, ok := candidateOpeners[l.goos]
	if !ok {
		candidates = candidateOpeners["linux"] // default
	}
	for _, lp := range candidates {
		err := l.tryLaunch(lp, link)
		if err == nil {
			l.logger.Info("opened link", "opener", lp.command, "url", link)
			return nil
		}
		l.logger.Debug("opener not available", "opener", lp.command, "error", err)
	}
	return ErrNoOpener
}

// tryLaunch starts lp if its command exists in PATH
func (l *Launcher) tryLaunch(lp launchPath, link string) error {
	if _, err := l.lookPath(lp.command); err != nil {
		return err
	}
	args := append(append([]string{}, lp.args...), link)
	if err := l.start(lp.command, args...); err != nil {
		return fmt.Errorf("%s: %w", strings.TrimSpace(lp.command), err)
	}
	return nil
}
