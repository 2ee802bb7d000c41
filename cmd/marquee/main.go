package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/marquee/internal/browse"
	"github.com/mmcdole/marquee/internal/cache"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/images"
	"github.com/mmcdole/marquee/internal/launcher"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/watchlist"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var (
		showVersion bool
		clearData   bool
		setup       bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&clearData, "clear", false, "clear the watchlist and cached responses, then exit")
	flag.BoolVar(&setup, "setup", false, "enter a new API key")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(clearData, setup); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(clearData, setup bool) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := log.SetupLogger(log.Config{File: cfg.Logging.File, Level: cfg.Logging.Level})
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	db, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer db.Close()

	if clearData {
		return clearStorage(db)
	}

	// Check if configured
	if setup || !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client, err := newClient(cfg, cfg.TMDB.APIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	backend, closeBackend := cacheBackend(cfg, db, logger)
	defer closeBackend()
	gw := cache.NewGateway(client, backend, cfg.Cache.TTL, logger)

	wl := watchlist.New(db, logger)
	go wl.Load()

	model := tui.NewModel(tui.Deps{
		Gateway:    gw,
		Watchlist:  wl,
		Aggregator: detail.NewAggregator(gw, cfg.TMDB.Region, logger),
		Genres:     browse.NewGenres(gw, logger),
		Images:     images.NewResolver(cfg.TMDB.ImageBaseURL),
		Opener:     launcher.New(cfg.UI.Browser, cfg.UI.BrowserArgs, logger),
		Logger:     logger,
	}, styles.ForName(cfg.UI.Theme))

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func newClient(cfg *config.Config, apiKey string, logger *slog.Logger) (*tmdb.Client, error) {
	return tmdb.NewClient(cfg.TMDB.BaseURL, apiKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithLanguage(cfg.TMDB.Language),
	)
}

// cacheBackend picks redis when configured and reachable, otherwise the local database
func cacheBackend(cfg *config.Config, db *store.Store, logger *slog.Logger) (cache.Backend, func()) {
	if cfg.Cache.RedisAddr == "" {
		return db.Cache(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rb, err := cache.NewRedisBackend(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, using local cache", "addr", cfg.Cache.RedisAddr, "error", err)
		return db.Cache(), func() {}
	}
	logger.Info("using redis cache", "addr", cfg.Cache.RedisAddr)
	return rb, func() { rb.Close() }
}

// clearStorage wipes the watchlist and the response cache
func clearStorage(db *store.Store) error {
	if err := db.ClearWatchlist(); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	if err := db.Cache().Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("✓ Watchlist and cache cleared.")
	return nil
}

// runSetupFlow asks for an API key, checks it and saves it
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()
	fmt.Println("Marquee needs a TMDB API key (https://www.themoviedb.org/settings/api).")
	fmt.Println()

	var apiKey string
	for {
		fmt.Print("API key: ")
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		apiKey = strings.TrimSpace(string(keyBytes))

		if apiKey == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		client, err := newClient(cfg, apiKey, logger)
		if err != nil {
			return err
		}

		if err := checkKeyWithSpinner(client); err != nil {
			if errors.Is(err, domain.ErrAuthFailed) {
				fmt.Println("✗ The API key was rejected. Please try again.")
				fmt.Println()
				continue
			}
			fmt.Printf("✗ Could not reach the API: %v\n", err)
			fmt.Println("Please check your connection and try again.")
			fmt.Println()
			continue
		}
		break
	}

	cfg.TMDB.APIKey = apiKey
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run marquee again to start the application.")

	return nil
}

// checkKeyWithSpinner makes one cheap request with the key and animates while waiting
func checkKeyWithSpinner(client *tmdb.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)

	// Start check in background
	go func() {
		_, err := client.FetchGenres(ctx, domain.KindMovie)
		resultCh <- err
	}()

	// Spinner animation
	frame := 0

	// Print initial spinner
	fmt.Printf("\r%s Checking API key...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			// Clear spinner line
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("check timed out")
		}
	}
}
