package browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	genreAttempts = 3
	genreDelay    = 250 * time.Millisecond
)

// Genres caches genre reference lists per kind for the life of the process.
// The gateway never retries, so fetches here are retried on transport failures.
type Genres struct {
	gw     domain.Gateway
	logger *slog.Logger
	delay  time.Duration

	mu     sync.RWMutex
	byKind map[domain.Kind][]domain.Genre
}

// NewGenres creates an empty genre cache
func NewGenres(gw domain.Gateway, logger *slog.Logger) *Genres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Genres{
		gw:     gw,
		logger: logger,
		delay:  genreDelay,
		byKind: make(map[domain.Kind][]domain.Genre),
	}
}

// Get returns the genres for kind, fetching them on first use
func (g *Genres) Get(ctx context.Context, kind domain.Kind) ([]domain.Genre, error) {
	g.mu.RLock()
	cached, ok := g.byKind[kind]
	g.mu.RUnlock()
	if ok {
		return cached, nil
	}

	genres, err := retry.DoWithData(
		func() ([]domain.Genre, error) {
			return g.gw.FetchGenres(ctx, kind)
		},
		retry.Context(ctx),
		retry.Attempts(genreAttempts),
		retry.Delay(g.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("retrying genre fetch", "kind", kind, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.byKind[kind] = genres
	g.mu.Unlock()
	return genres, nil
}

// Warm loads movie and TV genres concurrently
func (g *Genres) Warm(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, kind := range []domain.Kind{domain.KindMovie, domain.KindTV} {
		eg.Go(func() error {
			_, err := g.Get(ctx, kind)
			return err
		})
	}
	return eg.Wait()
}

// Name returns the genre name for id, or "" when unknown or not yet loaded
func (g *Genres) Name(kind domain.Kind, id int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, genre := range g.byKind[kind] {
		if genre.ID == id {
			return genre.Name
		}
	}
	return ""
}

// retryable limits retries to failures that may succeed on a second try
func retryable(err error) bool {
	var transport *domain.TransportError
	if errors.As(err, &transport) {
		return !errors.Is(err, context.Canceled)
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
