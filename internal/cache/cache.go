package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

// DefaultTTL applies when the configured TTL is zero.
const DefaultTTL = 24 * time.Hour

// Backend is a TTL key/value store for encoded responses.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Gateway caches genre lists and detail records in front of another gateway.
// Lists, search and watch providers always go to the wrapped gateway.
type Gateway struct {
	domain.Gateway
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// NewGateway wraps next with a read-through cache
func NewGateway(next domain.Gateway, backend Backend, ttl time.Duration, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gateway{Gateway: next, backend: backend, ttl: ttl, logger: logger}
}

func genresKey(kind domain.Kind) string {
	return "genres:" + string(kind)
}

func detailKey(kind domain.Kind, id int) string {
	return fmt.Sprintf("detail:%s:%d", kind, id)
}

// FetchGenres returns cached genres when present
func (g *Gateway) FetchGenres(ctx context.Context, kind domain.Kind) ([]domain.Genre, error) {
	var genres []domain.Genre
	if g.lookup(ctx, genresKey(kind), &genres) {
		return genres, nil
	}
	genres, err := g.Gateway.FetchGenres(ctx, kind)
	if err != nil {
		return nil, err
	}
	g.store(ctx, genresKey(kind), genres)
	return genres, nil
}

// FetchDetail returns a cached detail record when present
func (g *Gateway) FetchDetail(ctx context.Context, kind domain.Kind, id int) (*domain.Detail, error) {
	var detail domain.Detail
	if g.lookup(ctx, detailKey(kind, id), &detail) {
		return &detail, nil
	}
	d, err := g.Gateway.FetchDetail(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	g.store(ctx, detailKey(kind, id), d)
	return d, nil
}

func (g *Gateway) lookup(ctx context.Context, key string, dest any) bool {
	data, ok, err := g.backend.Get(ctx, key)
	if err != nil {
		g.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		g.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	g.logger.Debug("cache hit", "key", key)
	return true
}

func (g *Gateway) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		g.logger.Error("failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := g.backend.Set(ctx, key, data, g.ttl); err != nil {
		g.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
