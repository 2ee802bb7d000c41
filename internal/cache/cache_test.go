package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGateway struct {
	domain.Gateway
	genreCalls  int
	detailCalls int
	detailErr   error
}

func (g *countingGateway) FetchGenres(ctx context.Context, kind domain.Kind) ([]domain.Genre, error) {
	g.genreCalls++
	return []domain.Genre{{ID: 28, Name: "Action"}}, nil
}

func (g *countingGateway) FetchDetail(ctx context.Context, kind domain.Kind, id int) (*domain.Detail, error) {
	g.detailCalls++
	if g.detailErr != nil {
		return nil, g.detailErr
	}
	return &domain.Detail{
		ContentItem: domain.ContentItem{Kind: kind, ID: id, Title: "Fight Club"},
		Runtime:     139,
	}, nil
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("backend down")
}

func newBackend(t *testing.T) Backend {
	t.Helper()
	s, err := store.Open("")
	require.NoError(t, err)
	return s.Cache()
}

func TestGenresCached(t *testing.T) {
	next := &countingGateway{}
	gw := NewGateway(next, newBackend(t), time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		genres, err := gw.FetchGenres(ctx, domain.KindMovie)
		require.NoError(t, err)
		assert.Equal(t, []domain.Genre{{ID: 28, Name: "Action"}}, genres)
	}
	assert.Equal(t, 1, next.genreCalls)

	_, err := gw.FetchGenres(ctx, domain.KindTV)
	require.NoError(t, err)
	assert.Equal(t, 2, next.genreCalls)
}

func TestDetailCachedPerKey(t *testing.T) {
	next := &countingGateway{}
	gw := NewGateway(next, newBackend(t), time.Hour, nil)
	ctx := context.Background()

	d, err := gw.FetchDetail(ctx, domain.KindMovie, 550)
	require.NoError(t, err)
	cached, err := gw.FetchDetail(ctx, domain.KindMovie, 550)
	require.NoError(t, err)
	assert.Equal(t, d, cached)
	assert.Equal(t, 1, next.detailCalls)

	_, err = gw.FetchDetail(ctx, domain.KindTV, 550)
	require.NoError(t, err)
	assert.Equal(t, 2, next.detailCalls)
}

func TestErrorsNotCached(t *testing.T) {
	next := &countingGateway{detailErr: &domain.APIError{StatusCode: 500}}
	gw := NewGateway(next, newBackend(t), time.Hour, nil)

	_, err := gw.FetchDetail(context.Background(), domain.KindMovie, 1)
	require.Error(t, err)
	next.detailErr = nil
	_, err = gw.FetchDetail(context.Background(), domain.KindMovie, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, next.detailCalls)
}

func TestBackendFailureFallsThrough(t *testing.T) {
	next := &countingGateway{}
	gw := NewGateway(next, failingBackend{}, 0, nil)

	genres, err := gw.FetchGenres(context.Background(), domain.KindMovie)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
	assert.Equal(t, DefaultTTL, gw.ttl)
}
