package browse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func newTestGenres(gw domain.Gateway) *Genres {
	g := NewGenres(gw, nil)
	g.delay = time.Millisecond
	return g
}

func TestGenresCachedPerKind(t *testing.T) {
	gw := newFakeGateway()
	gw.genres[domain.KindMovie] = []domain.Genre{{ID: 28, Name: "Action"}}
	g := newTestGenres(gw)
	ctx := context.Background()

	first, err := g.Get(ctx, domain.KindMovie)
	require.NoError(t, err)
	second, err := g.Get(ctx, domain.KindMovie)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.genreCalls)
	assert.Equal(t, "Action", g.Name(domain.KindMovie, 28))
	assert.Empty(t, g.Name(domain.KindTV, 28))
}

func TestGenresRetryTransportFailures(t *testing.T) {
	gw := newFakeGateway()
	gw.genres[domain.KindTV] = []domain.Genre{{ID: 18, Name: "Drama"}}
	gw.genreErrs = []error{
		&domain.TransportError{Op: "fetch genres", Err: errors.New("timeout")},
		&domain.APIError{Op: "fetch genres", StatusCode: 503},
	}
	g := newTestGenres(gw)

	genres, err := g.Get(context.Background(), domain.KindTV)
	require.NoError(t, err)
	assert.Equal(t, "Drama", genres[0].Name)
	assert.Equal(t, 3, gw.genreCalls)
}

func TestGenresDoNotRetryAuthFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.genreErrs = []error{&domain.APIError{Op: "fetch genres", StatusCode: 401}}
	g := newTestGenres(gw)

	_, err := g.Get(context.Background(), domain.KindMovie)
	require.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Equal(t, 1, gw.genreCalls)

	// failures are not cached
	_, err = g.Get(context.Background(), domain.KindMovie)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.genreCalls)
}

func TestGenresGiveUpAfterThreeAttempts(t *testing.T) {
	gw := newFakeGateway()
	transport := &domain.TransportError{Op: "fetch genres", Err: errors.New("down")}
	gw.genreErrs = []error{transport, transport, transport, transport}
	g := newTestGenres(gw)

	_, err := g.Get(context.Background(), domain.KindMovie)
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 3, gw.genreCalls)
}

func TestGenresWarm(t *testing.T) {
	gw := newFakeGateway()
	gw.genres[domain.KindMovie] = []domain.Genre{{ID: 28, Name: "Action"}}
	gw.genres[domain.KindTV] = []domain.Genre{{ID: 18, Name: "Drama"}}
	g := newTestGenres(gw)

	require.NoError(t, g.Warm(context.Background()))
	assert.Equal(t, "Action", g.Name(domain.KindMovie, 28))
	assert.Equal(t, "Drama", g.Name(domain.KindTV, 18))
	assert.Equal(t, 2, gw.genreCalls)
}
