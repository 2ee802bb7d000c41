package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoster(t *testing.T) {
	r := NewResolver("")

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", r.Poster("/abc.jpg", SizeCard))
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/abc.jpg", r.Poster("abc.jpg", SizeDetail))
	assert.Equal(t, Placeholder, r.Poster("", SizeCard))
	assert.Equal(t, Placeholder, r.Poster("  ", SizeDetail))
	assert.True(t, IsPlaceholder(r.Poster("", SizeCard)))
}

func TestLogo(t *testing.T) {
	r := NewResolver("http://cdn.local/img/")

	assert.Equal(t, "http://cdn.local/img/w92/n.png", r.Logo("/n.png"))
	assert.Equal(t, Placeholder, r.Logo(""))
}

func TestZeroResolverUsesDefault(t *testing.T) {
	var r Resolver
	assert.Equal(t, "https://image.tmdb.org/t/p/w92/x.png", r.Logo("/x.png"))
}
