// Package images builds artwork URLs for posters and provider logos.
package images

import "strings"

const (
	DefaultBaseURL = "https://image.tmdb.org/t/p"

	// Placeholder is the bundled asset shown when an item has no artwork
	Placeholder = "placeholder.png"
)

// Size is an image width bucket understood by the image CDN
type Size string

const (
	SizeLogo   Size = "w92"  // provider logos
	SizeCard   Size = "w500" // list cards
	SizeDetail Size = "w780" // detail poster
)

// Resolver turns path fragments into absolute URLs
type Resolver struct {
	BaseURL string
}

// NewResolver returns a resolver for baseURL, or the default CDN when empty
func NewResolver(baseURL string) Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Resolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Poster returns the poster URL at size, or Placeholder when path is empty
func (r Resolver) Poster(path string, size Size) string {
	return r.url(path, size)
}

// Logo returns a provider logo URL, or Placeholder when path is empty
func (r Resolver) Logo(path string) string {
	return r.url(path, SizeLogo)
}

// IsPlaceholder reports whether url is the local fallback asset
func IsPlaceholder(url string) bool {
	return url == Placeholder
}

func (r Resolver) url(path string, size Size) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return Placeholder
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/" + string(size) + path
}
