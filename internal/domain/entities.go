package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Kind distinguishes movies from TV shows.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMovie, KindTV:
		return true
	default:
		return false
	}
}

// Label returns the display name for the kind
func (k Kind) Label() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindTV:
		return "TV Show"
	default:
		return "Unknown"
	}
}

// DateLabel returns the label for the item's date field (release vs first air)
func (k Kind) DateLabel() string {
	switch k {
	case KindMovie:
		return "Release Date"
	case KindTV:
		return "First Aired"
	default:
		return "Date"
	}
}

// ParseKind converts an API media_type string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown content kind %q", s)
	}
	return k, nil
}

// Key identifies a piece of content across all lists.
type Key struct {
	Kind Kind
	ID   int
}

// String returns "kind:id", e.g. "movie:550"
func (k Key) String() string {
	return string(k.Kind) + ":" + strconv.Itoa(k.ID)
}

// ContentItem is a movie or TV show as it appears in a listing.
// Title holds the movie title or the show name; Date holds the release
// date for movies and the first-air date for shows.
type ContentItem struct {
	Kind       Kind    `json:"kind"`
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	PosterPath string  `json:"poster_path,omitempty"`
	Date       string  `json:"date,omitempty"`
	Rating     float64 `json:"rating"`
	Overview   string  `json:"overview,omitempty"`
}

// Key returns the identity key of the item
func (c ContentItem) Key() Key {
	return Key{Kind: c.Kind, ID: c.ID}
}

// Year returns the year part of Date, or 0 when unknown
func (c ContentItem) Year() int {
	if len(c.Date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(c.Date[:4])
	if err != nil {
		return 0
	}
	return y
}

// FormattedRating returns the rating with one decimal, or "N/A"
func (c ContentItem) FormattedRating() string {
	if c.Rating <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(c.Rating, 'f', 1, 64)
}

// FormattedDate renders Date as "Jan 2, 2006", or "N/A" when missing or malformed.
func (c ContentItem) FormattedDate() string {
	if c.Date == "" {
		return "N/A"
	}
	t, err := time.Parse("2006-01-02", c.Date)
	if err != nil {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// Genre is a stable reference entry fetched once per kind.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Detail is a ContentItem extended with fields only the detail endpoint returns.
type Detail struct {
	ContentItem
	Genres   []Genre `json:"genres"`
	Status   string  `json:"status,omitempty"`
	Homepage string  `json:"homepage,omitempty"`

	// Movie only
	Runtime int `json:"runtime,omitempty"`

	// TV only
	SeasonCount  int `json:"season_count,omitempty"`
	EpisodeCount int `json:"episode_count,omitempty"`
}

// FormattedRuntime returns "2h 19m" style runtime, empty when unknown or not a movie.
func (d Detail) FormattedRuntime() string {
	if d.Kind != KindMovie || d.Runtime <= 0 {
		return ""
	}
	h := d.Runtime / 60
	m := d.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Page is one page of a paginated listing.
type Page struct {
	Page         int
	Results      []ContentItem
	TotalPages   int
	TotalResults int
}

// EmptyPage is the result of a search with no query.
func EmptyPage() Page {
	return Page{Page: 1, Results: []ContentItem{}}
}

// ListType selects which listing endpoint a controller pages through.
type ListType string

const (
	ListPopular  ListType = "popular"
	ListTopRated ListType = "top_rated"
	ListDiscover ListType = "discover"
)

// WatchlistEntry is a ContentItem the user saved, stamped with when it was added.
type WatchlistEntry struct {
	ContentItem
	AddedAt time.Time `json:"added_at"`
}
