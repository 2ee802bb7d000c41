package browse

import "github.com/mmcdole/marquee/internal/domain"

// SortOption is a user-facing sort choice for discover listings
type SortOption string

const (
	SortPopularity   SortOption = "popularity"
	SortRating       SortOption = "rating"
	SortReleaseDate  SortOption = "release_date"   // movies
	SortFirstAirDate SortOption = "first_air_date" // tv
)

// String returns the display name for the sort option
func (o SortOption) String() string {
	switch o {
	case SortPopularity:
		return "Popularity"
	case SortRating:
		return "Rating"
	case SortReleaseDate:
		return "Release Date"
	case SortFirstAirDate:
		return "First Air Date"
	default:
		return "Unknown"
	}
}

// APIKey maps the option to the sort_by parameter for kind.
// Date sorting always uses the kind's own date field.
func (o SortOption) APIKey(kind domain.Kind) string {
	switch o {
	case SortRating:
		return "vote_average.desc"
	case SortReleaseDate, SortFirstAirDate:
		switch kind {
		case domain.KindMovie:
			return "primary_release_date.desc"
		case domain.KindTV:
			return "first_air_date.desc"
		}
	}
	return "popularity.desc"
}

// SortOptions returns the sort options offered for a kind
func SortOptions(kind domain.Kind) []SortOption {
	switch kind {
	case domain.KindTV:
		return []SortOption{SortPopularity, SortRating, SortFirstAirDate}
	default:
		return []SortOption{SortPopularity, SortRating, SortReleaseDate}
	}
}
