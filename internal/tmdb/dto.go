package tmdb

// listResponse is the envelope for every paginated endpoint
type listResponse struct {
	Page         *int         `json:"page"`
	Results      []resultItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// resultItem covers movie, tv, and multi-search result shapes.
// Movies carry title/release_date, shows carry name/first_air_date.
type resultItem struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type,omitempty"` // search/multi only
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []genre `json:"genres"`
}

// detailResponse is /movie/{id} and /tv/{id}
type detailResponse struct {
	resultItem
	Genres           []genre `json:"genres"`
	Homepage         string  `json:"homepage,omitempty"`
	Status           string  `json:"status,omitempty"`
	Runtime          *int    `json:"runtime,omitempty"`
	NumberOfSeasons  *int    `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes *int    `json:"number_of_episodes,omitempty"`
}

type watchProvider struct {
	LogoPath        *string `json:"logo_path"`
	ProviderID      int     `json:"provider_id"`
	ProviderName    string  `json:"provider_name"`
	DisplayPriority int     `json:"display_priority"`
}

type countryProviders struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []watchProvider `json:"flatrate,omitempty"`
	Rent     []watchProvider `json:"rent,omitempty"`
	Buy      []watchProvider `json:"buy,omitempty"`
}

type watchProviderResponse struct {
	ID      int                         `json:"id"`
	Results map[string]countryProviders `json:"results"`
}
