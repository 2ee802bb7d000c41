package domain

import "context"

// Gateway is the remote metadata API. Implementations never retry.
type Gateway interface {
	FetchList(ctx context.Context, kind Kind, list ListType, page int, sortKey string, genreID *int) (Page, error)
	FetchDetail(ctx context.Context, kind Kind, id int) (*Detail, error)
	FetchWatchProviders(ctx context.Context, kind Kind, id int) (WatchProviders, error)
	FetchGenres(ctx context.Context, kind Kind) ([]Genre, error)
	Search(ctx context.Context, query string, page int) (Page, error)
}

// WatchlistStorage persists the whole watchlist under a single key.
type WatchlistStorage interface {
	LoadWatchlist() ([]WatchlistEntry, error)
	SaveWatchlist(entries []WatchlistEntry) error
}
