package tmdb

import (
	"github.com/mmcdole/marquee/internal/domain"
)

// mapItem converts a listing result of a known kind.
func mapItem(r resultItem, kind domain.Kind) domain.ContentItem {
	item := domain.ContentItem{
		Kind:     kind,
		ID:       r.ID,
		Rating:   r.VoteAverage,
		Overview: r.Overview,
	}
	if r.PosterPath != nil {
		item.PosterPath = *r.PosterPath
	}
	switch kind {
	case domain.KindMovie:
		item.Title = r.Title
		item.Date = r.ReleaseDate
	case domain.KindTV:
		item.Title = r.Name
		item.Date = r.FirstAirDate
	}
	return item
}

// mapItems converts a page of single-kind results
func mapItems(results []resultItem, kind domain.Kind) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, len(results))
	for _, r := range results {
		if r.ID == 0 {
			continue
		}
		items = append(items, mapItem(r, kind))
	}
	return items
}

// mapSearchItems keeps only movie and tv results; people and malformed entries are dropped.
func mapSearchItems(results []resultItem) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, len(results))
	for _, r := range results {
		kind, err := domain.ParseKind(r.MediaType)
		if err != nil || r.ID == 0 {
			continue
		}
		items = append(items, mapItem(r, kind))
	}
	return items
}

func mapGenres(in []genre) []domain.Genre {
	out := make([]domain.Genre, len(in))
	for i, g := range in {
		out[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return out
}

func mapDetail(d detailResponse, kind domain.Kind) *domain.Detail {
	detail := &domain.Detail{
		ContentItem: mapItem(d.resultItem, kind),
		Genres:      mapGenres(d.Genres),
		Status:      d.Status,
		Homepage:    d.Homepage,
	}
	switch kind {
	case domain.KindMovie:
		if d.Runtime != nil {
			detail.Runtime = *d.Runtime
		}
	case domain.KindTV:
		if d.NumberOfSeasons != nil {
			detail.SeasonCount = *d.NumberOfSeasons
		}
		if d.NumberOfEpisodes != nil {
			detail.EpisodeCount = *d.NumberOfEpisodes
		}
	}
	return detail
}

func mapProviders(in []watchProvider) []domain.Provider {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Provider, len(in))
	for i, p := range in {
		out[i] = domain.Provider{
			ID:              p.ProviderID,
			Name:            p.ProviderName,
			DisplayPriority: p.DisplayPriority,
		}
		if p.LogoPath != nil {
			out[i].LogoPath = *p.LogoPath
		}
	}
	return out
}

func mapWatchProviders(resp watchProviderResponse) domain.WatchProviders {
	out := make(domain.WatchProviders, len(resp.Results))
	for country, cp := range resp.Results {
		out[country] = domain.RegionProviders{
			Streaming:    mapProviders(cp.Flatrate),
			Rental:       mapProviders(cp.Rent),
			Purchase:     mapProviders(cp.Buy),
			ReferralLink: cp.Link,
		}
	}
	return out
}
