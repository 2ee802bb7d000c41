package domain

import "sort"

// Provider is a streaming/rental/purchase service.
type Provider struct {
	ID              int    `json:"provider_id"`
	Name            string `json:"provider_name"`
	LogoPath        string `json:"logo_path,omitempty"`
	DisplayPriority int    `json:"display_priority"`
}

// RegionProviders lists where an item can be watched in one country.
type RegionProviders struct {
	Streaming    []Provider
	Rental       []Provider
	Purchase     []Provider
	ReferralLink string
}

// Empty reports whether no provider category has entries
func (r RegionProviders) Empty() bool {
	return len(r.Streaming) == 0 && len(r.Rental) == 0 && len(r.Purchase) == 0
}

// WatchProviders maps country code (e.g. "US") to that country's providers.
type WatchProviders map[string]RegionProviders

// ForRegion returns the providers for a country with each category sorted by
// display priority. The boolean is false when the country is missing or empty.
func (w WatchProviders) ForRegion(code string) (RegionProviders, bool) {
	r, ok := w[code]
	if !ok || r.Empty() {
		return RegionProviders{}, false
	}
	return RegionProviders{
		Streaming:    sortedByPriority(r.Streaming),
		Rental:       sortedByPriority(r.Rental),
		Purchase:     sortedByPriority(r.Purchase),
		ReferralLink: r.ReferralLink,
	}, true
}

func sortedByPriority(in []Provider) []Provider {
	if len(in) == 0 {
		return nil
	}
	out := make([]Provider, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayPriority < out[j].DisplayPriority
	})
	return out
}
