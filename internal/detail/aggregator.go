// Package detail loads everything the detail screen shows for one item.
package detail

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc"

	"github.com/mmcdole/marquee/internal/domain"
)

// DefaultRegion is used when no watch region is configured
const DefaultRegion = "US"

// Result is the outcome of loading a detail screen.
// Err is set only when the detail fetch failed. A provider failure leaves
// Providers nil and is not an error.
type Result struct {
	Key       domain.Key
	Detail    *domain.Detail
	Providers domain.WatchProviders
	Err       error
}

// Availability is the provider listing for the configured region
type Availability struct {
	Region    string
	Providers domain.RegionProviders
	Available bool
}

// Aggregator fetches detail and watch providers concurrently
type Aggregator struct {
	gw     domain.Gateway
	region string
	logger *slog.Logger
}

// NewAggregator creates an aggregator for the given watch region
func NewAggregator(gw domain.Gateway, region string, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if region == "" {
		region = DefaultRegion
	}
	return &Aggregator{gw: gw, region: region, logger: logger}
}

// Region returns the watch region used for availability
func (a *Aggregator) Region() string { return a.region }

// Load issues both fetches and returns once both have completed.
// Neither fetch waits on the other.
func (a *Aggregator) Load(ctx context.Context, kind domain.Kind, id int) Result {
	res := Result{Key: domain.Key{Kind: kind, ID: id}}

	var (
		detail       *domain.Detail
		detailErr    error
		providers    domain.WatchProviders
		providersErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		detail, detailErr = a.gw.FetchDetail(ctx, kind, id)
	})
	wg.Go(func() {
		providers, providersErr = a.gw.FetchWatchProviders(ctx, kind, id)
	})
	wg.Wait()

	if providersErr != nil {
		a.logger.Warn("watch providers unavailable", "key", res.Key.String(), "error", providersErr)
	} else {
		res.Providers = providers
	}

	if detailErr != nil {
		a.logger.Error("failed to load detail", "key", res.Key.String(), "error", detailErr)
		res.Err = detailErr
		return res
	}
	res.Detail = detail
	return res
}

// Availability returns the region's providers. Available is false when the
// provider fetch failed, the region is absent, or it lists no services.
func (a *Aggregator) Availability(res Result) Availability {
	av := Availability{Region: a.region}
	if res.Providers == nil {
		return av
	}
	av.Providers, av.Available = res.Providers.ForRegion(a.region)
	return av
}
