package fetcher

import (
	"context"

	"statwire/internal/series"
)

// SeriesFetcher retrieves raw observations for a set of series from
// the upstream statistics source.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, seriesIDs []string, startYear, endYear int) (map[string][]series.Observation, error)
}
