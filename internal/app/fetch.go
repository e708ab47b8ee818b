package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"statwire/internal/period"
	"statwire/internal/series"
	"statwire/internal/snapshot"
)

// ErrSeriesMisaligned aborts a fetch when the configured series
// disagree on the latest available month.
var ErrSeriesMisaligned = errors.New("fetch: series disagree on latest available month")

// Fetch retrieves the configured series from the statistics source
// and persists an immutable raw snapshot for the reference period.
// Re-fetching an already captured period is a no-op.
func (a *App) Fetch(ctx context.Context, opts StageOptions) error {
	ds, err := a.Config.Dataset(opts.Dataset)
	if err != nil {
		return err
	}

	explicit, hasExplicit, err := resolvePeriod(opts.Period)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	startYear := now.Year() - a.Config.API.LookbackYears
	observations, err := a.newFetcher().FetchSeries(ctx, ds.SeriesIDs(), startYear, now.Year())
	if err != nil {
		return fmt.Errorf("fetch series: %w", err)
	}

	latest, err := commonLatestPeriod(observations)
	if err != nil {
		return err
	}

	target := latest
	if hasExplicit {
		target = explicit
	}

	raw := snapshot.Raw{
		Dataset:         opts.Dataset,
		ReferencePeriod: target,
		FetchedAt:       now,
		Series:          observations,
	}

	if err := a.store().WriteRaw(raw); err != nil {
		if errors.Is(err, snapshot.ErrExists) {
			a.Logger.Info().Str("dataset", opts.Dataset).Str("period", target.String()).Msg("raw snapshot already captured; nothing to do")
			return nil
		}
		return err
	}

	a.Logger.Info().Str("dataset", opts.Dataset).Str("period", target.String()).Msg("raw snapshot written")
	return nil
}

// commonLatestPeriod validates that every series reports the same
// newest month. Releases for different cadences must not be mixed
// into one dataset.
func commonLatestPeriod(observations map[string][]series.Observation) (period.Period, error) {
	var common period.Period
	first := true
	for id, obs := range observations {
		lookup, err := series.Build(id, obs)
		if err != nil {
			return period.Period{}, err
		}
		latest, ok := lookup.Latest()
		if !ok {
			return period.Period{}, fmt.Errorf("series %s returned no monthly observations", id)
		}
		if first {
			common = latest
			first = false
			continue
		}
		if latest != common {
			return period.Period{}, fmt.Errorf("%w: series %s reports %s, others report %s",
				ErrSeriesMisaligned, id, latest, common)
		}
	}
	if first {
		return period.Period{}, errors.New("no series observations returned")
	}
	return common, nil
}
