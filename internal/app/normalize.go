package app

import (
	"context"
	"errors"
	"fmt"

	"statwire/internal/metric"
	"statwire/internal/period"
	"statwire/internal/series"
	"statwire/internal/snapshot"
	"statwire/internal/trend"
)

// Normalize turns a raw snapshot into the per-period normalized
// snapshot: display metrics, deltas against the production document,
// trend windows, and the twelve-month averages. Re-running a period
// whose normalized artifact exists is an idempotent skip.
func (a *App) Normalize(ctx context.Context, opts StageOptions) error {
	ds, err := a.Config.Dataset(opts.Dataset)
	if err != nil {
		return err
	}
	store := a.store()

	target, hasExplicit, err := resolvePeriod(opts.Period)
	if err != nil {
		return err
	}
	if !hasExplicit {
		latest, ok, err := store.LatestRawPeriod(opts.Dataset)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("dataset %s has no raw snapshots; run fetch first", opts.Dataset)
		}
		target = latest
	}

	if store.NormalizedExists(opts.Dataset, target) {
		a.Logger.Info().Str("dataset", opts.Dataset).Str("period", target.String()).Msg("already normalized; nothing to do")
		return nil
	}

	raw, err := store.ReadRaw(opts.Dataset, target)
	if err != nil {
		return fmt.Errorf("load raw snapshot: %w", err)
	}

	lookups := make(map[string]series.Lookup, len(raw.Series))
	for id, obs := range raw.Series {
		lookup, err := series.Build(id, obs)
		if err != nil {
			return err
		}
		lookups[id] = lookup
	}

	metrics := make(map[string]metric.Structured, len(ds.Metrics))
	for _, def := range ds.Metrics {
		if m, ok := metric.Compute(def, lookups, target, a.Logger); ok {
			metrics[def.Key] = m
		}
	}

	deltas, err := a.computeDeltas(opts.Dataset, metrics)
	if err != nil {
		return err
	}

	engine := trend.NewEngine(store, a.Logger)
	windows, err := engine.BuildWindows(opts.Dataset, target, ds.MetricKeys(), metrics)
	if err != nil {
		return err
	}

	averages := make(map[string]float64)
	for _, def := range ds.Metrics {
		if avg, ok := trend.TwelveMonthAverage(windows[def.Key], def.Precision).Value(); ok {
			averages[def.Key] = avg
		}
	}

	normalized := snapshot.Normalized{
		Dataset:         opts.Dataset,
		ReferencePeriod: target,
		FetchedAt:       raw.FetchedAt,
		Metrics:         metrics,
		Deltas:          deltas,
		Comparisons: snapshot.Comparisons{
			PriorRelease:       deltas,
			TwelveMonthAverage: averages,
			Trend:              windows,
		},
	}

	if err := store.WriteNormalized(normalized); err != nil {
		if errors.Is(err, snapshot.ErrExists) {
			a.Logger.Info().Str("dataset", opts.Dataset).Str("period", target.String()).Msg("already normalized; nothing to do")
			return nil
		}
		return err
	}

	a.Logger.Info().
		Str("dataset", opts.Dataset).
		Str("period", target.String()).
		Int("metrics", len(metrics)).
		Int("deltas", len(deltas)).
		Msg("normalized snapshot written")
	return nil
}

// computeDeltas compares current metric values against the most
// recently published production document. No production document or
// no prior value for a key means no delta for that key.
func (a *App) computeDeltas(dataset string, metrics map[string]metric.Structured) (map[string]metric.Structured, error) {
	production, ok, err := a.store().ReadProduction(dataset)
	if err != nil {
		return nil, fmt.Errorf("load production document: %w", err)
	}
	if !ok {
		a.Logger.Debug().Str("dataset", dataset).Msg("no production document; deltas omitted")
		return nil, nil
	}

	deltas := make(map[string]metric.Structured)
	for key, current := range metrics {
		prior, ok := production.Metrics[key]
		if !ok {
			continue
		}
		deltas[key] = trend.Delta(current, prior)
	}
	return deltas, nil
}

// normalizeRange runs Normalize over an inclusive period range,
// oldest first. Used by backfill.
func (a *App) normalizeRange(ctx context.Context, dataset string, from, to period.Period, dryRun bool) (processed, failed int, err error) {
	for p := from; !to.Before(p); p = p.AddMonths(1) {
		select {
		case <-ctx.Done():
			return processed, failed, ctx.Err()
		default:
		}

		if dryRun {
			a.Logger.Info().Str("dataset", dataset).Str("period", p.String()).Msg("dry-run: would normalize")
			processed++
			continue
		}

		if err := a.Normalize(ctx, StageOptions{Dataset: dataset, Period: p.String()}); err != nil {
			failed++
			a.Logger.Error().Err(err).Str("dataset", dataset).Str("period", p.String()).Msg("backfill period failed")
			continue
		}
		processed++
	}
	return processed, failed, nil
}
