package app

import (
	"context"
	"fmt"

	"statwire/internal/period"
)

// Backfill normalizes every month in the inclusive [from, to] range
// from already-fetched raw snapshots, oldest first so each month's
// trend window can see the ones before it. Months that are already
// normalized are skipped; months with missing raw data are counted
// and reported without aborting the sweep.
func (a *App) Backfill(ctx context.Context, opts BackfillOptions) error {
	if _, err := a.Config.Dataset(opts.Dataset); err != nil {
		return err
	}

	from, err := period.Parse(opts.From)
	if err != nil {
		return fmt.Errorf("parse --from: %w", err)
	}
	to, err := period.Parse(opts.To)
	if err != nil {
		return fmt.Errorf("parse --to: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("backfill range is inverted: %s is after %s", opts.From, opts.To)
	}

	a.Logger.Info().
		Str("dataset", opts.Dataset).
		Str("from", from.String()).
		Str("to", to.String()).
		Bool("dry_run", opts.DryRun).
		Msg("starting backfill")

	processed, failed, err := a.normalizeRange(ctx, opts.Dataset, from, to, opts.DryRun)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Int("processed", processed).
		Int("failed", failed).
		Msg("backfill complete")

	if failed > 0 {
		return fmt.Errorf("backfill finished with %d failed month(s)", failed)
	}
	return nil
}
