package app

import (
	"context"
	"fmt"

	"statwire/internal/chartexport"
)

// Export renders the trend windows of a normalized snapshot to PNG
// and/or CSV files. Without an explicit period the newest normalized
// snapshot is used.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	ds, err := a.Config.Dataset(opts.Dataset)
	if err != nil {
		return err
	}
	if opts.PNGPath == "" && opts.CSVPath == "" {
		return fmt.Errorf("export: at least one of --png and --csv is required")
	}
	store := a.store()

	target, explicit, err := resolvePeriod(opts.Period)
	if err != nil {
		return err
	}
	if !explicit {
		latest, ok, err := store.LatestNormalizedPeriod(opts.Dataset)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("export: no normalized snapshots for dataset %q", opts.Dataset)
		}
		target = latest
	}

	n, err := store.ReadNormalized(opts.Dataset, target)
	if err != nil {
		return err
	}

	keys := ds.MetricKeys()
	if opts.PNGPath != "" {
		if err := chartexport.WriteTrendPNG(opts.PNGPath, n, keys); err != nil {
			return fmt.Errorf("write trend chart: %w", err)
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("trend chart written")
	}
	if opts.CSVPath != "" {
		if err := chartexport.WriteTrendCSV(opts.CSVPath, n, keys); err != nil {
			return fmt.Errorf("write trend csv: %w", err)
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("trend csv written")
	}
	return nil
}
