package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"statwire/internal/gate"
	"statwire/internal/storage"
)

// ErrGateFailed distinguishes a publish-gate rejection from a fatal
// error: the candidate file and audit report remain on disk for
// manual remediation.
var ErrGateFailed = errors.New("review: publish gate failed")

// Review runs the publish gate over the candidate document. On pass
// the candidate is promoted to production with a single atomic rename
// and, when configured, archived to Postgres. The audit report is
// written regardless of outcome.
func (a *App) Review(ctx context.Context, opts StageOptions) error {
	if _, err := a.Config.Dataset(opts.Dataset); err != nil {
		return err
	}
	store := a.store()

	candidate, err := store.ReadCandidate(opts.Dataset)
	if err != nil {
		return fmt.Errorf("load candidate document: %w", err)
	}

	g := gate.New(a.newAuditor(), a.Logger)
	report, err := g.Review(ctx, candidate)
	if err != nil {
		return err
	}

	if err := store.WriteAuditReport(opts.Dataset, candidate.ReferencePeriod, report); err != nil {
		return fmt.Errorf("write audit report: %w", err)
	}

	if !report.Passed() {
		for _, f := range report.Failures {
			a.Logger.Error().
				Str("check", f.Check).
				Str("field", f.Field).
				Str("pattern", f.Pattern).
				Msg(f.Detail)
		}
		return fmt.Errorf("%w: %d check(s) failed, candidate preserved for review", ErrGateFailed, len(report.Failures))
	}

	for _, w := range report.Warnings {
		a.Logger.Warn().Str("check", w.Check).Str("field", w.Field).Msg(w.Detail)
	}

	if err := store.Promote(opts.Dataset); err != nil {
		return err
	}

	a.archiveRelease(ctx, opts.Dataset)
	return nil
}

// archiveRelease mirrors the freshly promoted document into the
// optional Postgres archive. Archive trouble is logged, never fatal:
// the promotion already happened.
func (a *App) archiveRelease(ctx context.Context, dataset string) {
	archive, closeArchive, err := a.openArchive(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to open release archive")
		return
	}
	if archive == nil {
		a.Logger.Debug().Msg("database.dsn not configured; archive skipped")
		return
	}
	defer closeArchive()

	production, ok, err := a.store().ReadProduction(dataset)
	if err != nil || !ok {
		a.Logger.Error().Err(err).Msg("failed to reload production document for archive")
		return
	}

	payload, err := json.Marshal(production)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to encode production document for archive")
		return
	}

	record := storage.ReleaseRecord{
		Dataset:         dataset,
		ReferencePeriod: production.ReferencePeriod.String(),
		Headline:        production.Headline,
		ReleaseDate:     production.ReleaseDate,
		Payload:         payload,
	}
	if err := archive.UpsertRelease(ctx, record); err != nil {
		a.Logger.Error().Err(err).Msg("failed to archive release")
		return
	}
	a.Logger.Info().Str("dataset", dataset).Str("period", record.ReferencePeriod).Msg("release archived")
}
