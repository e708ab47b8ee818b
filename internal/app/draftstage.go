package app

import (
	"context"
	"fmt"
	"time"

	"statwire/internal/assemble"
	"statwire/internal/draft"
	"statwire/internal/editorial"
	"statwire/internal/snapshot"
)

// Draft assembles the candidate release document: locked fields,
// computed metrics, trend context, and AI-drafted prose. The signal
// sentence is force-injected from the fixed table, never drafted.
func (a *App) Draft(ctx context.Context, opts StageOptions) error {
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
		latest, ok, err := store.LatestNormalizedPeriod(opts.Dataset)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("dataset %s has no normalized snapshots; run normalize first", opts.Dataset)
		}
		target = latest
	}

	normalized, err := store.ReadNormalized(opts.Dataset, target)
	if err != nil {
		return fmt.Errorf("load normalized snapshot: %w", err)
	}

	var production *snapshot.Document
	if doc, ok, err := store.ReadProduction(opts.Dataset); err != nil {
		return fmt.Errorf("load production document: %w", err)
	} else if ok {
		production = &doc
	}

	signal, _, _ := lockedFields(ds, production)

	drafted, err := a.newDrafter().Draft(ctx, draft.BuildContext(ds.Label, normalized, signal))
	if err != nil {
		return fmt.Errorf("draft release text: %w", err)
	}

	sentences := editorial.NewEngine(ds.Templates, a.Logger)
	assembler := assemble.New(sentences, a.Logger)

	doc, err := assembler.Assemble(assemble.Inputs{
		Label:      ds.Label,
		Rule:       ds.Rule(),
		Normalized: normalized,
		Production: production,
		Defaults:   ds.LockedDefaults(),
		Headline:   drafted.Headline,
		Editorial:  drafted.Editorial,
		Now:        time.Now(),
	})
	if err != nil {
		return err
	}

	if err := store.WriteCandidate(doc); err != nil {
		return err
	}

	a.Logger.Info().
		Str("dataset", opts.Dataset).
		Str("period", target.String()).
		Str("headline", doc.Headline).
		Msg("candidate document written")
	return nil
}
