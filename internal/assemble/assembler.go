package assemble

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"statwire/internal/editorial"
	"statwire/internal/snapshot"
)

// Locked are the editorial fields that automated runs copy verbatim
// and never regenerate. They originate in configuration for a
// dataset's first release and from the production document afterward.
type Locked struct {
	Signal           editorial.Signal
	Source           string
	MethodologyNotes string
}

// Inputs gather everything one assembly run consumes.
type Inputs struct {
	Label      string
	Rule       ReleaseRule
	Normalized snapshot.Normalized
	// Production is the current published document; nil before the
	// first promotion.
	Production *snapshot.Document
	// Defaults supply the locked fields when no production document
	// exists yet.
	Defaults  Locked
	Headline  string
	Editorial string
	Now       time.Time
}

// Assembler merges locked configuration, computed metrics, and
// drafted text into one candidate release document.
type Assembler struct {
	sentences *editorial.Engine
	logger    zerolog.Logger
}

// New constructs an Assembler over a sentence engine.
func New(sentences *editorial.Engine, logger zerolog.Logger) *Assembler {
	return &Assembler{sentences: sentences, logger: logger.With().Str("component", "assembler").Logger()}
}

// Assemble builds the candidate document. The signal sentence is
// looked up from the fixed table and force-written into the context
// field; nothing drafted ever reaches that field.
func (a *Assembler) Assemble(in Inputs) (snapshot.Document, error) {
	p := in.Normalized.ReferencePeriod

	releaseDate, err := ReleaseDate(p, in.Rule)
	if err != nil {
		return snapshot.Document{}, fmt.Errorf("release date: %w", err)
	}
	nextRelease, err := NextReleaseDate(p, in.Rule)
	if err != nil {
		return snapshot.Document{}, fmt.Errorf("next release date: %w", err)
	}

	locked := in.Defaults
	var history []snapshot.HistoryEntry
	if in.Production != nil {
		locked = Locked{
			Signal:           in.Production.Signal,
			Source:           in.Production.Source,
			MethodologyNotes: in.Production.MethodologyNotes,
		}
		history = in.Production.History
	}

	doc := snapshot.Document{
		Dataset:          in.Normalized.Dataset,
		Label:            in.Label,
		ReferencePeriod:  p,
		ReleaseDate:      releaseDate,
		NextReleaseDate:  nextRelease,
		GeneratedAt:      in.Now.UTC(),
		Source:           locked.Source,
		MethodologyNotes: locked.MethodologyNotes,
		Signal:           locked.Signal,
		Headline:         in.Headline,
		Editorial:        in.Editorial,
		Summary:          a.sentences.Summary(in.Normalized.Metrics, in.Normalized.Deltas),
		WhatChanged:      a.sentences.WhatChanged(in.Normalized.Metrics, in.Normalized.Deltas),
		Context:          locked.Signal.Sentence(),
		Metrics:          in.Normalized.Metrics,
		Deltas:           in.Normalized.Deltas,
		Comparisons:      in.Normalized.Comparisons,
		History:          AppendHistory(history, p, HistoryLabel(p), a.logger),
	}

	return doc, nil
}
