package snapshot

import (
	"time"

	"statwire/internal/editorial"
	"statwire/internal/metric"
	"statwire/internal/period"
	"statwire/internal/series"
)

// Raw is the immutable per-period capture of upstream series data.
// Written once on fetch, never overwritten on re-run.
type Raw struct {
	Dataset         string                          `json:"dataset"`
	ReferencePeriod period.Period                   `json:"reference_period"`
	FetchedAt       time.Time                       `json:"fetched_at"`
	Series          map[string][]series.Observation `json:"series"`
}

// Comparisons carry the derived context of a normalized snapshot.
// Every trend window has exactly 24 entries, oldest first, with nulls
// only as a contiguous prefix.
type Comparisons struct {
	PriorRelease       map[string]metric.Structured `json:"prior_release,omitempty"`
	TwelveMonthAverage map[string]float64           `json:"twelve_month_average,omitempty"`
	Trend              map[string][]metric.Optional `json:"trend"`
}

// Normalized is the per-period computed snapshot. Persisted
// immutably; later snapshots read but never modify earlier ones.
type Normalized struct {
	Dataset         string                       `json:"dataset"`
	ReferencePeriod period.Period                `json:"reference_period"`
	FetchedAt       time.Time                    `json:"fetched_at"`
	Metrics         map[string]metric.Structured `json:"metrics"`
	Deltas          map[string]metric.Structured `json:"deltas,omitempty"`
	Comparisons     Comparisons                  `json:"comparisons"`
}

// HistoryEntry is one prior release in the capped ledger.
type HistoryEntry struct {
	Date  period.Period `json:"date"`
	Label string        `json:"label"`
}

// Document is the externally served release artifact. It exists in
// two lifecycle states: candidate (freshly assembled, unverified) and
// production (passed the publish gate). The transition is a single
// atomic rename and is one-directional.
type Document struct {
	Dataset          string                       `json:"dataset"`
	Label            string                       `json:"label"`
	ReferencePeriod  period.Period                `json:"reference_period"`
	ReleaseDate      string                       `json:"release_date"`
	NextReleaseDate  string                       `json:"next_release_date"`
	GeneratedAt      time.Time                    `json:"generated_at"`
	Source           string                       `json:"source"`
	MethodologyNotes string                       `json:"methodology_notes"`
	Signal           editorial.Signal             `json:"signal"`
	Headline         string                       `json:"headline"`
	Editorial        string                       `json:"editorial"`
	Summary          string                       `json:"summary"`
	WhatChanged      string                       `json:"what_changed"`
	Context          string                       `json:"context"`
	Metrics          map[string]metric.Structured `json:"metrics"`
	Deltas           map[string]metric.Structured `json:"deltas,omitempty"`
	Comparisons      Comparisons                  `json:"comparisons"`
	History          []HistoryEntry               `json:"history"`
}
