package draft

import (
	"context"

	"statwire/internal/editorial"
	"statwire/internal/snapshot"
)

// Context is the structured drafting input. Numbers are passed under
// explicit level/delta/average keys so the model never sees an
// ambiguous raw figure.
type Context struct {
	Dataset             string             `json:"dataset"`
	Label               string             `json:"label"`
	ReferencePeriod     string             `json:"reference_period"`
	Levels              map[string]float64 `json:"levels"`
	Deltas              map[string]float64 `json:"deltas,omitempty"`
	TwelveMonthAverages map[string]float64 `json:"twelve_month_averages,omitempty"`
	Signal              editorial.Signal   `json:"signal"`
}

// Draft is the model's output: drafted prose only. The signal
// sentence is never drafted.
type Draft struct {
	Headline  string `json:"headline"`
	Editorial string `json:"editorial"`
}

// Drafter produces headline and editorial text for a release.
type Drafter interface {
	Draft(ctx context.Context, dc Context) (Draft, error)
}

// BuildContext extracts the drafting context from a normalized
// snapshot and the locked signal.
func BuildContext(label string, n snapshot.Normalized, sig editorial.Signal) Context {
	dc := Context{
		Dataset:         n.Dataset,
		Label:           label,
		ReferencePeriod: n.ReferencePeriod.String(),
		Levels:          make(map[string]float64, len(n.Metrics)),
		Signal:          sig,
	}
	for key, m := range n.Metrics {
		dc.Levels[key] = m.DisplayValue
	}
	if len(n.Deltas) > 0 {
		dc.Deltas = make(map[string]float64, len(n.Deltas))
		for key, d := range n.Deltas {
			dc.Deltas[key] = d.DisplayValue
		}
	}
	if len(n.Comparisons.TwelveMonthAverage) > 0 {
		dc.TwelveMonthAverages = make(map[string]float64, len(n.Comparisons.TwelveMonthAverage))
		for key, v := range n.Comparisons.TwelveMonthAverage {
			dc.TwelveMonthAverages[key] = v
		}
	}
	return dc
}
