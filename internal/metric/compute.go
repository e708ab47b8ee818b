package metric

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"statwire/internal/period"
	"statwire/internal/series"
)

// Compute evaluates one metric definition against the series lookups
// for the given reference period. A missing observation or missing
// reference-lag value makes the metric absent (ok=false), logged but
// never an error: downstream consumers treat absence as "unknown",
// not as zero.
func Compute(def Definition, lookups map[string]series.Lookup, p period.Period, logger zerolog.Logger) (Structured, bool) {
	lookup, ok := lookups[def.SeriesID]
	if !ok {
		logger.Debug().Str("metric", def.Key).Str("series", def.SeriesID).Msg("no series data for metric")
		return Structured{}, false
	}

	switch def.Kind {
	case KindDerived:
		return computeDerived(def, lookup, p, logger)
	default:
		return computeDirect(def, lookup, p, logger)
	}
}

func computeDirect(def Definition, lookup series.Lookup, p period.Period, logger zerolog.Logger) (Structured, bool) {
	raw, ok := lookup.Value(p)
	if !ok {
		logger.Debug().Str("metric", def.Key).Str("period", p.String()).Msg("observation missing; metric omitted")
		return Structured{}, false
	}
	return def.Build(raw, def.Display(raw)), true
}

func computeDerived(def Definition, lookup series.Lookup, p period.Period, logger zerolog.Logger) (Structured, bool) {
	current, ok := lookup.Value(p)
	if !ok {
		logger.Debug().Str("metric", def.Key).Str("period", p.String()).Msg("current index level missing; metric omitted")
		return Structured{}, false
	}

	refPeriod := p.SubMonths(def.LagMonths)
	reference, ok := lookup.Value(refPeriod)
	if !ok {
		logger.Debug().
			Str("metric", def.Key).
			Str("period", p.String()).
			Str("reference_period", refPeriod.String()).
			Msg("reference index level missing; metric omitted")
		return Structured{}, false
	}
	if reference == 0 {
		logger.Warn().Str("metric", def.Key).Str("reference_period", refPeriod.String()).Msg("reference level is zero; metric omitted")
		return Structured{}, false
	}

	change := decimal.NewFromFloat(current).
		Div(decimal.NewFromFloat(reference)).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100))
	rawChange, _ := change.Float64()

	s := def.Build(rawChange, def.PercentChange(current, reference))
	// Derived metrics are already in percent terms; scale is identity.
	s.Scale = 1
	return s, true
}
