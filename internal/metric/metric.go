package metric

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unit classifies how a display value is presented.
type Unit string

const (
	UnitThousands Unit = "thousands"
	UnitPercent   Unit = "percent"
	UnitDollars   Unit = "dollars"
	UnitIndex     Unit = "index"
	UnitNumber    Unit = "number"
)

// Kind distinguishes metrics read directly from a series from metrics
// derived as an index ratio over time.
type Kind string

const (
	// KindDirect metrics use the observed value as-is, scaled and rounded.
	KindDirect Kind = "direct"
	// KindDerived metrics are percent changes of an index level against
	// the level LagMonths earlier.
	KindDerived Kind = "derived"
)

// Definition is the locked configuration of one metric: which series
// feeds it and how its display value is produced. Fixed at process
// start, never mutated.
type Definition struct {
	Key       string  `mapstructure:"key"`
	SeriesID  string  `mapstructure:"series_id"`
	Label     string  `mapstructure:"label"`
	Kind      Kind    `mapstructure:"kind"`
	Unit      Unit    `mapstructure:"unit"`
	Scale     float64 `mapstructure:"scale"`
	Precision int32   `mapstructure:"precision"`
	LagMonths int     `mapstructure:"lag_months"`
}

// Validate checks a definition for configuration mistakes.
func (d Definition) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("metric definition missing key")
	}
	if d.SeriesID == "" {
		return fmt.Errorf("metric %s: series_id is required", d.Key)
	}
	switch d.Kind {
	case KindDirect:
	case KindDerived:
		if d.LagMonths <= 0 {
			return fmt.Errorf("metric %s: derived metrics require lag_months > 0", d.Key)
		}
	default:
		return fmt.Errorf("metric %s: unknown kind %q", d.Key, d.Kind)
	}
	switch d.Unit {
	case UnitThousands, UnitPercent, UnitDollars, UnitIndex, UnitNumber:
	default:
		return fmt.Errorf("metric %s: unknown unit %q", d.Key, d.Unit)
	}
	if d.Precision < 0 {
		return fmt.Errorf("metric %s: precision cannot be negative", d.Key)
	}
	return nil
}

// Structured is a computed metric value owned by the snapshot that
// produced it; never mutated after creation.
type Structured struct {
	RawValue     float64 `json:"raw_value"`
	DisplayValue float64 `json:"display_value"`
	Unit         Unit    `json:"unit"`
	Scale        float64 `json:"scale"`
	Precision    int32   `json:"precision"`
}

// RoundHalfUp rounds d to the given number of decimal places with
// half-up tie breaking (2.5 -> 3, -2.5 -> -2).
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	half := decimal.New(5, -1)
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// Display applies the definition's scale and precision to a raw value.
func (d Definition) Display(raw float64) float64 {
	scaled := decimal.NewFromFloat(raw).Mul(decimal.NewFromFloat(d.Scale))
	v, _ := RoundHalfUp(scaled, d.Precision).Float64()
	return v
}

// PercentChange computes the derived display value for an index level
// against its reference level: round(((cur/ref) - 1) * 100, precision).
func (d Definition) PercentChange(current, reference float64) float64 {
	cur := decimal.NewFromFloat(current)
	ref := decimal.NewFromFloat(reference)
	change := cur.Div(ref).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	v, _ := RoundHalfUp(change, d.Precision).Float64()
	return v
}

// Build converts a raw observation into a structured metric.
func (d Definition) Build(raw, display float64) Structured {
	return Structured{
		RawValue:     raw,
		DisplayValue: display,
		Unit:         d.Unit,
		Scale:        d.Scale,
		Precision:    d.Precision,
	}
}
