package trend

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"statwire/internal/metric"
	"statwire/internal/period"
	"statwire/internal/snapshot"
)

const (
	// WindowLength is the fixed size of every trend sequence: 23
	// months of history plus the current period, oldest first.
	WindowLength = 24
	// maxNullEntries is the guardrail: beyond half the window missing,
	// trend-derived content would be misleading and the whole
	// normalization run aborts.
	maxNullEntries = 12
	// averageSpan is the trailing slice the twelve-month average is
	// computed over.
	averageSpan = 12
)

// ErrInsufficientHistory aborts normalization when a trend window has
// too little real data to publish against.
var ErrInsufficientHistory = errors.New("trend: insufficient history for trend window")

// HistoryLoader reads previously persisted normalized snapshots. A
// missing period must surface as snapshot.ErrNotFound.
type HistoryLoader interface {
	ReadNormalized(dataset string, p period.Period) (snapshot.Normalized, error)
}

// Engine assembles fixed-length trend windows from prior snapshots.
type Engine struct {
	loader HistoryLoader
	logger zerolog.Logger
}

// NewEngine constructs a trend engine over a snapshot loader.
func NewEngine(loader HistoryLoader, logger zerolog.Logger) *Engine {
	return &Engine{loader: loader, logger: logger.With().Str("component", "trend").Logger()}
}

// BuildWindows produces the 24-slot trend sequence for every given
// metric key at reference period p. History is walked P-23..P-1; a
// missing snapshot or a metric missing within one yields a null slot.
// The current period's freshly computed display values fill the final
// slot. Any key whose window ends up more than half null aborts with
// ErrInsufficientHistory and nothing is persisted.
func (e *Engine) BuildWindows(dataset string, p period.Period, keys []string, current map[string]metric.Structured) (map[string][]metric.Optional, error) {
	history := e.loadHistory(dataset, p)

	windows := make(map[string][]metric.Optional, len(keys))
	for _, key := range keys {
		window := make([]metric.Optional, 0, WindowLength)
		for _, snap := range history {
			window = append(window, extract(snap, key))
		}

		if cur, ok := current[key]; ok {
			window = append(window, metric.Some(cur.DisplayValue))
		} else {
			window = append(window, metric.None())
		}

		if nulls := countNulls(window); nulls > maxNullEntries {
			return nil, fmt.Errorf("%w: metric %s has %d of %d entries missing at %s",
				ErrInsufficientHistory, key, nulls, WindowLength, p)
		}
		windows[key] = window
	}
	return windows, nil
}

// loadHistory returns the 23 prior snapshots oldest-first; nil marks
// a month with no persisted snapshot.
func (e *Engine) loadHistory(dataset string, p period.Period) []*snapshot.Normalized {
	history := make([]*snapshot.Normalized, 0, WindowLength-1)
	for offset := WindowLength - 1; offset >= 1; offset-- {
		month := p.SubMonths(offset)
		snap, err := e.loader.ReadNormalized(dataset, month)
		if err != nil {
			if !errors.Is(err, snapshot.ErrNotFound) {
				e.logger.Warn().Err(err).Str("period", month.String()).Msg("unreadable snapshot treated as missing")
			}
			history = append(history, nil)
			continue
		}
		history = append(history, &snap)
	}
	return history
}

func extract(snap *snapshot.Normalized, key string) metric.Optional {
	if snap == nil {
		return metric.None()
	}
	m, ok := snap.Metrics[key]
	if !ok {
		return metric.None()
	}
	return metric.Some(m.DisplayValue)
}

func countNulls(window []metric.Optional) int {
	nulls := 0
	for _, slot := range window {
		if !slot.Present() {
			nulls++
		}
	}
	return nulls
}

// TwelveMonthAverage computes the mean over the final 12 entries of a
// trend window, ignoring null slots. Absent when no slot carries a
// value.
func TwelveMonthAverage(window []metric.Optional, precision int32) metric.Optional {
	if len(window) < averageSpan {
		return metric.None()
	}
	recent := window[len(window)-averageSpan:]

	sum := decimal.Zero
	count := 0
	for _, slot := range recent {
		if v, ok := slot.Value(); ok {
			sum = sum.Add(decimal.NewFromFloat(v))
			count++
		}
	}
	if count == 0 {
		return metric.None()
	}

	mean := sum.Div(decimal.NewFromInt(int64(count)))
	v, _ := metric.RoundHalfUp(mean, precision).Float64()
	return metric.Some(v)
}

// Delta computes the period-over-period change of a display value
// against the prior published value, rounded at the current metric's
// precision. Unit and precision carry over from the current metric.
func Delta(current, prior metric.Structured) metric.Structured {
	diff := decimal.NewFromFloat(current.DisplayValue).Sub(decimal.NewFromFloat(prior.DisplayValue))
	v, _ := metric.RoundHalfUp(diff, current.Precision).Float64()
	return metric.Structured{
		RawValue:     current.DisplayValue - prior.DisplayValue,
		DisplayValue: v,
		Unit:         current.Unit,
		Scale:        1,
		Precision:    current.Precision,
	}
}
