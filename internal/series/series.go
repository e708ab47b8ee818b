package series

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"statwire/internal/period"
)

// Annual-average entries carry this code and are always excluded from
// monthly lookups.
const annualPeriodCode = "M13"

// Observation is one raw entry of a statistics time series payload.
type Observation struct {
	Year       int     `json:"year"`
	PeriodCode string  `json:"period"`
	Value      float64 `json:"value"`
}

// IntegrityError reports the same month appearing twice with
// conflicting values in one series payload.
type IntegrityError struct {
	SeriesID string
	Month    string
	First    float64
	Second   float64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("series %s: month %s appears twice with conflicting values (%g vs %g)",
		e.SeriesID, e.Month, e.First, e.Second)
}

// Lookup maps "YYYY-MM" keys to raw observed values for one series.
type Lookup map[string]float64

// Build converts a raw series payload into a month-keyed lookup.
// Annual aggregate entries (M13) are dropped. A month appearing twice
// with different values is a data-integrity failure; an exact repeat
// is tolerated.
func Build(seriesID string, observations []Observation) (Lookup, error) {
	lookup := make(Lookup, len(observations))

	for _, obs := range observations {
		if obs.PeriodCode == annualPeriodCode {
			continue
		}

		month, err := monthFromCode(obs.PeriodCode)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", seriesID, err)
		}

		key := period.Period{Year: obs.Year, Month: month}.String()
		if existing, ok := lookup[key]; ok {
			if existing != obs.Value {
				return nil, &IntegrityError{SeriesID: seriesID, Month: key, First: existing, Second: obs.Value}
			}
			continue
		}
		lookup[key] = obs.Value
	}

	return lookup, nil
}

// Value returns the observation for the given period, if present.
func (l Lookup) Value(p period.Period) (float64, bool) {
	v, ok := l[p.String()]
	return v, ok
}

// Latest returns the most recent period present in the lookup.
func (l Lookup) Latest() (period.Period, bool) {
	var latest period.Period
	found := false
	for key := range l {
		p, err := period.Parse(key)
		if err != nil {
			continue
		}
		if !found || latest.Before(p) {
			latest = p
			found = true
		}
	}
	return latest, found
}

func monthFromCode(code string) (time.Month, error) {
	if !strings.HasPrefix(code, "M") || len(code) != 3 {
		return 0, fmt.Errorf("unrecognised period code %q", code)
	}
	n, err := strconv.Atoi(code[1:])
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("unrecognised period code %q", code)
	}
	return time.Month(n), nil
}
