package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies a calendar year-month. Arithmetic is pure integer
// math with no timezone dependency.
type Period struct {
	Year  int
	Month time.Month
}

// FormatError reports a malformed period string.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("period: malformed year-month %q (want YYYY-MM)", e.Input)
}

// Parse converts a "YYYY-MM" string into a Period. There is no silent
// coercion: any deviation from the format is a FormatError.
func Parse(s string) (Period, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Period{}, &FormatError{Input: s}
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, &FormatError{Input: s}
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, &FormatError{Input: s}
	}

	return Period{Year: year, Month: time.Month(month)}, nil
}

// String renders the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// AddMonths returns the period n months later, handling year rollover
// in both directions (n may be negative).
func (p Period) AddMonths(n int) Period {
	total := p.Year*12 + int(p.Month) - 1 + n
	year := total / 12
	month := total%12 + 1
	if month <= 0 {
		month += 12
		year--
	}
	return Period{Year: year, Month: time.Month(month)}
}

// SubMonths returns the period n months earlier.
func (p Period) SubMonths(n int) Period {
	return p.AddMonths(-n)
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IsZero reports whether p is the zero value.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// MarshalText implements encoding.TextMarshaler so periods serialise
// as "YYYY-MM" in JSON documents and map keys.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
