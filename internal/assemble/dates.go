package assemble

import (
	"fmt"
	"time"

	"statwire/internal/period"
)

// ReleaseRule selects the dataset family's publication calendar.
type ReleaseRule string

const (
	// RuleFirstFriday releases on the first Friday of the month
	// following the reference period (employment family).
	RuleFirstFriday ReleaseRule = "first_friday"
	// RuleDay12 releases on the 12th of the month following the
	// reference period (price-index family).
	RuleDay12 ReleaseRule = "day_12"
)

const dateLayout = "2006-01-02"

// ReleaseDate computes the scheduled publication date for a reference
// period under the dataset's calendar rule.
func ReleaseDate(p period.Period, rule ReleaseRule) (string, error) {
	next := p.AddMonths(1)
	switch rule {
	case RuleFirstFriday:
		return firstFriday(next).Format(dateLayout), nil
	case RuleDay12:
		return time.Date(next.Year, next.Month, 12, 0, 0, 0, 0, time.UTC).Format(dateLayout), nil
	default:
		return "", fmt.Errorf("unknown release rule %q", rule)
	}
}

// NextReleaseDate applies the same rule one month further out.
func NextReleaseDate(p period.Period, rule ReleaseRule) (string, error) {
	return ReleaseDate(p.AddMonths(1), rule)
}

// firstFriday finds the smallest day of the month whose weekday is
// Friday.
func firstFriday(p period.Period) time.Time {
	day := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Friday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
