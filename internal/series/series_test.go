package series

import (
	"errors"
	"testing"

	"statwire/internal/period"
)

func TestBuildExcludesAnnualEntries(t *testing.T) {
	lookup, err := Build("CUSR0000SA0", []Observation{
		{Year: 2025, PeriodCode: "M06", Value: 321.5},
		{Year: 2025, PeriodCode: "M13", Value: 319.0},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(lookup) != 1 {
		t.Fatalf("expected one entry, got %d", len(lookup))
	}
	if _, ok := lookup["2025-13"]; ok {
		t.Fatal("annual entry must not be keyed")
	}
	v, ok := lookup["2025-06"]
	if !ok || v != 321.5 {
		t.Fatalf("monthly entry missing or wrong: %v %v", v, ok)
	}
}

func TestBuildConflictingDuplicateFails(t *testing.T) {
	_, err := Build("LNS14000000", []Observation{
		{Year: 2025, PeriodCode: "M03", Value: 4.1},
		{Year: 2025, PeriodCode: "M03", Value: 4.2},
	})
	if err == nil {
		t.Fatal("conflicting duplicate must fail")
	}
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError, got %T", err)
	}
	if ie.Month != "2025-03" {
		t.Fatalf("wrong month in error: %s", ie.Month)
	}
}

func TestBuildExactRepeatTolerated(t *testing.T) {
	lookup, err := Build("LNS14000000", []Observation{
		{Year: 2025, PeriodCode: "M03", Value: 4.1},
		{Year: 2025, PeriodCode: "M03", Value: 4.1},
	})
	if err != nil {
		t.Fatalf("exact repeat should be tolerated: %v", err)
	}
	if len(lookup) != 1 {
		t.Fatalf("expected one entry, got %d", len(lookup))
	}
}

func TestBuildRejectsUnknownCode(t *testing.T) {
	_, err := Build("X", []Observation{{Year: 2025, PeriodCode: "Q01", Value: 1}})
	if err == nil {
		t.Fatal("unknown period code must fail")
	}
}

func TestLatest(t *testing.T) {
	lookup, err := Build("X", []Observation{
		{Year: 2024, PeriodCode: "M12", Value: 1},
		{Year: 2025, PeriodCode: "M01", Value: 2},
		{Year: 2024, PeriodCode: "M11", Value: 3},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	latest, ok := lookup.Latest()
	if !ok || latest.String() != "2025-01" {
		t.Fatalf("latest = %v %v, want 2025-01", latest, ok)
	}
	if _, ok := lookup.Value(period.Period{Year: 2024, Month: 12}); !ok {
		t.Fatal("value lookup by period failed")
	}
}
