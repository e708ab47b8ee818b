package draft

import (
	"testing"

	"statwire/internal/editorial"
	"statwire/internal/gate"
	"statwire/internal/metric"
	"statwire/internal/period"
	"statwire/internal/snapshot"
)

func TestBuildContextSeparatesPools(t *testing.T) {
	p, _ := period.Parse("2025-06")
	n := snapshot.Normalized{
		Dataset:         "jobs",
		ReferencePeriod: p,
		Metrics: map[string]metric.Structured{
			"unemployment_rate": {DisplayValue: 4.1},
		},
		Deltas: map[string]metric.Structured{
			"unemployment_rate": {DisplayValue: -0.1},
		},
		Comparisons: snapshot.Comparisons{
			TwelveMonthAverage: map[string]float64{"unemployment_rate": 4.0},
		},
	}

	dc := BuildContext("Employment Situation", n, editorial.Signal{State: editorial.StateStable, Pressure: editorial.PressureBalanced})
	if dc.Levels["unemployment_rate"] != 4.1 {
		t.Fatalf("level pool wrong: %+v", dc.Levels)
	}
	if dc.Deltas["unemployment_rate"] != -0.1 {
		t.Fatalf("delta pool wrong: %+v", dc.Deltas)
	}
	if dc.TwelveMonthAverages["unemployment_rate"] != 4.0 {
		t.Fatalf("average pool wrong: %+v", dc.TwelveMonthAverages)
	}
	if dc.ReferencePeriod != "2025-06" {
		t.Fatalf("reference period wrong: %s", dc.ReferencePeriod)
	}
}

func TestParseDraftPlainJSON(t *testing.T) {
	d, err := parseDraft(`{"headline": "Payrolls rise in June", "editorial": "Employers added workers."}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Headline == "" || d.Editorial == "" {
		t.Fatalf("fields missing: %+v", d)
	}
}

func TestParseDraftRepairsFencedJSON(t *testing.T) {
	raw := "```json\n{\"headline\": \"Payrolls rise\", \"editorial\": \"Hiring held firm.\"}\n```"
	d, err := parseDraft(raw)
	if err != nil {
		t.Fatalf("fenced JSON should be repaired: %v", err)
	}
	if d.Headline != "Payrolls rise" {
		t.Fatalf("unexpected headline: %q", d.Headline)
	}
}

func TestParseDraftMissingFieldsRejected(t *testing.T) {
	if _, err := parseDraft(`{"headline": "only a headline"}`); err == nil {
		t.Fatal("draft without editorial must be rejected")
	}
}

func TestParseVerdictStatuses(t *testing.T) {
	v, err := parseVerdict(`{"status": "FAIL", "reason": "147 not in any pool", "flags": ["147"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.Status != gate.StatusFail || len(v.Flags) != 1 {
		t.Fatalf("verdict wrong: %+v", v)
	}

	if _, err := parseVerdict(`{"status": "MAYBE"}`); err == nil {
		t.Fatal("unknown status must be treated as malformed")
	}
}
