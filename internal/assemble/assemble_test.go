package assemble

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"statwire/internal/editorial"
	"statwire/internal/metric"
	"statwire/internal/period"
	"statwire/internal/snapshot"
)

func mustPeriod(t *testing.T, s string) period.Period {
	t.Helper()
	p, err := period.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return p
}

func TestReleaseDateFirstFriday(t *testing.T) {
	// Reference June 2025: July 2025 begins on a Tuesday, first
	// Friday is the 4th.
	got, err := ReleaseDate(mustPeriod(t, "2025-06"), RuleFirstFriday)
	if err != nil {
		t.Fatalf("release date: %v", err)
	}
	if got != "2025-07-04" {
		t.Fatalf("got %s, want 2025-07-04", got)
	}

	// Reference July 2025: August 1st 2025 is itself a Friday.
	got, err = ReleaseDate(mustPeriod(t, "2025-07"), RuleFirstFriday)
	if err != nil {
		t.Fatalf("release date: %v", err)
	}
	if got != "2025-08-01" {
		t.Fatalf("got %s, want 2025-08-01", got)
	}
}

func TestReleaseDateDay12(t *testing.T) {
	got, err := ReleaseDate(mustPeriod(t, "2025-06"), RuleDay12)
	if err != nil {
		t.Fatalf("release date: %v", err)
	}
	if got != "2025-07-12" {
		t.Fatalf("got %s, want 2025-07-12", got)
	}
}

func TestNextReleaseDateOneMonthFurther(t *testing.T) {
	got, err := NextReleaseDate(mustPeriod(t, "2025-06"), RuleDay12)
	if err != nil {
		t.Fatalf("next release date: %v", err)
	}
	if got != "2025-08-12" {
		t.Fatalf("got %s, want 2025-08-12", got)
	}
}

func TestReleaseDateUnknownRule(t *testing.T) {
	if _, err := ReleaseDate(mustPeriod(t, "2025-06"), "weekly"); err == nil {
		t.Fatal("unknown rule must fail")
	}
}

func TestAppendHistoryIdempotent(t *testing.T) {
	p := mustPeriod(t, "2025-06")
	ledger := AppendHistory(nil, p, "June 2025", zerolog.Nop())
	again := AppendHistory(ledger, p, "June 2025", zerolog.Nop())
	if len(again) != 1 {
		t.Fatalf("duplicate append must be a no-op, got %d entries", len(again))
	}
}

func TestAppendHistoryCapNewestFirst(t *testing.T) {
	var ledger []snapshot.HistoryEntry
	months := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}
	for _, m := range months {
		p := mustPeriod(t, m)
		ledger = AppendHistory(ledger, p, HistoryLabel(p), zerolog.Nop())
	}

	if len(ledger) != 5 {
		t.Fatalf("ledger must cap at 5, got %d", len(ledger))
	}
	if ledger[0].Date.String() != "2025-06" {
		t.Fatalf("newest entry first, got %s", ledger[0].Date)
	}
	if ledger[4].Date.String() != "2025-02" {
		t.Fatalf("oldest retained entry must be 2025-02, got %s", ledger[4].Date)
	}
	for _, entry := range ledger {
		if entry.Date.String() == "2025-01" {
			t.Fatal("2025-01 must have been truncated")
		}
	}
}

func TestHistoryLabel(t *testing.T) {
	if got := HistoryLabel(mustPeriod(t, "2025-06")); got != "June 2025" {
		t.Fatalf("label = %q", got)
	}
}

func testAssembler() *Assembler {
	engine := editorial.NewEngine([]editorial.Template{
		{MetricKey: "unemployment_rate", Kind: editorial.TemplateDual, Subject: "The unemployment rate"},
	}, zerolog.Nop())
	return New(engine, zerolog.Nop())
}

func TestAssembleLockedFieldsComeFromProduction(t *testing.T) {
	asm := testAssembler()
	prod := &snapshot.Document{
		Signal:           editorial.Signal{State: editorial.StateCooling, Pressure: editorial.PressureEasing, Confidence: "medium"},
		Source:           "Bureau of Labor Statistics",
		MethodologyNotes: "Seasonally adjusted.",
		History:          []snapshot.HistoryEntry{{Date: mustPeriod(t, "2025-05"), Label: "May 2025"}},
	}

	doc, err := asm.Assemble(Inputs{
		Label: "Employment Situation",
		Rule:  RuleFirstFriday,
		Normalized: snapshot.Normalized{
			Dataset:         "jobs",
			ReferencePeriod: mustPeriod(t, "2025-06"),
			Metrics: map[string]metric.Structured{
				"unemployment_rate": {DisplayValue: 4.1, Unit: metric.UnitPercent, Precision: 1},
			},
		},
		Production: prod,
		Defaults:   Locked{Source: "should not be used"},
		Headline:   "Labor market steady in June",
		Editorial:  "Hiring held close to its recent pace.",
		Now:        time.Date(2025, 7, 4, 8, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if doc.Source != prod.Source || doc.MethodologyNotes != prod.MethodologyNotes {
		t.Fatalf("locked fields must come from production: %+v", doc)
	}
	if doc.Context != prod.Signal.Sentence() {
		t.Fatalf("context must be the signal sentence, got %q", doc.Context)
	}
	if doc.ReleaseDate != "2025-07-04" {
		t.Fatalf("release date = %s", doc.ReleaseDate)
	}
	if len(doc.History) != 2 || doc.History[0].Date.String() != "2025-06" {
		t.Fatalf("history not updated: %+v", doc.History)
	}
}

func TestAssembleDefaultsWhenNoProduction(t *testing.T) {
	asm := testAssembler()
	defaults := Locked{
		Signal: editorial.Signal{State: editorial.StateStable, Pressure: editorial.PressureBalanced, Confidence: "low"},
		Source: "Bureau of Labor Statistics",
	}

	doc, err := asm.Assemble(Inputs{
		Label: "Employment Situation",
		Rule:  RuleFirstFriday,
		Normalized: snapshot.Normalized{
			Dataset:         "jobs",
			ReferencePeriod: mustPeriod(t, "2025-06"),
		},
		Defaults: defaults,
		Now:      time.Now(),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if doc.Source != defaults.Source {
		t.Fatalf("defaults must seed locked fields: %q", doc.Source)
	}
	if doc.Context != defaults.Signal.Sentence() {
		t.Fatalf("context mismatch: %q", doc.Context)
	}
	if doc.Summary != editorial.FallbackSentence {
		t.Fatalf("empty metrics must yield the fallback sentence, got %q", doc.Summary)
	}
	if len(doc.History) != 1 {
		t.Fatalf("history must gain the first entry: %+v", doc.History)
	}
}
