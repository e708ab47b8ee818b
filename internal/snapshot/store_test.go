package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"statwire/internal/metric"
	"statwire/internal/period"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), zerolog.Nop())
}

func mustPeriod(t *testing.T, s string) period.Period {
	t.Helper()
	p, err := period.Parse(s)
	if err != nil {
		t.Fatalf("parse period %q: %v", s, err)
	}
	return p
}

func TestWriteNormalizedIsWriteOnce(t *testing.T) {
	store := testStore(t)
	n := Normalized{
		Dataset:         "cpi",
		ReferencePeriod: mustPeriod(t, "2025-06"),
		FetchedAt:       time.Now().UTC(),
		Metrics:         map[string]metric.Structured{"cpi_yoy": {DisplayValue: 3.6, Unit: metric.UnitPercent, Precision: 1}},
	}

	if err := store.WriteNormalized(n); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	err := store.WriteNormalized(n)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("second write must return ErrExists, got %v", err)
	}

	back, err := store.ReadNormalized("cpi", n.ReferencePeriod)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if back.Metrics["cpi_yoy"].DisplayValue != 3.6 {
		t.Fatalf("round trip mismatch: %+v", back.Metrics)
	}
}

func TestReadNormalizedMissingIsNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.ReadNormalized("cpi", mustPeriod(t, "2020-01"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestNormalizedPeriod(t *testing.T) {
	store := testStore(t)
	for _, s := range []string{"2025-04", "2025-06", "2025-05"} {
		n := Normalized{Dataset: "jobs", ReferencePeriod: mustPeriod(t, s)}
		if err := store.WriteNormalized(n); err != nil {
			t.Fatalf("write %s: %v", s, err)
		}
	}
	latest, ok, err := store.LatestNormalizedPeriod("jobs")
	if err != nil || !ok {
		t.Fatalf("latest failed: %v %v", ok, err)
	}
	if latest.String() != "2025-06" {
		t.Fatalf("latest = %s, want 2025-06", latest)
	}
}

func TestLatestPeriodEmptyTree(t *testing.T) {
	store := testStore(t)
	_, ok, err := store.LatestNormalizedPeriod("nothing")
	if err != nil {
		t.Fatalf("empty tree must not error: %v", err)
	}
	if ok {
		t.Fatal("empty tree must report no period")
	}
}

func TestPromoteIsAtomicSwap(t *testing.T) {
	store := testStore(t)
	doc := Document{
		Dataset:         "jobs",
		ReferencePeriod: mustPeriod(t, "2025-06"),
		Headline:        "Payrolls rise in June",
	}
	if err := store.WriteCandidate(doc); err != nil {
		t.Fatalf("write candidate: %v", err)
	}

	if err := store.Promote("jobs"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	// Candidate is consumed, production carries the exact content.
	if _, err := store.ReadCandidate("jobs"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("candidate must be gone after promotion, got %v", err)
	}
	prod, ok, err := store.ReadProduction("jobs")
	if err != nil || !ok {
		t.Fatalf("read production: %v %v", ok, err)
	}
	if prod.Headline != doc.Headline {
		t.Fatalf("production content mismatch: %q", prod.Headline)
	}
}

func TestPromoteWithoutCandidateFails(t *testing.T) {
	store := testStore(t)
	if err := store.Promote("jobs"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFailedGateLeavesCandidateUntouched(t *testing.T) {
	store := testStore(t)
	doc := Document{Dataset: "jobs", ReferencePeriod: mustPeriod(t, "2025-06")}
	if err := store.WriteCandidate(doc); err != nil {
		t.Fatalf("write candidate: %v", err)
	}
	// A review run that does not promote leaves the candidate file
	// in place for manual remediation.
	if _, err := store.ReadCandidate("jobs"); err != nil {
		t.Fatalf("candidate must remain readable: %v", err)
	}
	if _, ok, _ := store.ReadProduction("jobs"); ok {
		t.Fatal("production must be absent without promotion")
	}
}

func TestWriteJSONLeavesNoTempFiles(t *testing.T) {
	store := testStore(t)
	doc := Document{Dataset: "jobs", ReferencePeriod: mustPeriod(t, "2025-06")}
	if err := store.WriteCandidate(doc); err != nil {
		t.Fatalf("write candidate: %v", err)
	}

	dir := filepath.Join(store.root, "jobs")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "candidate.json" {
			t.Fatalf("unexpected leftover file %s", entry.Name())
		}
	}
}

func TestWriteAuditReportOverwrites(t *testing.T) {
	store := testStore(t)
	p := mustPeriod(t, "2025-06")
	if err := store.WriteAuditReport("jobs", p, map[string]string{"status": "FAIL"}); err != nil {
		t.Fatalf("first report: %v", err)
	}
	if err := store.WriteAuditReport("jobs", p, map[string]string{"status": "PASS"}); err != nil {
		t.Fatalf("second report must overwrite: %v", err)
	}
}
