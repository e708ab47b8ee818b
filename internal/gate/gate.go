package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"statwire/internal/period"
	"statwire/internal/snapshot"
)

// Verdict statuses shared by the deterministic gate and the optional
// external audit.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// AuditVerdict is the response contract of the external
// numeric-consistency audit.
type AuditVerdict struct {
	Status string   `json:"status"`
	Reason string   `json:"reason"`
	Flags  []string `json:"flags,omitempty"`
}

// Auditor is the narrow contract for the optional external text
// audit. A nil Auditor means the gate decides on deterministic checks
// alone and records that the richer check was skipped.
type Auditor interface {
	Audit(ctx context.Context, doc snapshot.Document) (AuditVerdict, error)
}

// Finding is one itemized gate result.
type Finding struct {
	Check   string `json:"check"`
	Field   string `json:"field,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Count   int    `json:"count,omitempty"`
	Detail  string `json:"detail"`
}

// Report is the persisted review outcome, written pass or fail.
type Report struct {
	Dataset         string        `json:"dataset"`
	ReferencePeriod period.Period `json:"reference_period"`
	Status          string        `json:"status"`
	ReviewedAt      time.Time     `json:"reviewed_at"`
	Failures        []Finding     `json:"failures,omitempty"`
	Warnings        []Finding     `json:"warnings,omitempty"`
	AIAuditSkipped  bool          `json:"ai_audit_skipped"`
	AIVerdict       *AuditVerdict `json:"ai_verdict,omitempty"`
}

// Passed reports whether the candidate may be promoted.
func (r Report) Passed() bool {
	return r.Status == StatusPass
}

// Gate runs the deterministic pre-checks and, when available, the
// external consistency audit. All deterministic checks are hard,
// exact fails with no AI override.
type Gate struct {
	auditor Auditor
	logger  zerolog.Logger
}

// New constructs a Gate. auditor may be nil.
func New(auditor Auditor, logger zerolog.Logger) *Gate {
	return &Gate{auditor: auditor, logger: logger.With().Str("component", "gate").Logger()}
}

// Review checks a candidate document. The returned error covers only
// audit-transport failures (malformed response, timeout); a failing
// document is reported through Report.Status, never as an error.
func (g *Gate) Review(ctx context.Context, doc snapshot.Document) (Report, error) {
	report := Report{
		Dataset:         doc.Dataset,
		ReferencePeriod: doc.ReferencePeriod,
		ReviewedAt:      time.Now().UTC(),
	}

	report.Failures = append(report.Failures, checkSignalSentence(doc)...)
	report.Failures = append(report.Failures, scanForbiddenPhrases(doc)...)

	hard, soft := lintPatterns(doc)
	report.Failures = append(report.Failures, hard...)
	report.Warnings = append(report.Warnings, soft...)

	if len(report.Failures) > 0 {
		report.Status = StatusFail
		g.logger.Warn().
			Str("dataset", doc.Dataset).
			Str("period", doc.ReferencePeriod.String()).
			Int("failures", len(report.Failures)).
			Msg("candidate failed deterministic checks")
		return report, nil
	}

	if g.auditor == nil {
		report.AIAuditSkipped = true
		report.Status = StatusPass
		g.logger.Info().Str("dataset", doc.Dataset).Msg("no auditor configured; passing on deterministic checks alone")
		return report, nil
	}

	verdict, err := g.auditor.Audit(ctx, doc)
	if err != nil {
		return report, fmt.Errorf("consistency audit: %w", err)
	}
	report.AIVerdict = &verdict
	if verdict.Status != StatusPass {
		report.Status = StatusFail
		report.Failures = append(report.Failures, Finding{
			Check:  "numeric_consistency",
			Detail: verdict.Reason,
		})
		return report, nil
	}

	report.Status = StatusPass
	return report, nil
}

// checkSignalSentence requires the context field to equal the one
// true signal sentence byte for byte.
func checkSignalSentence(doc snapshot.Document) []Finding {
	expected := doc.Signal.Sentence()
	if doc.Context == expected {
		return nil
	}
	return []Finding{{
		Check:  "signal_sentence",
		Field:  "context",
		Detail: fmt.Sprintf("expected %q, actual %q", expected, doc.Context),
	}}
}
