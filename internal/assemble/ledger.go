package assemble

import (
	"fmt"

	"github.com/rs/zerolog"

	"statwire/internal/period"
	"statwire/internal/snapshot"
)

// ledgerCap is the maximum number of prior releases retained,
// newest first.
const ledgerCap = 5

// AppendHistory prepends a release to the ledger. Appending a period
// already present is an idempotent no-op; the result never holds
// duplicate dates and never exceeds the cap.
func AppendHistory(ledger []snapshot.HistoryEntry, p period.Period, label string, logger zerolog.Logger) []snapshot.HistoryEntry {
	for _, entry := range ledger {
		if entry.Date == p {
			logger.Debug().Str("period", p.String()).Msg("period already in history ledger; skipping")
			return ledger
		}
	}

	updated := append([]snapshot.HistoryEntry{{Date: p, Label: label}}, ledger...)
	if len(updated) > ledgerCap {
		updated = updated[:ledgerCap]
	}
	return updated
}

// HistoryLabel renders the human label for a reference period, e.g.
// "June 2025".
func HistoryLabel(p period.Period) string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}
