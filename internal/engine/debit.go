package engine

import (
	"fmt"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

// frenchMonths maps 1..12 to the month names shown to the household.
var frenchMonths = [13]string{
	"",
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// DebitInfo describes the standing debit of a recurring charge: a
// human-readable description and a canonical key for sorting charges of the
// same cadence.
type DebitInfo struct {
	Description string `json:"description"`
	SortKey     int    `json:"sort_key"`
}

// ResolveDebit derives the debit description and sort key for a recurring
// charge. Quarterly and yearly charges must carry a debit month; its absence
// is rejected with core.ErrMissingDebitMonth naming the offending id. The
// function never mutates dates and is idempotent.
func ResolveDebit(rc core.RecurringCharge) (DebitInfo, error) {
	switch rc.Periodicity {
	case core.Monthly:
		return DebitInfo{
			Description: fmt.Sprintf("le %d de chaque mois", rc.DebitDay),
			SortKey:     rc.DebitDay,
		}, nil
	case core.Quarterly, core.Yearly:
		if rc.DebitMonth < 1 || rc.DebitMonth > 12 {
			return DebitInfo{}, fmt.Errorf("charge %s: %w", rc.ID, core.ErrMissingDebitMonth)
		}
		cadence := "chaque trimestre"
		if rc.Periodicity == core.Yearly {
			cadence = "chaque année"
		}
		return DebitInfo{
			Description: fmt.Sprintf("%s, le %d %s", cadence, rc.DebitDay, frenchMonths[rc.DebitMonth]),
			SortKey:     rc.DebitMonth*100 + rc.DebitDay,
		}, nil
	default:
		return DebitInfo{}, fmt.Errorf("charge %s: unknown periodicity %q: %w", rc.ID, rc.Periodicity, core.ErrInvalidPeriod)
	}
}
