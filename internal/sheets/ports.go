// Package sheets defines the outbound report port implemented by the Google
// Sheets adapter.
package sheets

import (
	"context"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

// ReportRow is one exported line of the household debt report.
type ReportRow struct {
	TakenAt       time.Time
	View          string
	TotalMonthly  core.Money
	TotalDebt     core.Money
	AmountPaid    core.Money
	ActiveCredits int
}

// ReportWriter appends debt report rows to an external document.
type ReportWriter interface {
	AppendDebtRow(ctx context.Context, row ReportRow) error
}
