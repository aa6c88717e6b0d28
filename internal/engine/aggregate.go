package engine

import (
	"fmt"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

const (
	ViewMonthly View = "monthly"
	ViewYearly  View = "yearly"
)

// View selects how the recurring obligation total is projected.
type View string

// DebtSummary folds a set of active credits into a single aggregate figure.
type DebtSummary struct {
	// TotalMonthly is the monthly obligation sum. In the yearly view each
	// credit contributes its monthly amount times the months it still runs
	// within the current calendar year.
	TotalMonthly core.Money `json:"total_monthly"`
	// TotalDebt is the principal-equivalent sum over all credits,
	// independent of view.
	TotalDebt core.Money `json:"total_debt"`
	// AmountPaid sums installments already paid; credits that have not
	// started yet contribute nothing.
	AmountPaid core.Money `json:"amount_paid"`
}

// Aggregate folds the given credits into a DebtSummary as of the reference
// date. Credits are visited in input order so identical input yields
// identical output. A credit with a non-positive monthly amount is rejected
// with core.ErrInvalidCredit naming the offending id.
func Aggregate(credits []core.Credit, asOf core.Date, view View) (DebtSummary, error) {
	if view != ViewMonthly && view != ViewYearly {
		return DebtSummary{}, fmt.Errorf("unknown aggregation view: %s", view)
	}

	var sum DebtSummary
	for _, c := range credits {
		sched, err := Schedule(c, asOf)
		if err != nil {
			return DebtSummary{}, fmt.Errorf("aggregate: %w", err)
		}

		switch view {
		case ViewMonthly:
			sum.TotalMonthly = sum.TotalMonthly.Add(c.MonthlyAmount)
		case ViewYearly:
			sum.TotalMonthly = sum.TotalMonthly.Add(c.MonthlyAmount.MulInt(monthsWithinYear(c, asOf)))
		}

		sum.TotalDebt = sum.TotalDebt.Add(sched.TotalAmount)
		sum.AmountPaid = sum.AmountPaid.Add(sched.AmountPaid)
	}
	return sum, nil
}

// monthsWithinYear counts the months a credit still runs inside the current
// calendar year, from the asOf month (inclusive) up to its last payment or
// year-end, whichever comes first.
func monthsWithinYear(c core.Credit, asOf core.Date) int {
	remainingInYear := 12 - asOf.Month() + 1

	switch {
	case c.LastPaymentDate.Year() < asOf.Year():
		return 0
	case c.LastPaymentDate.Year() > asOf.Year():
		return remainingInYear
	default:
		months := c.LastPaymentDate.Month() - asOf.Month() + 1
		if months < 0 {
			return 0
		}
		if months > remainingInYear {
			return remainingInYear
		}
		return months
	}
}
