// Package engine implements the recurring financial obligation calculations:
// payment schedules for flat-rate credits, early settlement resolution, debt
// aggregation, recurring debit resolution, and contributor cost allocation.
//
// Every function is a pure transformation of in-memory records and an
// injected reference date; the package performs no I/O and holds no state.
package engine

import (
	"fmt"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

// ScheduleResult is the derived payment projection for a single credit as of
// a reference date. It is never persisted.
type ScheduleResult struct {
	TotalInstallments     int        `json:"total_installments"`
	CompletedInstallments int        `json:"completed_installments"`
	ProgressPercent       float64    `json:"progress_percent"`
	AmountPaid            core.Money `json:"amount_paid"`
	AmountRemaining       core.Money `json:"amount_remaining"`
	TotalAmount           core.Money `json:"total_amount"`
}

type scheduleOptions struct {
	progressOverride *float64
}

// ScheduleOption adjusts how a schedule is computed.
type ScheduleOption func(*scheduleOptions)

// WithProgressOverride replaces the computed progress percentage with a
// fixed value, clamped to [0, 100]. Callers use it to force 100% on credits
// they already know are settled, regardless of date math.
func WithProgressOverride(percent float64) ScheduleOption {
	return func(o *scheduleOptions) {
		o.progressOverride = &percent
	}
}

// Schedule computes the installment schedule of a credit as of the given
// date. Installments are counted day-exactly: a payment due on the 31st is
// not considered paid on the 30th of a later month.
//
// A credit with a non-positive monthly amount or with its first payment date
// after its last is rejected with core.ErrInvalidCredit.
func Schedule(c core.Credit, asOf core.Date, opts ...ScheduleOption) (ScheduleResult, error) {
	if c.MonthlyAmount.Cents <= 0 {
		return ScheduleResult{}, fmt.Errorf("credit %s: monthly amount must be positive: %w", c.ID, core.ErrInvalidCredit)
	}
	if c.FirstPaymentDate.After(c.LastPaymentDate) {
		return ScheduleResult{}, fmt.Errorf("credit %s: first payment date after last payment date: %w", c.ID, core.ErrInvalidCredit)
	}

	var o scheduleOptions
	for _, opt := range opts {
		opt(&o)
	}

	total := MonthsBetween(c.FirstPaymentDate, c.LastPaymentDate) + 1
	if total < 1 {
		// A credit ending before it starts still carries one installment.
		total = 1
	}

	completed := 0
	if !asOf.Before(c.FirstPaymentDate) {
		for i := 0; i < total; i++ {
			due := AddMonths(c.FirstPaymentDate, i)
			if due.After(asOf) {
				break
			}
			completed++
		}
	}
	if completed > total {
		completed = total
	}

	progress := float64(completed) / float64(total) * 100
	if o.progressOverride != nil {
		progress = *o.progressOverride
	}
	progress = clampPercent(progress)

	totalAmount := c.MonthlyAmount.MulInt(total)
	paid := c.MonthlyAmount.MulInt(completed)

	return ScheduleResult{
		TotalInstallments:     total,
		CompletedInstallments: completed,
		ProgressPercent:       progress,
		AmountPaid:            paid,
		AmountRemaining:       totalAmount.Sub(paid),
		TotalAmount:           totalAmount,
	}, nil
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
