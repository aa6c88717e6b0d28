package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

// DueCharge is a recurring charge whose debit falls on the processing date.
type DueCharge struct {
	Charge core.RecurringCharge `json:"charge"`
	Debit  engine.DebitInfo     `json:"debit"`
}

// DebitStore is the storage surface the processor needs: the charges to
// scan and the ledger to materialize them into.
type DebitStore interface {
	storage.ChargeStore
	storage.LedgerStore
}

// DebitProcessor scans the recurring charges once a day and materializes
// the ones debiting that day into the ledger.
type DebitProcessor struct {
	store DebitStore
}

func NewDebitProcessor(store DebitStore) *DebitProcessor {
	return &DebitProcessor{store: store}
}

// ProcessDueCharges writes one ledger entry per charge debiting on the given
// day and returns the due charges. Reruns on the same day are no-ops thanks
// to the per-charge-per-day ledger uniqueness. Charges that fail debit
// resolution are logged and skipped so one bad record never blocks the rest
// of the batch.
func (p *DebitProcessor) ProcessDueCharges(ctx context.Context, now time.Time) ([]DueCharge, error) {
	if p.store == nil {
		return nil, fmt.Errorf("processor not properly initialized")
	}

	charges, err := p.store.ListCharges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring charges: %w", err)
	}

	today := core.DateOf(now)
	slog.InfoContext(ctx, "Processing recurring charges",
		"total", len(charges),
		"processing_date", today.Format("2006-01-02"))

	var due []DueCharge
	for _, rc := range charges {
		info, err := engine.ResolveDebit(rc)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to resolve debit",
				"id", rc.ID,
				"name", rc.Name,
				"error", err)
			continue
		}

		if !isDueOn(rc, today) {
			continue
		}

		entry := storage.LedgerEntry{
			ID:          uuid.NewString(),
			ChargeID:    rc.ID,
			Name:        rc.Name,
			Amount:      rc.Amount,
			Description: info.Description,
			DebitedOn:   today,
			CreatedAt:   now.UTC(),
		}
		switch err := p.store.InsertLedgerEntry(ctx, entry); {
		case errors.Is(err, storage.ErrConflict):
			slog.InfoContext(ctx, "Charge already materialized today",
				"id", rc.ID,
				"name", rc.Name)
			continue
		case err != nil:
			return nil, fmt.Errorf("insert ledger entry for %s: %w", rc.ID, err)
		}

		due = append(due, DueCharge{Charge: rc, Debit: info})
		slog.InfoContext(ctx, "Recurring charge debits today",
			"id", rc.ID,
			"name", rc.Name,
			"amount_cents", rc.Amount.Cents,
			"debit", info.Description)
	}

	slog.InfoContext(ctx, "Recurring charge processing complete",
		"due", len(due),
		"total_checked", len(charges))

	return due, nil
}

// isDueOn reports whether the charge debits on the given day. A debit day
// past the end of a short month lands on its last day.
func isDueOn(rc core.RecurringCharge, today core.Date) bool {
	day := rc.DebitDay
	if last := daysIn(today); day > last {
		day = last
	}
	if today.Day() != day {
		return false
	}

	switch rc.Periodicity {
	case core.Monthly:
		return true
	case core.Quarterly:
		// The debit month anchors a three month cycle.
		return ((today.Month()-rc.DebitMonth)%3+3)%3 == 0
	case core.Yearly:
		return today.Month() == rc.DebitMonth
	default:
		return false
	}
}

func daysIn(d core.Date) int {
	return time.Date(d.Year(), time.Month(d.Month())+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
