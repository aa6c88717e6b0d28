// Package worker recomputes debt aggregates when credits change and records
// them as snapshots, optionally exporting every snapshot to Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/amqp"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/sheets"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

// SnapshotWorker turns credit change events into fresh debt snapshots. The
// report writer is optional; without it snapshots stay local.
type SnapshotWorker struct {
	store  storage.Store
	report sheets.ReportWriter
	now    func() time.Time
}

func NewSnapshotWorker(store storage.Store, report sheets.ReportWriter) *SnapshotWorker {
	return &SnapshotWorker{
		store:  store,
		report: report,
		now:    time.Now,
	}
}

// HandleCreditEvent recomputes both views after any credit change. The
// triggering id is only logged; aggregation always re-reads the full set.
func (w *SnapshotWorker) HandleCreditEvent(ctx context.Context, msg *amqp.CreditEventMessage) error {
	slog.InfoContext(ctx, "Processing credit event",
		"credit_id", msg.CreditID,
		"action", msg.Action)

	return w.TakeSnapshots(ctx)
}

// TakeSnapshots aggregates the active credits into one snapshot per view.
// It also runs periodically as a fallback for lost events.
func (w *SnapshotWorker) TakeSnapshots(ctx context.Context) error {
	credits, err := w.store.ListCredits(ctx)
	if err != nil {
		return fmt.Errorf("list credits: %w", err)
	}

	active := make([]core.Credit, 0, len(credits))
	for _, c := range credits {
		if c.Status != core.CreditSettled {
			active = append(active, c)
		}
	}

	asOf := core.DateOf(w.now())
	for _, view := range []engine.View{engine.ViewMonthly, engine.ViewYearly} {
		summary, err := engine.Aggregate(active, asOf, view)
		if err != nil {
			return fmt.Errorf("aggregate %s view: %w", view, err)
		}

		snap := storage.DebtSnapshot{
			View:          string(view),
			TotalMonthly:  summary.TotalMonthly,
			TotalDebt:     summary.TotalDebt,
			AmountPaid:    summary.AmountPaid,
			ActiveCredits: len(active),
			TakenAt:       w.now().UTC(),
		}
		if err := w.store.InsertSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("insert %s snapshot: %w", view, err)
		}

		slog.InfoContext(ctx, "Debt snapshot taken",
			"view", string(view),
			"active_credits", len(active),
			"total_debt_cents", summary.TotalDebt.Cents,
			"amount_paid_cents", summary.AmountPaid.Cents)

		w.export(ctx, snap)
	}

	return nil
}

// export appends the snapshot to the report sheet. Export failures are
// logged, never propagated; the snapshot is already durable locally.
func (w *SnapshotWorker) export(ctx context.Context, snap storage.DebtSnapshot) {
	if w.report == nil {
		return
	}

	row := sheets.ReportRow{
		TakenAt:       snap.TakenAt,
		View:          snap.View,
		TotalMonthly:  snap.TotalMonthly,
		TotalDebt:     snap.TotalDebt,
		AmountPaid:    snap.AmountPaid,
		ActiveCredits: snap.ActiveCredits,
	}
	if err := w.report.AppendDebtRow(ctx, row); err != nil {
		slog.ErrorContext(ctx, "Failed to export debt snapshot",
			"view", snap.View,
			"error", err)
	}
}
