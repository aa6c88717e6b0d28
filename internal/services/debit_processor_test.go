package services

import (
	"context"
	"testing"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage/memory"
)

func seedCharges(t *testing.T, charges ...core.RecurringCharge) *memory.Store {
	t.Helper()
	store := memory.New()
	for _, rc := range charges {
		if err := store.CreateCharge(context.Background(), rc); err != nil {
			t.Fatalf("seed charge %s: %v", rc.ID, err)
		}
	}
	return store
}

func TestProcessDueCharges(t *testing.T) {
	rent := core.RecurringCharge{ID: "ch-rent", Name: "Loyer", Amount: core.Money{Cents: 85000}, Periodicity: core.Monthly, DebitDay: 5}
	water := core.RecurringCharge{ID: "ch-water", Name: "Eau", Amount: core.Money{Cents: 9000}, Periodicity: core.Quarterly, DebitDay: 5, DebitMonth: 1}
	tax := core.RecurringCharge{ID: "ch-tax", Name: "Taxe foncière", Amount: core.Money{Cents: 120000}, Periodicity: core.Yearly, DebitDay: 15, DebitMonth: 10}

	tests := []struct {
		name    string
		now     time.Time
		wantIDs []string
	}{
		{
			"monthly and quarterly align in an anchor month",
			time.Date(2025, 4, 5, 8, 0, 0, 0, time.UTC),
			[]string{"ch-water", "ch-rent"},
		},
		{
			"monthly only outside the quarter cycle",
			time.Date(2025, 5, 5, 8, 0, 0, 0, time.UTC),
			[]string{"ch-rent"},
		},
		{
			"yearly fires in its month",
			time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC),
			[]string{"ch-tax"},
		},
		{
			"nothing due",
			time.Date(2025, 10, 16, 8, 0, 0, 0, time.UTC),
			nil,
		},
	}

	store := seedCharges(t, rent, water, tax)
	p := NewDebitProcessor(store)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, err := p.ProcessDueCharges(context.Background(), tt.now)
			if err != nil {
				t.Fatalf("ProcessDueCharges: %v", err)
			}
			if len(due) != len(tt.wantIDs) {
				t.Fatalf("due = %d charges, want %d", len(due), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if due[i].Charge.ID != id {
					t.Errorf("due[%d] = %s, want %s", i, due[i].Charge.ID, id)
				}
			}
		})
	}
}

func TestProcessDueCharges_WritesLedgerOnce(t *testing.T) {
	rc := core.RecurringCharge{ID: "ch-rent", Name: "Loyer", Amount: core.Money{Cents: 85000}, Periodicity: core.Monthly, DebitDay: 5}
	store := seedCharges(t, rc)
	p := NewDebitProcessor(store)

	now := time.Date(2025, 4, 5, 8, 0, 0, 0, time.UTC)
	due, err := p.ProcessDueCharges(context.Background(), now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("first run: due = %d charges, want 1", len(due))
	}

	// A rerun on the same day must not duplicate the entry.
	due, err = p.ProcessDueCharges(context.Background(), now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("rerun: due = %d charges, want 0", len(due))
	}

	day := core.NewDate(2025, 4, 5)
	entries, err := store.ListLedgerEntries(context.Background(), day, day)
	if err != nil {
		t.Fatalf("ListLedgerEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ChargeID != "ch-rent" || e.Amount.Cents != 85000 || !e.DebitedOn.Equal(day) {
		t.Errorf("entry = %+v, want ch-rent for 85000 cents on %s", e, day.Format("2006-01-02"))
	}
	if e.Description != "le 5 de chaque mois" {
		t.Errorf("description = %q", e.Description)
	}
}

func TestProcessDueCharges_ShortMonthClamp(t *testing.T) {
	rc := core.RecurringCharge{ID: "ch-sub", Name: "Abonnement", Amount: core.Money{Cents: 1500}, Periodicity: core.Monthly, DebitDay: 31}
	store := seedCharges(t, rc)
	p := NewDebitProcessor(store)

	// February 2025 has 28 days; the day-31 debit lands on the 28th.
	due, err := p.ProcessDueCharges(context.Background(), time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDueCharges: %v", err)
	}
	if len(due) != 1 || due[0].Charge.ID != "ch-sub" {
		t.Errorf("due = %+v, want the clamped charge", due)
	}
}

func TestProcessDueCharges_SkipsUnresolvableCharge(t *testing.T) {
	bad := core.RecurringCharge{ID: "ch-bad", Name: "Cassé", Amount: core.Money{Cents: 100}, Periodicity: core.Yearly, DebitDay: 5}
	good := core.RecurringCharge{ID: "ch-good", Name: "Loyer", Amount: core.Money{Cents: 85000}, Periodicity: core.Monthly, DebitDay: 5}
	store := seedCharges(t, bad, good)
	p := NewDebitProcessor(store)

	due, err := p.ProcessDueCharges(context.Background(), time.Date(2025, 4, 5, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDueCharges: %v", err)
	}
	if len(due) != 1 || due[0].Charge.ID != "ch-good" {
		t.Errorf("due = %+v, want only the resolvable charge", due)
	}
}
