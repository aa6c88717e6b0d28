package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage/memory"
)

type recordedEvent struct {
	creditID string
	action   string
}

type fakePublisher struct {
	events []recordedEvent
	err    error
}

func (p *fakePublisher) PublishCreditEvent(_ context.Context, creditID, action string) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{creditID, action})
	return nil
}

func newTestService(pub *fakePublisher) (*CreditService, *memory.Store) {
	store := memory.New()
	svc := NewCreditService(store, pub)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func TestCreateCredit_DerivesLastPaymentDate(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(pub)

	c, err := svc.CreateCredit(context.Background(), CreateCreditInput{
		Name:             "Voiture",
		MonthlyAmount:    core.Money{Cents: 25000},
		FirstPaymentDate: core.NewDate(2025, 7, 5),
		Months:           24,
	})
	if err != nil {
		t.Fatalf("CreateCredit: %v", err)
	}

	// 24 installments starting 2025-07-05 end on 2027-06-05.
	want := core.NewDate(2027, 6, 5)
	if !c.LastPaymentDate.Equal(want) {
		t.Errorf("LastPaymentDate = %v, want %v", c.LastPaymentDate, want)
	}
	if c.ID == "" {
		t.Error("ID should be assigned")
	}
	if c.Status != core.CreditActive {
		t.Errorf("Status = %q, want active", c.Status)
	}

	if len(pub.events) != 1 || pub.events[0].action != "created" {
		t.Errorf("events = %+v, want one created event", pub.events)
	}
}

func TestCreateCredit_BumpsPastEndDate(t *testing.T) {
	svc, _ := newTestService(&fakePublisher{})

	// 3 installments starting 2024-01-10 would end 2024-03-10, in the past
	// relative to the frozen clock. The end date is pushed month by month
	// until it lands after today (2025-06-15).
	c, err := svc.CreateCredit(context.Background(), CreateCreditInput{
		Name:             "Ancien crédit",
		MonthlyAmount:    core.Money{Cents: 10000},
		FirstPaymentDate: core.NewDate(2024, 1, 10),
		Months:           3,
	})
	if err != nil {
		t.Fatalf("CreateCredit: %v", err)
	}

	want := core.NewDate(2025, 7, 10)
	if !c.LastPaymentDate.Equal(want) {
		t.Errorf("LastPaymentDate = %v, want %v", c.LastPaymentDate, want)
	}
}

func TestCreateCredit_RejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(&fakePublisher{})

	tests := []struct {
		name  string
		input CreateCreditInput
	}{
		{"zero months", CreateCreditInput{Name: "X", MonthlyAmount: core.Money{Cents: 100}, FirstPaymentDate: core.NewDate(2025, 7, 1), Months: 0}},
		{"zero amount", CreateCreditInput{Name: "X", MonthlyAmount: core.Money{}, FirstPaymentDate: core.NewDate(2025, 7, 1), Months: 12}},
		{"empty name", CreateCreditInput{Name: " ", MonthlyAmount: core.Money{Cents: 100}, FirstPaymentDate: core.NewDate(2025, 7, 1), Months: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateCredit(context.Background(), tt.input); err == nil {
				t.Error("CreateCredit should fail")
			}
		})
	}
}

func TestSettleCredit_EarlyByDate(t *testing.T) {
	pub := &fakePublisher{}
	svc, store := newTestService(pub)

	c := core.Credit{
		ID:               "cr-1",
		Name:             "Voiture",
		MonthlyAmount:    core.Money{Cents: 25000},
		FirstPaymentDate: core.NewDate(2024, 1, 15),
		LastPaymentDate:  core.NewDate(2026, 12, 15),
		Status:           core.CreditActive,
	}
	store.CreateCredit(context.Background(), c)

	got, err := svc.SettleCredit(context.Background(), "cr-1", core.NewDate(2025, 6, 1), false)
	if err != nil {
		t.Fatalf("SettleCredit: %v", err)
	}
	if got.Status != core.CreditSettled {
		t.Errorf("Status = %q, want settled", got.Status)
	}
	if !got.IsEarlySettlement {
		t.Error("settlement before scheduled end should be early")
	}
	if !got.LastPaymentDate.Equal(core.NewDate(2025, 6, 1)) {
		t.Errorf("LastPaymentDate = %v, want settlement date", got.LastPaymentDate)
	}
	if len(pub.events) != 1 || pub.events[0].action != "settled" {
		t.Errorf("events = %+v, want one settled event", pub.events)
	}
}

func TestSettleCredit_OnScheduleNotEarly(t *testing.T) {
	svc, store := newTestService(&fakePublisher{})

	c := core.Credit{
		ID:               "cr-2",
		Name:             "Maison",
		MonthlyAmount:    core.Money{Cents: 90000},
		FirstPaymentDate: core.NewDate(2020, 3, 1),
		LastPaymentDate:  core.NewDate(2025, 2, 1),
		Status:           core.CreditActive,
	}
	store.CreateCredit(context.Background(), c)

	got, err := svc.SettleCredit(context.Background(), "cr-2", core.NewDate(2025, 2, 1), false)
	if err != nil {
		t.Fatalf("SettleCredit: %v", err)
	}
	if got.IsEarlySettlement {
		t.Error("settlement on the scheduled end date is not early")
	}
}

func TestSettleCredit_ManualFlagForcesEarly(t *testing.T) {
	svc, store := newTestService(&fakePublisher{})

	c := core.Credit{
		ID:               "cr-3",
		Name:             "Travaux",
		MonthlyAmount:    core.Money{Cents: 40000},
		FirstPaymentDate: core.NewDate(2020, 3, 1),
		LastPaymentDate:  core.NewDate(2025, 2, 1),
		Status:           core.CreditActive,
	}
	store.CreateCredit(context.Background(), c)

	got, err := svc.SettleCredit(context.Background(), "cr-3", core.NewDate(2025, 2, 1), true)
	if err != nil {
		t.Fatalf("SettleCredit: %v", err)
	}
	if !got.IsEarlySettlement {
		t.Error("manual flag should force early on an on-schedule date")
	}
}

func TestSettleCredit_Idempotent(t *testing.T) {
	pub := &fakePublisher{}
	svc, store := newTestService(pub)

	c := core.Credit{
		ID:               "cr-4",
		Name:             "Voiture",
		MonthlyAmount:    core.Money{Cents: 25000},
		FirstPaymentDate: core.NewDate(2024, 1, 15),
		LastPaymentDate:  core.NewDate(2026, 12, 15),
		Status:           core.CreditActive,
	}
	store.CreateCredit(context.Background(), c)

	if _, err := svc.SettleCredit(context.Background(), "cr-4", core.NewDate(2025, 6, 1), false); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if _, err := svc.SettleCredit(context.Background(), "cr-4", core.NewDate(2025, 8, 1), false); err != nil {
		t.Fatalf("second settle: %v", err)
	}

	got, _ := store.GetCredit(context.Background(), "cr-4")
	if !got.LastPaymentDate.Equal(core.NewDate(2025, 6, 1)) {
		t.Errorf("second settle should be a no-op, LastPaymentDate = %v", got.LastPaymentDate)
	}
	if len(pub.events) != 1 {
		t.Errorf("events = %+v, want a single settled event", pub.events)
	}
}

func TestCreateCredit_SurvivesPublisherFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, store := newTestService(pub)

	c, err := svc.CreateCredit(context.Background(), CreateCreditInput{
		Name:             "Voiture",
		MonthlyAmount:    core.Money{Cents: 25000},
		FirstPaymentDate: core.NewDate(2025, 7, 5),
		Months:           12,
	})
	if err != nil {
		t.Fatalf("CreateCredit should not fail on publish error: %v", err)
	}
	if _, err := store.GetCredit(context.Background(), c.ID); err != nil {
		t.Errorf("credit should be persisted despite publish failure: %v", err)
	}
}
