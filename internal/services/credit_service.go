// Package services orchestrates the engine, the store, and the message
// broker behind the HTTP handlers and the workers.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/amqp"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishCreditEvent(ctx context.Context, creditID, action string) error
}

// CreditService owns the credit lifecycle: creation with end-date
// derivation, settlement, and change event publication.
type CreditService struct {
	store     storage.Store
	publisher EventPublisher
	now       func() time.Time
}

func NewCreditService(store storage.Store, publisher EventPublisher) *CreditService {
	return &CreditService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateCreditInput carries the user-facing fields of a new credit. The last
// payment date is derived from the installment count, never supplied.
type CreateCreditInput struct {
	Name             string     `json:"name"`
	MonthlyAmount    core.Money `json:"monthly_amount"`
	FirstPaymentDate core.Date  `json:"first_payment_date"`
	Months           int        `json:"months"`
}

// CreateCredit derives the last payment date from the installment count and
// persists the credit. A derived end date that already passed is pushed
// forward month by month so a freshly created credit is never born settled.
func (s *CreditService) CreateCredit(ctx context.Context, in CreateCreditInput) (core.Credit, error) {
	if in.Months < 1 {
		return core.Credit{}, fmt.Errorf("months must be at least 1: %w", core.ErrInvalidCredit)
	}

	today := core.DateOf(s.now())
	last := engine.AddMonths(in.FirstPaymentDate, in.Months-1)
	for !last.After(today) {
		last = engine.AddMonths(last, 1)
	}

	c := core.Credit{
		ID:               uuid.NewString(),
		Name:             in.Name,
		MonthlyAmount:    in.MonthlyAmount,
		FirstPaymentDate: in.FirstPaymentDate,
		LastPaymentDate:  last,
		Status:           core.CreditActive,
	}
	if err := c.Validate(); err != nil {
		return core.Credit{}, err
	}

	if err := s.store.CreateCredit(ctx, c); err != nil {
		return core.Credit{}, fmt.Errorf("save credit: %w", err)
	}

	s.publish(ctx, c.ID, amqp.ActionCreated)
	return c, nil
}

// UpdateCredit replaces the mutable fields of an existing credit.
func (s *CreditService) UpdateCredit(ctx context.Context, c core.Credit) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateCredit(ctx, c); err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	s.publish(ctx, c.ID, amqp.ActionUpdated)
	return nil
}

// SettleCredit closes a credit on the requested date. The settlement is
// early when the date precedes the scheduled end or when the caller flags it
// manually; the flag can never unmark a date-detected early settlement.
func (s *CreditService) SettleCredit(ctx context.Context, id string, requested core.Date, manualEarly bool) (core.Credit, error) {
	c, err := s.store.GetCredit(ctx, id)
	if err != nil {
		return core.Credit{}, fmt.Errorf("load credit: %w", err)
	}
	if c.Status == core.CreditSettled {
		return c, nil
	}

	settlement := engine.ResolveSettlement(c.LastPaymentDate, requested, manualEarly)

	c.Status = core.CreditSettled
	c.IsEarlySettlement = settlement.IsEarly
	c.LastPaymentDate = settlement.EffectiveDate

	if err := s.store.UpdateCredit(ctx, c); err != nil {
		return core.Credit{}, fmt.Errorf("settle credit: %w", err)
	}

	slog.InfoContext(ctx, "Credit settled",
		"id", c.ID,
		"effective_date", settlement.EffectiveDate.Format("2006-01-02"),
		"early", settlement.IsEarly)

	s.publish(ctx, c.ID, amqp.ActionSettled)
	return c, nil
}

// DeleteCredit removes the credit and announces the deletion.
func (s *CreditService) DeleteCredit(ctx context.Context, id string) error {
	if err := s.store.DeleteCredit(ctx, id); err != nil {
		return fmt.Errorf("delete credit: %w", err)
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

// publish sends a credit event without failing the caller. The credit is
// already durable in SQLite; a lost event only delays the next snapshot.
func (s *CreditService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping credit event",
			"credit_id", id, "action", action)
		return
	}
	if err := s.publisher.PublishCreditEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish credit event",
			"credit_id", id, "action", action, "error", err)
	}
}
