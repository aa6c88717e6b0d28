// Package storage persists household budget records in SQLite and exposes
// the store interfaces the services and HTTP layers depend on.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an insert collides with an existing record,
// e.g. a ledger entry already written for the same charge and day.
var ErrConflict = errors.New("record already exists")

// DebtSnapshot is a point-in-time aggregate of the household debt position,
// written by the snapshot worker.
type DebtSnapshot struct {
	ID            int64      `json:"id"`
	View          string     `json:"view"`
	TotalMonthly  core.Money `json:"total_monthly"`
	TotalDebt     core.Money `json:"total_debt"`
	AmountPaid    core.Money `json:"amount_paid"`
	ActiveCredits int        `json:"active_credits"`
	TakenAt       time.Time  `json:"taken_at"`
}

type CreditStore interface {
	CreateCredit(ctx context.Context, c core.Credit) error
	GetCredit(ctx context.Context, id string) (core.Credit, error)
	ListCredits(ctx context.Context) ([]core.Credit, error)
	UpdateCredit(ctx context.Context, c core.Credit) error
	DeleteCredit(ctx context.Context, id string) error
}

type ChargeStore interface {
	CreateCharge(ctx context.Context, rc core.RecurringCharge) error
	GetCharge(ctx context.Context, id string) (core.RecurringCharge, error)
	ListCharges(ctx context.Context) ([]core.RecurringCharge, error)
	UpdateCharge(ctx context.Context, rc core.RecurringCharge) error
	DeleteCharge(ctx context.Context, id string) error
}

type ContributorStore interface {
	CreateContributor(ctx context.Context, c core.Contributor) error
	GetContributor(ctx context.Context, id string) (core.Contributor, error)
	ListContributors(ctx context.Context) ([]core.Contributor, error)
	UpdateContributor(ctx context.Context, c core.Contributor) error
	DeleteContributor(ctx context.Context, id string) error
}

type ProjectStore interface {
	CreateProject(ctx context.Context, p core.SavingsProject) error
	GetProject(ctx context.Context, id string) (core.SavingsProject, error)
	ListProjects(ctx context.Context) ([]core.SavingsProject, error)
	UpdateProject(ctx context.Context, p core.SavingsProject) error
	DeleteProject(ctx context.Context, id string) error
}

// LedgerEntry is a recurring charge materialized on its debit day by the
// debit worker. At most one entry exists per charge and day.
type LedgerEntry struct {
	ID          string     `json:"id"`
	ChargeID    string     `json:"charge_id"`
	Name        string     `json:"name"`
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
	DebitedOn   core.Date  `json:"debited_on"`
	CreatedAt   time.Time  `json:"created_at"`
}

type LedgerStore interface {
	InsertLedgerEntry(ctx context.Context, e LedgerEntry) error
	ListLedgerEntries(ctx context.Context, from, to core.Date) ([]LedgerEntry, error)
}

type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, s DebtSnapshot) error
	LatestSnapshot(ctx context.Context, view string) (DebtSnapshot, error)
}

// Store groups every per-entity store. The SQLite repository and the in-memory
// repository both satisfy it.
type Store interface {
	CreditStore
	ChargeStore
	ContributorStore
	ProjectStore
	LedgerStore
	SnapshotStore
}
