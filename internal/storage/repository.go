package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateCredit(ctx context.Context, c core.Credit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credits (id, name, monthly_amount_cents, first_payment_date, last_payment_date, status, is_early_settlement)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.MonthlyAmount.Cents,
		c.FirstPaymentDate.Format(dateLayout), c.LastPaymentDate.Format(dateLayout),
		string(c.Status), boolToInt(c.IsEarlySettlement))
	if err != nil {
		return fmt.Errorf("create credit: %w", err)
	}

	slog.InfoContext(ctx, "Credit saved",
		"id", c.ID,
		"name", c.Name,
		"monthly_amount_cents", c.MonthlyAmount.Cents)
	return nil
}

func (r *SQLiteRepository) GetCredit(ctx context.Context, id string) (core.Credit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, monthly_amount_cents, first_payment_date, last_payment_date, status, is_early_settlement
		FROM credits WHERE id = ?`, id)
	return scanCredit(row)
}

func (r *SQLiteRepository) ListCredits(ctx context.Context) ([]core.Credit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, monthly_amount_cents, first_payment_date, last_payment_date, status, is_early_settlement
		FROM credits ORDER BY first_payment_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()

	var credits []core.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

func (r *SQLiteRepository) UpdateCredit(ctx context.Context, c core.Credit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credits
		SET name = ?, monthly_amount_cents = ?, first_payment_date = ?, last_payment_date = ?,
		    status = ?, is_early_settlement = ?, updated_at = datetime('now')
		WHERE id = ?`,
		c.Name, c.MonthlyAmount.Cents,
		c.FirstPaymentDate.Format(dateLayout), c.LastPaymentDate.Format(dateLayout),
		string(c.Status), boolToInt(c.IsEarlySettlement), c.ID)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCredit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete credit: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateCharge(ctx context.Context, rc core.RecurringCharge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_charges (id, name, amount_cents, periodicity, debit_day, debit_month)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rc.ID, rc.Name, rc.Amount.Cents, string(rc.Periodicity), rc.DebitDay, rc.DebitMonth)
	if err != nil {
		return fmt.Errorf("create recurring charge: %w", err)
	}

	slog.InfoContext(ctx, "Recurring charge saved",
		"id", rc.ID,
		"name", rc.Name,
		"periodicity", string(rc.Periodicity))
	return nil
}

func (r *SQLiteRepository) GetCharge(ctx context.Context, id string) (core.RecurringCharge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, amount_cents, periodicity, debit_day, debit_month
		FROM recurring_charges WHERE id = ?`, id)
	return scanCharge(row)
}

func (r *SQLiteRepository) ListCharges(ctx context.Context) ([]core.RecurringCharge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount_cents, periodicity, debit_day, debit_month
		FROM recurring_charges ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring charges: %w", err)
	}
	defer rows.Close()

	var charges []core.RecurringCharge
	for rows.Next() {
		rc, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, rc)
	}
	return charges, rows.Err()
}

func (r *SQLiteRepository) UpdateCharge(ctx context.Context, rc core.RecurringCharge) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_charges
		SET name = ?, amount_cents = ?, periodicity = ?, debit_day = ?, debit_month = ?,
		    updated_at = datetime('now')
		WHERE id = ?`,
		rc.Name, rc.Amount.Cents, string(rc.Periodicity), rc.DebitDay, rc.DebitMonth, rc.ID)
	if err != nil {
		return fmt.Errorf("update recurring charge: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCharge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_charges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring charge: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateContributor(ctx context.Context, c core.Contributor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contributors (id, name, percentage, is_owner)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Percentage, boolToInt(c.IsOwner))
	if err != nil {
		return fmt.Errorf("create contributor: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetContributor(ctx context.Context, id string) (core.Contributor, error) {
	var (
		c       core.Contributor
		isOwner int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, percentage, is_owner FROM contributors WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Percentage, &isOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Contributor{}, ErrNotFound
	}
	if err != nil {
		return core.Contributor{}, fmt.Errorf("get contributor: %w", err)
	}
	c.IsOwner = isOwner != 0
	return c, nil
}

func (r *SQLiteRepository) ListContributors(ctx context.Context) ([]core.Contributor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, percentage, is_owner FROM contributors ORDER BY is_owner DESC, name, id`)
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	defer rows.Close()

	var contributors []core.Contributor
	for rows.Next() {
		var (
			c       core.Contributor
			isOwner int
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Percentage, &isOwner); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		c.IsOwner = isOwner != 0
		contributors = append(contributors, c)
	}
	return contributors, rows.Err()
}

func (r *SQLiteRepository) UpdateContributor(ctx context.Context, c core.Contributor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contributors SET name = ?, percentage = ?, is_owner = ? WHERE id = ?`,
		c.Name, c.Percentage, boolToInt(c.IsOwner), c.ID)
	if err != nil {
		return fmt.Errorf("update contributor: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteContributor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contributors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contributor: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p core.SavingsProject) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_projects (id, name, target_amount_cents, monthly_deposit_cents)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.TargetAmount.Cents, p.MonthlyDeposit.Cents)
	if err != nil {
		return fmt.Errorf("create savings project: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (core.SavingsProject, error) {
	var p core.SavingsProject
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_amount_cents, monthly_deposit_cents
		FROM savings_projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.TargetAmount.Cents, &p.MonthlyDeposit.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsProject{}, ErrNotFound
	}
	if err != nil {
		return core.SavingsProject{}, fmt.Errorf("get savings project: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.SavingsProject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_amount_cents, monthly_deposit_cents
		FROM savings_projects ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list savings projects: %w", err)
	}
	defer rows.Close()

	var projects []core.SavingsProject
	for rows.Next() {
		var p core.SavingsProject
		if err := rows.Scan(&p.ID, &p.Name, &p.TargetAmount.Cents, &p.MonthlyDeposit.Cents); err != nil {
			return nil, fmt.Errorf("scan savings project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) UpdateProject(ctx context.Context, p core.SavingsProject) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE savings_projects SET name = ?, target_amount_cents = ?, monthly_deposit_cents = ? WHERE id = ?`,
		p.Name, p.TargetAmount.Cents, p.MonthlyDeposit.Cents, p.ID)
	if err != nil {
		return fmt.Errorf("update savings project: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete savings project: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) InsertLedgerEntry(ctx context.Context, e LedgerEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO debit_ledger (id, charge_id, name, amount_cents, description, debited_on, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ChargeID, e.Name, e.Amount.Cents, e.Description,
		e.DebitedOn.Format(dateLayout), createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *SQLiteRepository) ListLedgerEntries(ctx context.Context, from, to core.Date) ([]LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, charge_id, name, amount_cents, description, debited_on, created_at
		FROM debit_ledger
		WHERE debited_on >= ? AND debited_on <= ?
		ORDER BY debited_on, name, id`,
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var (
			e         LedgerEntry
			debitedOn string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.ChargeID, &e.Name, &e.Amount.Cents, &e.Description, &debitedOn, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		d, err := time.Parse(dateLayout, debitedOn)
		if err != nil {
			return nil, fmt.Errorf("parse debited_on: %w", err)
		}
		e.DebitedOn = core.DateOf(d)
		if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) InsertSnapshot(ctx context.Context, s DebtSnapshot) error {
	takenAt := s.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debt_snapshots (view, total_monthly_cents, total_debt_cents, amount_paid_cents, active_credits, taken_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.View, s.TotalMonthly.Cents, s.TotalDebt.Cents, s.AmountPaid.Cents,
		s.ActiveCredits, takenAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert debt snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, view string) (DebtSnapshot, error) {
	var (
		s       DebtSnapshot
		takenAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, view, total_monthly_cents, total_debt_cents, amount_paid_cents, active_credits, taken_at
		FROM debt_snapshots WHERE view = ? ORDER BY id DESC LIMIT 1`, view).
		Scan(&s.ID, &s.View, &s.TotalMonthly.Cents, &s.TotalDebt.Cents, &s.AmountPaid.Cents, &s.ActiveCredits, &takenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DebtSnapshot{}, ErrNotFound
	}
	if err != nil {
		return DebtSnapshot{}, fmt.Errorf("get latest debt snapshot: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, takenAt); perr == nil {
		s.TakenAt = t
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredit(row rowScanner) (core.Credit, error) {
	var (
		c         core.Credit
		firstDate string
		lastDate  string
		status    string
		isEarly   int
	)
	err := row.Scan(&c.ID, &c.Name, &c.MonthlyAmount.Cents, &firstDate, &lastDate, &status, &isEarly)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Credit{}, ErrNotFound
	}
	if err != nil {
		return core.Credit{}, fmt.Errorf("scan credit: %w", err)
	}

	first, err := time.Parse(dateLayout, firstDate)
	if err != nil {
		return core.Credit{}, fmt.Errorf("parse first payment date: %w", err)
	}
	last, err := time.Parse(dateLayout, lastDate)
	if err != nil {
		return core.Credit{}, fmt.Errorf("parse last payment date: %w", err)
	}

	c.FirstPaymentDate = core.DateOf(first)
	c.LastPaymentDate = core.DateOf(last)
	c.Status = core.CreditStatus(status)
	c.IsEarlySettlement = isEarly != 0
	return c, nil
}

func scanCharge(row rowScanner) (core.RecurringCharge, error) {
	var (
		rc          core.RecurringCharge
		periodicity string
	)
	err := row.Scan(&rc.ID, &rc.Name, &rc.Amount.Cents, &periodicity, &rc.DebitDay, &rc.DebitMonth)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringCharge{}, ErrNotFound
	}
	if err != nil {
		return core.RecurringCharge{}, fmt.Errorf("scan recurring charge: %w", err)
	}
	rc.Periodicity = core.Periodicity(periodicity)
	return rc, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
