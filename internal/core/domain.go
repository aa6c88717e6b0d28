package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly   Periodicity = "monthly"
	Quarterly Periodicity = "quarterly"
	Yearly    Periodicity = "yearly"
)

const (
	CreditActive  CreditStatus = "active"
	CreditSettled CreditStatus = "settled"
)

type (
	Periodicity  string
	CreditStatus string

	// Date is a calendar date at UTC midnight. Time-of-day is never
	// significant; comparisons are by calendar day.
	Date struct {
		time.Time
	}

	// Credit is an installment loan with a flat monthly payment and fixed
	// first/last payment dates. There is no interest rate.
	Credit struct {
		ID                string       `json:"id"`
		Name              string       `json:"name"`
		MonthlyAmount     Money        `json:"monthly_amount"`
		FirstPaymentDate  Date         `json:"first_payment_date"`
		LastPaymentDate   Date         `json:"last_payment_date"`
		Status            CreditStatus `json:"status"`
		IsEarlySettlement bool         `json:"is_early_settlement"`
	}

	// RecurringCharge is a periodic bill debited on a fixed day (and month,
	// for quarterly/yearly cadences).
	RecurringCharge struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		Amount      Money       `json:"amount"`
		Periodicity Periodicity `json:"periodicity"`
		DebitDay    int         `json:"debit_day"`   // 1..31
		DebitMonth  int         `json:"debit_month"` // 1..12, 0 when monthly
	}

	// Contributor is a household member carrying a percentage share of the
	// shared costs.
	Contributor struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"` // 0..100
		IsOwner    bool    `json:"is_owner"`
	}

	// SavingsProject is a saving goal with a fixed monthly contribution.
	SavingsProject struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		TargetAmount   Money  `json:"target_amount"`
		MonthlyDeposit Money  `json:"monthly_deposit"`
	}
)

var (
	ErrInvalidCredit     = errors.New("invalid credit")
	ErrMissingDebitMonth = errors.New("missing debit month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDay        = errors.New("invalid debit day")
	ErrInvalidMonth      = errors.New("invalid debit month")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrInvalidPeriod     = errors.New("invalid periodicity")
	ErrEmptyName         = errors.New("empty name")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1..12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether the two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date{Time: t}
	return nil
}

func (c Credit) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if err := c.MonthlyAmount.Validate(); err != nil {
		return errors.Join(ErrInvalidCredit, err)
	}
	if err := c.FirstPaymentDate.Validate(); err != nil {
		return errors.Join(ErrInvalidCredit, errors.New("invalid first payment date: "+err.Error()))
	}
	if err := c.LastPaymentDate.Validate(); err != nil {
		return errors.Join(ErrInvalidCredit, errors.New("invalid last payment date: "+err.Error()))
	}
	if c.FirstPaymentDate.After(c.LastPaymentDate) {
		return errors.Join(ErrInvalidCredit, errors.New("first payment date after last payment date"))
	}
	switch c.Status {
	case CreditActive, CreditSettled, "":
	default:
		return errors.Join(ErrInvalidCredit, errors.New("unknown status"))
	}
	return nil
}

func (rc RecurringCharge) Validate() error {
	if len(strings.TrimSpace(rc.Name)) == 0 {
		return ErrEmptyName
	}
	if err := rc.Amount.Validate(); err != nil {
		return err
	}
	if rc.DebitDay < 1 || rc.DebitDay > 31 {
		return ErrInvalidDay
	}
	switch rc.Periodicity {
	case Monthly:
		// DebitMonth must stay unset for monthly charges.
		if rc.DebitMonth != 0 {
			return ErrInvalidMonth
		}
	case Quarterly, Yearly:
		if rc.DebitMonth == 0 {
			return ErrMissingDebitMonth
		}
		if rc.DebitMonth < 1 || rc.DebitMonth > 12 {
			return ErrInvalidMonth
		}
	default:
		return ErrInvalidPeriod
	}
	return nil
}

func (c Contributor) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if c.Percentage < 0 || c.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return nil
}

func (p SavingsProject) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if err := p.TargetAmount.Validate(); err != nil {
		return err
	}
	if p.MonthlyDeposit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
