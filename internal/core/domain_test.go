package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCreditValidate(t *testing.T) {
	valid := Credit{
		ID:               "cr-1",
		Name:             "Voiture",
		MonthlyAmount:    Money{Cents: 25000},
		FirstPaymentDate: NewDate(2024, 1, 15),
		LastPaymentDate:  NewDate(2026, 12, 15),
		Status:           CreditActive,
	}

	tests := []struct {
		name    string
		mutate  func(c *Credit)
		wantErr error
	}{
		{"valid", func(c *Credit) {}, nil},
		{"empty name", func(c *Credit) { c.Name = "  " }, ErrEmptyName},
		{"zero amount", func(c *Credit) { c.MonthlyAmount = Money{} }, ErrInvalidCredit},
		{"zero first date", func(c *Credit) { c.FirstPaymentDate = Date{} }, ErrInvalidCredit},
		{"zero last date", func(c *Credit) { c.LastPaymentDate = Date{} }, ErrInvalidCredit},
		{"first after last", func(c *Credit) {
			c.FirstPaymentDate = NewDate(2027, 1, 15)
		}, ErrInvalidCredit},
		{"unknown status", func(c *Credit) { c.Status = "paused" }, ErrInvalidCredit},
		{"blank status allowed", func(c *Credit) { c.Status = "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringChargeValidate(t *testing.T) {
	tests := []struct {
		name    string
		charge  RecurringCharge
		wantErr error
	}{
		{
			"valid monthly",
			RecurringCharge{Name: "Loyer", Amount: Money{Cents: 85000}, Periodicity: Monthly, DebitDay: 5},
			nil,
		},
		{
			"valid yearly",
			RecurringCharge{Name: "Assurance", Amount: Money{Cents: 42000}, Periodicity: Yearly, DebitDay: 10, DebitMonth: 3},
			nil,
		},
		{
			"monthly with debit month",
			RecurringCharge{Name: "Loyer", Amount: Money{Cents: 85000}, Periodicity: Monthly, DebitDay: 5, DebitMonth: 3},
			ErrInvalidMonth,
		},
		{
			"quarterly missing month",
			RecurringCharge{Name: "Eau", Amount: Money{Cents: 9000}, Periodicity: Quarterly, DebitDay: 20},
			ErrMissingDebitMonth,
		},
		{
			"yearly month out of range",
			RecurringCharge{Name: "Taxe", Amount: Money{Cents: 120000}, Periodicity: Yearly, DebitDay: 1, DebitMonth: 13},
			ErrInvalidMonth,
		},
		{
			"day out of range",
			RecurringCharge{Name: "Loyer", Amount: Money{Cents: 85000}, Periodicity: Monthly, DebitDay: 32},
			ErrInvalidDay,
		},
		{
			"unknown periodicity",
			RecurringCharge{Name: "Loyer", Amount: Money{Cents: 85000}, Periodicity: "weekly", DebitDay: 5},
			ErrInvalidPeriod,
		},
		{
			"empty name",
			RecurringCharge{Name: "", Amount: Money{Cents: 85000}, Periodicity: Monthly, DebitDay: 5},
			ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.charge.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContributorValidate(t *testing.T) {
	if err := (Contributor{Name: "Alice", Percentage: 60}).Validate(); err != nil {
		t.Errorf("valid contributor: %v", err)
	}
	if err := (Contributor{Name: "Bob", Percentage: 101}).Validate(); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("percentage over 100 = %v, want ErrInvalidPercentage", err)
	}
	if err := (Contributor{Name: "Bob", Percentage: -1}).Validate(); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("negative percentage = %v, want ErrInvalidPercentage", err)
	}
	if err := (Contributor{Name: "", Percentage: 50}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name = %v, want ErrEmptyName", err)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 3, 31)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-03-31"` {
		t.Errorf("Marshal = %s, want \"2025-03-31\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}

	var empty Date
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if !empty.IsZero() {
		t.Error("null should decode to zero date")
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2025, 1, 15)
	b := NewDate(2025, 2, 15)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After ordering wrong")
	}
	if !a.Equal(NewDate(2025, 1, 15)) {
		t.Error("Equal should hold for same calendar day")
	}
}
