package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"comma separator", "12,34", 1234, false},
		{"dot separator", "12.34", 1234, false},
		{"integer only", "40", 4000, false},
		{"single decimal", "7,5", 750, false},
		{"rounds half up", "1,005", 101, false},
		{"rounds down below half", "1,004", 100, false},
		{"leading whitespace", " 3,20 ", 320, false},
		{"no integer part", ",50", 50, false},
		{"empty", "", 0, true},
		{"zero", "0,00", 0, true},
		{"negative", "-5,00", 0, true},
		{"explicit plus", "+5,00", 0, true},
		{"two separators", "1.2.3", 0, true},
		{"letters", "12a,00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatEuros(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "€12,34"},
		{100, "€1,00"},
		{5, "€0,05"},
		{0, "€0,00"},
		{-250, "-€2,50"},
		{123456789, "€1234567,89"},
	}

	for _, tt := range tests {
		if got := FormatEuros(tt.cents); got != tt.want {
			t.Errorf("FormatEuros(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1500}
	b := Money{Cents: 250}

	if got := a.Add(b); got.Cents != 1750 {
		t.Errorf("Add = %d, want 1750", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 1250 {
		t.Errorf("Sub = %d, want 1250", got.Cents)
	}
	if got := a.MulInt(12); got.Cents != 18000 {
		t.Errorf("MulInt = %d, want 18000", got.Cents)
	}
	if got := a.Euros(); got != 15.0 {
		t.Errorf("Euros = %f, want 15.0", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 100}).Validate(); err != nil {
		t.Errorf("positive amount should validate, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}
}
