package engine

import (
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

// MonthsBetween returns the number of whole calendar months from a to b,
// ignoring the day of month. The result is negative when b precedes a.
// Callers add 1 when they need an inclusive installment count.
func MonthsBetween(a, b core.Date) int {
	return (b.Year()-a.Year())*12 + (b.Month() - a.Month())
}

// AddMonths returns d moved n calendar months forward (or backward for
// negative n). The day of month is clamped to the last valid day of the
// target month, never overflowing into the next one.
func AddMonths(d core.Date, n int) core.Date {
	m := d.Month() - 1 + n
	y := d.Year() + m/12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	m++

	day := d.Day()
	if last := daysInMonth(y, m); day > last {
		day = last
	}
	return core.NewDate(y, m, day)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
