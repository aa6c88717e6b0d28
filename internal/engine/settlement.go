package engine

import "github.com/BarthGve/budget-wizard-fr-sub000/internal/core"

// Settlement is the resolved outcome of a settlement request.
type Settlement struct {
	EffectiveDate core.Date `json:"effective_date"`
	IsEarly       bool      `json:"is_early"`
}

// ResolveSettlement decides whether settling on the requested date closes
// the credit early. The manual flag can force an early settlement but can
// never unmark one the date comparison already detected: date truth
// dominates.
func ResolveSettlement(scheduledEnd, requested core.Date, manualEarly bool) Settlement {
	return Settlement{
		EffectiveDate: requested,
		IsEarly:       manualEarly || requested.Before(scheduledEnd),
	}
}
