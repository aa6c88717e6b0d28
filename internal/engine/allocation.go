package engine

import (
	"math"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

// ContributorShare is one contributor's slice of a shared total: the
// absolute amount plus the cumulative [RangeStart, RangeEnd) percentage
// boundaries used to render stacked allocation bars.
type ContributorShare struct {
	ContributorID string     `json:"contributor_id"`
	AbsoluteShare core.Money `json:"absolute_share"`
	RangeStart    float64    `json:"range_start"`
	RangeEnd      float64    `json:"range_end"`
}

// Allocation is the result envelope of a cost split. When the contributor
// percentages sum above 100 the raw ranges are surfaced unclamped and
// OverAllocated is set, so the caller can warn instead of silently
// misrepresenting the data.
type Allocation struct {
	Shares        []ContributorShare `json:"shares"`
	OverAllocated bool               `json:"over_allocated"`
}

// Allocate splits a total amount across contributors proportionally to
// their percentage shares, in input order. Percentages may be stale or
// inconsistent; the allocator never renormalizes them.
func Allocate(total core.Money, contributors []core.Contributor) Allocation {
	shares := make([]ContributorShare, 0, len(contributors))
	cumulative := 0.0
	for _, c := range contributors {
		cents := int64(math.Round(float64(total.Cents) * c.Percentage / 100))
		shares = append(shares, ContributorShare{
			ContributorID: c.ID,
			AbsoluteShare: core.Money{Cents: cents},
			RangeStart:    cumulative,
			RangeEnd:      cumulative + c.Percentage,
		})
		cumulative += c.Percentage
	}
	// Tolerance absorbs float accumulation noise on shares summing to
	// exactly 100 (e.g. 33.33 + 33.33 + 33.34).
	return Allocation{
		Shares:        shares,
		OverAllocated: cumulative > 100+1e-9,
	}
}
