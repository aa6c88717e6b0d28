package engine

import (
	"testing"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

func TestAllocate(t *testing.T) {
	total := core.Money{Cents: 100000} // €1000

	tests := []struct {
		name         string
		contributors []core.Contributor
		wantShares   []int64
		wantStarts   []float64
		wantEnds     []float64
		wantOver     bool
	}{
		{
			name: "two contributors at exactly 100",
			contributors: []core.Contributor{
				{ID: "c-anna", Percentage: 60},
				{ID: "c-marc", Percentage: 40},
			},
			wantShares: []int64{60000, 40000},
			wantStarts: []float64{0, 60},
			wantEnds:   []float64{60, 100},
			wantOver:   false,
		},
		{
			name: "over-allocated contributors keep raw ranges",
			contributors: []core.Contributor{
				{ID: "c-anna", Percentage: 60},
				{ID: "c-marc", Percentage: 50},
			},
			wantShares: []int64{60000, 50000},
			wantStarts: []float64{0, 60},
			wantEnds:   []float64{60, 110},
			wantOver:   true,
		},
		{
			name: "shares below 100 stay unnormalized",
			contributors: []core.Contributor{
				{ID: "c-anna", Percentage: 30},
				{ID: "c-marc", Percentage: 20},
			},
			wantShares: []int64{30000, 20000},
			wantStarts: []float64{0, 30},
			wantEnds:   []float64{30, 50},
			wantOver:   false,
		},
		{
			name: "zero-percentage contributor keeps its slot",
			contributors: []core.Contributor{
				{ID: "c-anna", Percentage: 0},
				{ID: "c-marc", Percentage: 100},
			},
			wantShares: []int64{0, 100000},
			wantStarts: []float64{0, 0},
			wantEnds:   []float64{0, 100},
			wantOver:   false,
		},
		{
			name:         "no contributors",
			contributors: nil,
			wantShares:   []int64{},
			wantStarts:   []float64{},
			wantEnds:     []float64{},
			wantOver:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(total, tt.contributors)
			if got.OverAllocated != tt.wantOver {
				t.Errorf("OverAllocated = %v, want %v", got.OverAllocated, tt.wantOver)
			}
			if len(got.Shares) != len(tt.wantShares) {
				t.Fatalf("len(Shares) = %d, want %d", len(got.Shares), len(tt.wantShares))
			}
			for i, share := range got.Shares {
				if share.ContributorID != tt.contributors[i].ID {
					t.Errorf("share %d id = %s, want %s (input order)", i, share.ContributorID, tt.contributors[i].ID)
				}
				if share.AbsoluteShare.Cents != tt.wantShares[i] {
					t.Errorf("share %d = %d, want %d", i, share.AbsoluteShare.Cents, tt.wantShares[i])
				}
				if share.RangeStart != tt.wantStarts[i] {
					t.Errorf("share %d RangeStart = %v, want %v", i, share.RangeStart, tt.wantStarts[i])
				}
				if share.RangeEnd != tt.wantEnds[i] {
					t.Errorf("share %d RangeEnd = %v, want %v", i, share.RangeEnd, tt.wantEnds[i])
				}
			}
		})
	}
}

// For contributors summing to exactly 100%, the absolute shares add up to
// the total within rounding tolerance and the last range closes at 100.
func TestAllocate_FullCoverage(t *testing.T) {
	total := core.Money{Cents: 100001}
	contributors := []core.Contributor{
		{ID: "c-1", Percentage: 33.33},
		{ID: "c-2", Percentage: 33.33},
		{ID: "c-3", Percentage: 33.34},
	}

	got := Allocate(total, contributors)
	if got.OverAllocated {
		t.Error("OverAllocated = true for shares summing to 100")
	}

	var sum int64
	for _, s := range got.Shares {
		sum += s.AbsoluteShare.Cents
	}
	if diff := sum - total.Cents; diff > 2 || diff < -2 {
		t.Errorf("share sum = %d, want %d within rounding tolerance", sum, total.Cents)
	}

	last := got.Shares[len(got.Shares)-1]
	if diff := last.RangeEnd - 100; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("last RangeEnd = %v, want 100", last.RangeEnd)
	}
}
