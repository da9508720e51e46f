// Package charge - Tiered service-charge calculation for escrow milestone payments.
// The tier is selected from the project budget, never from the milestone amount.
package charge

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier maps a budget band to a service-charge percentage
type Tier struct {
	// UpTo is the exclusive upper bound of the band (zero value = unbounded)
	UpTo decimal.Decimal `json:"up_to"`

	// Unbounded marks the last band
	Unbounded bool `json:"unbounded,omitempty"`

	// Percentage is a whole-number percent
	Percentage int64 `json:"percentage"`
}

// Contains reports whether budget falls below this tier's upper bound
func (t Tier) Contains(budget decimal.Decimal) bool {
	return t.Unbounded || budget.LessThan(t.UpTo)
}

// Table is an immutable ordered list of tiers
type Table struct {
	tiers []Tier
}

// NewTable validates tiers and returns a table.
// Bounds must be strictly increasing and positive, the last tier must be
// unbounded and every percentage must be non-negative.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier table is empty")
	}

	prev := decimal.Zero
	for i, tier := range tiers {
		if tier.Percentage < 0 {
			return nil, fmt.Errorf("tier %d: negative percentage %d", i, tier.Percentage)
		}
		last := i == len(tiers)-1
		if tier.Unbounded != last {
			if last {
				return nil, fmt.Errorf("tier %d: last tier must be unbounded", i)
			}
			return nil, fmt.Errorf("tier %d: only the last tier may be unbounded", i)
		}
		if last {
			break
		}
		if !tier.UpTo.GreaterThan(prev) {
			return nil, fmt.Errorf("tier %d: bound %s does not exceed %s", i, tier.UpTo, prev)
		}
		prev = tier.UpTo
	}

	copied := make([]Tier, len(tiers))
	copy(copied, tiers)
	return &Table{tiers: copied}, nil
}

// MustTable is NewTable that panics on an invalid table
func MustTable(tiers []Tier) *Table {
	t, err := NewTable(tiers)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultTable = MustTable([]Tier{
	{UpTo: decimal.NewFromInt(5000), Percentage: 8},
	{UpTo: decimal.NewFromInt(20000), Percentage: 6},
	{UpTo: decimal.NewFromInt(50000), Percentage: 5},
	{UpTo: decimal.NewFromInt(100000), Percentage: 4},
	{Unbounded: true, Percentage: 3},
})

// DefaultTable returns the marketplace tier table
func DefaultTable() *Table {
	return defaultTable
}

// Tiers returns a copy of the tiers in ascending order
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Lookup returns the first tier whose bound exceeds budget.
// Budget must be non-negative; the unbounded last tier always matches.
func (t *Table) Lookup(budget decimal.Decimal) Tier {
	for _, tier := range t.tiers {
		if tier.Contains(budget) {
			return tier
		}
	}
	return t.tiers[len(t.tiers)-1]
}

// LowerBound returns the inclusive lower bound of the tier at index i
func (t *Table) LowerBound(i int) decimal.Decimal {
	if i <= 0 {
		return decimal.Zero
	}
	return t.tiers[i-1].UpTo
}
