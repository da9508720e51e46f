package charge

import (
	"math"

	"github.com/shopspring/decimal"

	"escrow-charge/internal/errors"
)

// Breakdown is the result of a service-charge calculation.
// The charge is paid by the client on top of the milestone amount.
type Breakdown struct {
	// ProjectBudget selected the tier
	ProjectBudget decimal.Decimal `json:"project_budget"`

	// MilestoneAmount is the payment due for the milestone
	MilestoneAmount decimal.Decimal `json:"milestone_amount"`

	// Percentage is the tier percentage applied
	Percentage int64 `json:"percentage"`

	// ServiceCharge is MilestoneAmount * Percentage / 100
	ServiceCharge decimal.Decimal `json:"service_charge"`

	// TotalAmount is what the client pays into escrow
	TotalAmount decimal.Decimal `json:"total_amount"`

	// AmountToFreelancer is always MilestoneAmount
	AmountToFreelancer decimal.Decimal `json:"amount_to_freelancer"`
}

// Calculator applies a tier table to milestone payments
type Calculator struct {
	table *Table
}

// NewCalculator creates a calculator over table; nil selects DefaultTable
func NewCalculator(table *Table) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{table: table}
}

var defaultCalculator = NewCalculator(nil)

// Default returns the calculator for the marketplace tier table
func Default() *Calculator {
	return defaultCalculator
}

// Table returns the tier table in use
func (c *Calculator) Table() *Table {
	return c.table
}

// Calculate computes the breakdown for a milestone payment
func (c *Calculator) Calculate(milestoneAmount, projectBudget decimal.Decimal) (Breakdown, error) {
	if milestoneAmount.IsNegative() {
		return Breakdown{}, errors.InvalidAmount("milestone amount must not be negative").
			WithContext("milestone_amount", milestoneAmount.String())
	}
	if err := checkRange(milestoneAmount); err != nil {
		return Breakdown{}, errors.Wrap(errors.TypeInvalidAmount, "milestone amount is out of range", err)
	}
	if err := checkBudget(projectBudget); err != nil {
		return Breakdown{}, err
	}

	tier := c.table.Lookup(projectBudget)
	serviceCharge := milestoneAmount.Mul(decimal.NewFromInt(tier.Percentage)).Shift(-2)

	return Breakdown{
		ProjectBudget:      projectBudget,
		MilestoneAmount:    milestoneAmount,
		Percentage:         tier.Percentage,
		ServiceCharge:      serviceCharge,
		TotalAmount:        milestoneAmount.Add(serviceCharge),
		AmountToFreelancer: milestoneAmount,
	}, nil
}

// calculateFloat is Calculate for float inputs; NaN and infinities are rejected
func (c *Calculator) calculateFloat(milestoneAmount, projectBudget float64) (Breakdown, error) {
	if math.IsNaN(milestoneAmount) || math.IsInf(milestoneAmount, 0) {
		return Breakdown{}, errors.InvalidAmount("milestone amount must be a finite number")
	}
	if math.IsNaN(projectBudget) || math.IsInf(projectBudget, 0) {
		return Breakdown{}, errors.InvalidBudget("project budget must be a finite number")
	}
	return c.Calculate(decimal.NewFromFloat(milestoneAmount), decimal.NewFromFloat(projectBudget))
}

func checkBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return errors.InvalidBudget("project budget must not be negative").
			WithContext("project_budget", budget.String())
	}
	if err := checkRange(budget); err != nil {
		return errors.Wrap(errors.TypeInvalidBudget, "project budget is out of range", err)
	}
	return nil
}

// CalculateServiceCharge computes a breakdown with the default tier table
func CalculateServiceCharge(milestoneAmount, projectBudget decimal.Decimal) (Breakdown, error) {
	return defaultCalculator.Calculate(milestoneAmount, projectBudget)
}
