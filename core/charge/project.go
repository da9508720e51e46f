package charge

import (
	"fmt"

	"github.com/shopspring/decimal"

	"escrow-charge/core/types"
)

// Milestone is one payment unit of a project
type Milestone struct {
	ID     string          `json:"id"`
	Title  string          `json:"title,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// MilestoneQuote is the breakdown for one milestone
type MilestoneQuote struct {
	MilestoneID string    `json:"milestone_id"`
	Title       string    `json:"title,omitempty"`
	Breakdown   Breakdown `json:"breakdown"`
}

// ProjectQuote aggregates the milestone breakdowns of a project
type ProjectQuote struct {
	ProjectID  string           `json:"project_id"`
	Currency   types.Currency   `json:"currency"`
	Budget     decimal.Decimal  `json:"budget"`
	Percentage int64            `json:"percentage"`
	Milestones []MilestoneQuote `json:"milestones"`

	// TotalMilestones is the sum of milestone amounts
	TotalMilestones decimal.Decimal `json:"total_milestones"`

	// TotalCharges is the sum of service charges
	TotalCharges decimal.Decimal `json:"total_charges"`

	// TotalPayable is what the client pays across all milestones
	TotalPayable decimal.Decimal `json:"total_payable"`

	// OverBudget is set when milestones add up to more than the budget
	OverBudget bool `json:"over_budget,omitempty"`
}

// QuoteProject computes breakdowns for every milestone of a project.
// Every milestone shares the tier selected by the project budget.
func (c *Calculator) QuoteProject(projectID string, currency types.Currency, budget decimal.Decimal, milestones []Milestone) (*ProjectQuote, error) {
	if err := checkBudget(budget); err != nil {
		return nil, fmt.Errorf("project %q: %w", projectID, err)
	}

	q := &ProjectQuote{
		ProjectID:  projectID,
		Currency:   currency,
		Budget:     budget,
		Percentage: c.table.Lookup(budget).Percentage,
		Milestones: make([]MilestoneQuote, 0, len(milestones)),
	}

	for _, m := range milestones {
		b, err := c.Calculate(m.Amount, budget)
		if err != nil {
			return nil, fmt.Errorf("project %q milestone %q: %w", projectID, m.ID, err)
		}
		q.Milestones = append(q.Milestones, MilestoneQuote{
			MilestoneID: m.ID,
			Title:       m.Title,
			Breakdown:   b,
		})
		q.TotalMilestones = q.TotalMilestones.Add(b.MilestoneAmount)
		q.TotalCharges = q.TotalCharges.Add(b.ServiceCharge)
		q.TotalPayable = q.TotalPayable.Add(b.TotalAmount)
	}

	q.OverBudget = q.TotalMilestones.GreaterThan(budget)
	return q, nil
}
