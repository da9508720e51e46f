package plan

import (
	"escrow-charge/core/charge"
)

// Quote computes breakdowns for every milestone of the project
func (p Project) Quote(calc *charge.Calculator) (*charge.ProjectQuote, error) {
	if calc == nil {
		calc = charge.Default()
	}

	milestones := make([]charge.Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		milestones[i] = charge.Milestone{ID: m.ID, Title: m.Title, Amount: m.Amount}
	}
	return calc.QuoteProject(p.ID, p.Currency, p.Budget, milestones)
}

// QuoteAll quotes every project in order, stopping at the first error
func QuoteAll(projects []Project, calc *charge.Calculator) ([]*charge.ProjectQuote, error) {
	quotes := make([]*charge.ProjectQuote, 0, len(projects))
	for _, p := range projects {
		q, err := p.Quote(calc)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
