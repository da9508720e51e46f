// Package plan parses HCL milestone plans and quotes every milestone in them.
package plan

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"escrow-charge/core/charge"
	"escrow-charge/core/types"
	"escrow-charge/internal/errors"
)

// Project is one project block of a plan
type Project struct {
	ID         string
	Budget     decimal.Decimal
	Currency   types.Currency
	Milestones []Milestone

	// Line is where the budget attribute is declared
	Line int
}

// Milestone is one milestone block of a project
type Milestone struct {
	ID     string
	Title  string
	Amount decimal.Decimal
	Line   int
}

type planFile struct {
	Projects []projectBlock `hcl:"project,block"`
}

type projectBlock struct {
	ID         string           `hcl:"id,label"`
	Budget     hcl.Expression   `hcl:"budget"`
	Currency   string           `hcl:"currency,optional"`
	Milestones []milestoneBlock `hcl:"milestone,block"`
}

type milestoneBlock struct {
	ID     string         `hcl:"id,label"`
	Title  string         `hcl:"title,optional"`
	Amount hcl.Expression `hcl:"amount"`
}

// ParseFile reads and parses a plan file
func ParseFile(path string) ([]Project, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Input(fmt.Sprintf("read plan: %v", err))
	}
	return Parse(src, path)
}

// Parse parses plan source; filename is used in diagnostics
func Parse(src []byte, filename string) ([]Project, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	var pf planFile
	if diags := gohcl.DecodeBody(file.Body, nil, &pf); diags.HasErrors() {
		return nil, diagError(diags)
	}

	projects := make([]Project, 0, len(pf.Projects))
	seen := make(map[string]bool)
	for _, pb := range pf.Projects {
		if seen[pb.ID] {
			return nil, errors.Parsing(fmt.Sprintf("%s: duplicate project %q", pb.Budget.Range(), pb.ID), nil)
		}
		seen[pb.ID] = true

		p, err := pb.convert()
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (pb projectBlock) convert() (Project, error) {
	budgetRange := pb.Budget.Range()
	budget, err := toDecimal(pb.Budget, charge.ParseBudget)
	if err != nil {
		return Project{}, errors.Wrap(errors.TypeInvalidBudget,
			fmt.Sprintf("%s: project %q budget", budgetRange, pb.ID), err)
	}

	currency, ok := types.ParseCurrency(pb.Currency)
	if !ok {
		return Project{}, errors.Parsing(
			fmt.Sprintf("%s: project %q: unsupported currency %q", budgetRange, pb.ID, pb.Currency), nil)
	}

	p := Project{
		ID:       pb.ID,
		Budget:   budget,
		Currency: currency,
		Line:     budgetRange.Start.Line,
	}

	seen := make(map[string]bool)
	for _, mb := range pb.Milestones {
		amountRange := mb.Amount.Range()
		if seen[mb.ID] {
			return Project{}, errors.Parsing(
				fmt.Sprintf("%s: project %q: duplicate milestone %q", amountRange, pb.ID, mb.ID), nil)
		}
		seen[mb.ID] = true

		amount, err := toDecimal(mb.Amount, charge.ParseAmount)
		if err != nil {
			return Project{}, errors.Wrap(errors.TypeInvalidAmount,
				fmt.Sprintf("%s: milestone %q amount", amountRange, mb.ID), err)
		}
		p.Milestones = append(p.Milestones, Milestone{
			ID:     mb.ID,
			Title:  mb.Title,
			Amount: amount,
			Line:   amountRange.Start.Line,
		})
	}
	return p, nil
}

// toDecimal evaluates a constant HCL number without passing through float64.
// The number is printed in shortest exponent form so parse can bound it
// before any digits are expanded.
func toDecimal(expr hcl.Expression, parse func(string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Decimal{}, diags
	}
	if v.IsNull() || !v.IsKnown() {
		return decimal.Decimal{}, fmt.Errorf("value is not set")
	}
	if !v.Type().Equals(cty.Number) {
		return decimal.Decimal{}, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	return parse(v.AsBigFloat().Text('g', -1))
}

func diagError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		loc := ""
		if diag.Subject != nil {
			loc = fmt.Sprintf("%s:%d: ", diag.Subject.Filename, diag.Subject.Start.Line)
		}
		return errors.Parsing(loc+diag.Summary+": "+diag.Detail, diags)
	}
	return errors.Parsing("invalid plan", diags)
}
