// Package output provides output formatting for breakdowns, tier tables and project quotes.
// Currency formatting happens here only; core values stay unrounded.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"escrow-charge/core/charge"
	"escrow-charge/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// RenderBreakdown writes a single milestone breakdown
	RenderBreakdown(w io.Writer, currency types.Currency, b charge.Breakdown) error

	// RenderTiers writes the tier table
	RenderTiers(w io.Writer, table *charge.Table) error

	// RenderProjects writes project quotes from a milestone plan
	RenderProjects(w io.Writer, quotes []*charge.ProjectQuote) error
}

// New returns the formatter for format
func New(format string) (Formatter, error) {
	switch Format(format) {
	case FormatCLI, "":
		return &CLIFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want cli or json)", format)
	}
}

// Money formats an amount with thousands separators and two decimals
func Money(amount decimal.Decimal, currency types.Currency) string {
	rounded := amount.Round(2)
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	n, _ := new(big.Int).SetString(whole, 10)
	s := humanize.BigComma(n) + "." + frac
	if rounded.IsNegative() {
		s = "-" + s
	}
	if currency == "" {
		return s
	}
	return s + " " + currency.String()
}

// Number renders a decimal as a JSON number without losing precision
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// BreakdownView is the external JSON shape of a breakdown
type BreakdownView struct {
	Currency           types.Currency `json:"currency,omitempty"`
	ProjectBudget      json.Number    `json:"projectBudget"`
	MilestoneAmount    json.Number    `json:"milestoneAmount"`
	Percentage         int64          `json:"percentage"`
	ServiceCharge      json.Number    `json:"serviceCharge"`
	TotalAmount        json.Number    `json:"totalAmount"`
	AmountToFreelancer json.Number    `json:"amountToFreelancer"`
}

// NewBreakdownView converts a breakdown to its JSON shape
func NewBreakdownView(currency types.Currency, b charge.Breakdown) BreakdownView {
	return BreakdownView{
		Currency:           currency,
		ProjectBudget:      Number(b.ProjectBudget),
		MilestoneAmount:    Number(b.MilestoneAmount),
		Percentage:         b.Percentage,
		ServiceCharge:      Number(b.ServiceCharge),
		TotalAmount:        Number(b.TotalAmount),
		AmountToFreelancer: Number(b.AmountToFreelancer),
	}
}

// TierView is the external JSON shape of a tier
type TierView struct {
	// From is the inclusive lower bound
	From json.Number `json:"from"`

	// UpTo is the exclusive upper bound, absent for the last tier
	UpTo *json.Number `json:"upTo,omitempty"`

	Percentage int64 `json:"percentage"`
}

// NewTierViews converts a tier table to its JSON shape
func NewTierViews(table *charge.Table) []TierView {
	tiers := table.Tiers()
	views := make([]TierView, len(tiers))
	for i, tier := range tiers {
		views[i] = TierView{
			From:       Number(table.LowerBound(i)),
			Percentage: tier.Percentage,
		}
		if !tier.Unbounded {
			upTo := Number(tier.UpTo)
			views[i].UpTo = &upTo
		}
	}
	return views
}

// MilestoneView is the external JSON shape of a milestone quote
type MilestoneView struct {
	MilestoneID string        `json:"milestoneId"`
	Title       string        `json:"title,omitempty"`
	Breakdown   BreakdownView `json:"breakdown"`
}

// ProjectView is the external JSON shape of a project quote
type ProjectView struct {
	ProjectID       string          `json:"projectId"`
	Currency        types.Currency  `json:"currency"`
	Budget          json.Number     `json:"budget"`
	Percentage      int64           `json:"percentage"`
	Milestones      []MilestoneView `json:"milestones"`
	TotalMilestones json.Number     `json:"totalMilestones"`
	TotalCharges    json.Number     `json:"totalCharges"`
	TotalPayable    json.Number     `json:"totalPayable"`
	OverBudget      bool            `json:"overBudget"`
}

// NewProjectView converts a project quote to its JSON shape
func NewProjectView(q *charge.ProjectQuote) ProjectView {
	v := ProjectView{
		ProjectID:       q.ProjectID,
		Currency:        q.Currency,
		Budget:          Number(q.Budget),
		Percentage:      q.Percentage,
		Milestones:      make([]MilestoneView, len(q.Milestones)),
		TotalMilestones: Number(q.TotalMilestones),
		TotalCharges:    Number(q.TotalCharges),
		TotalPayable:    Number(q.TotalPayable),
		OverBudget:      q.OverBudget,
	}
	for i, m := range q.Milestones {
		v.Milestones[i] = MilestoneView{
			MilestoneID: m.MilestoneID,
			Title:       m.Title,
			Breakdown:   NewBreakdownView("", m.Breakdown),
		}
	}
	return v
}
