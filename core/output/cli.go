package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"escrow-charge/core/charge"
	"escrow-charge/core/types"
)

// CLIFormatter renders aligned text tables
type CLIFormatter struct{}

func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func (f *CLIFormatter) RenderBreakdown(w io.Writer, currency types.Currency, b charge.Breakdown) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Project budget\t%s\n", Money(b.ProjectBudget, currency))
	fmt.Fprintf(tw, "Milestone amount\t%s\n", Money(b.MilestoneAmount, currency))
	fmt.Fprintf(tw, "Service charge (%d%%)\t%s\n", b.Percentage, Money(b.ServiceCharge, currency))
	fmt.Fprintf(tw, "Total payable\t%s\n", Money(b.TotalAmount, currency))
	fmt.Fprintf(tw, "Freelancer receives\t%s\n", Money(b.AmountToFreelancer, currency))
	return tw.Flush()
}

func (f *CLIFormatter) RenderTiers(w io.Writer, table *charge.Table) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "BUDGET FROM\tBUDGET BELOW\tCHARGE")
	for i, tier := range table.Tiers() {
		below := "-"
		if !tier.Unbounded {
			below = Money(tier.UpTo, "")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d%%\n", Money(table.LowerBound(i), ""), below, tier.Percentage)
	}
	return tw.Flush()
}

func (f *CLIFormatter) RenderProjects(w io.Writer, quotes []*charge.ProjectQuote) error {
	for i, q := range quotes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Project %s (budget %s, %d%% service charge)\n",
			q.ProjectID, Money(q.Budget, q.Currency), q.Percentage)

		tw := newTabWriter(w)
		fmt.Fprintln(tw, "MILESTONE\tAMOUNT\tCHARGE\tTOTAL")
		for _, m := range q.Milestones {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.MilestoneID,
				Money(m.Breakdown.MilestoneAmount, ""),
				Money(m.Breakdown.ServiceCharge, ""),
				Money(m.Breakdown.TotalAmount, ""))
		}
		fmt.Fprintf(tw, "TOTAL\t%s\t%s\t%s\n",
			Money(q.TotalMilestones, ""), Money(q.TotalCharges, ""), Money(q.TotalPayable, ""))
		if err := tw.Flush(); err != nil {
			return err
		}
		if q.OverBudget {
			fmt.Fprintf(w, "Warning: milestones exceed the project budget by %s\n",
				Money(q.TotalMilestones.Sub(q.Budget), q.Currency))
		}
	}
	return nil
}
