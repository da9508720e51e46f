package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"escrow-charge/adapters/plan"
	"escrow-charge/core/output"
	"escrow-charge/internal/logging"
)

// planCmd quotes every milestone in an HCL plan file
var planCmd = &cobra.Command{
	Use:   "plan <file.hcl>",
	Short: "Quote every milestone in a milestone plan",
	Long: `Read an HCL milestone plan and compute the service charge of every milestone.

Plan format:
  project "logo-redesign" {
    budget   = 30000
    currency = "USD"

    milestone "sketches" {
      title  = "Initial sketches"
      amount = 10000
    }
  }

Examples:
  escrow plan ./milestones.hcl
  escrow plan --format json ./milestones.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("plan file does not exist: %s", path)
	}

	formatter, err := output.New(outputFormat)
	if err != nil {
		return err
	}

	projects, err := plan.ParseFile(path)
	if err != nil {
		return err
	}
	logging.Debug("plan parsed", zap.String("path", path), zap.Int("projects", len(projects)))

	quotes, err := plan.QuoteAll(projects, nil)
	if err != nil {
		return err
	}
	for _, q := range quotes {
		if q.OverBudget {
			logging.Warn("milestones exceed project budget",
				zap.String("project", q.ProjectID),
				logging.Money("budget", q.Budget),
				logging.Money("milestones", q.TotalMilestones),
			)
		}
	}

	return formatter.RenderProjects(cmd.OutOrStdout(), quotes)
}
