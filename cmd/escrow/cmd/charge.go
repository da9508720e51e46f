package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"escrow-charge/core/charge"
	"escrow-charge/core/output"
	"escrow-charge/core/types"
	"escrow-charge/internal/config"
	"escrow-charge/internal/errors"
	"escrow-charge/internal/logging"
)

var (
	chargeAmount   string
	chargeBudget   string
	chargeCurrency string
)

// chargeCmd computes a single breakdown
var chargeCmd = &cobra.Command{
	Use:   "charge",
	Short: "Compute the service charge for one milestone payment",
	Long: `Compute the service charge for a milestone payment.

The percentage is selected by the project budget:
  below 5,000        8%
  5,000 - 19,999     6%
  20,000 - 49,999    5%
  50,000 - 99,999    4%
  100,000 and above  3%

Examples:
  escrow charge --amount 1500 --budget 3000
  escrow charge -a 25000 -b 75000 --format json`,
	Args: cobra.NoArgs,
	RunE: runCharge,
}

func init() {
	chargeCmd.Flags().StringVarP(&chargeAmount, "amount", "a", "", "milestone amount")
	chargeCmd.Flags().StringVarP(&chargeBudget, "budget", "b", "", "project budget")
	chargeCmd.Flags().StringVarP(&chargeCurrency, "currency", "c", "", "currency code (default from config)")
	_ = chargeCmd.MarkFlagRequired("amount")
	_ = chargeCmd.MarkFlagRequired("budget")
}

func runCharge(cmd *cobra.Command, args []string) error {
	formatter, err := output.New(outputFormat)
	if err != nil {
		return err
	}
	currency, err := resolveCurrency(chargeCurrency)
	if err != nil {
		return err
	}

	amount, err := charge.ParseAmount(chargeAmount)
	if err != nil {
		return err
	}
	budget, err := charge.ParseBudget(chargeBudget)
	if err != nil {
		return err
	}

	b, err := charge.CalculateServiceCharge(amount, budget)
	if err != nil {
		return err
	}
	logging.Debug("service charge computed",
		logging.Money("milestone_amount", b.MilestoneAmount),
		logging.Money("project_budget", b.ProjectBudget),
		zap.Int64("percentage", b.Percentage),
	)

	return formatter.RenderBreakdown(cmd.OutOrStdout(), currency, b)
}

// resolveCurrency returns the flag value or the configured default
func resolveCurrency(flag string) (types.Currency, error) {
	if flag == "" {
		return config.Get().Charge.Currency, nil
	}
	c, ok := types.ParseCurrency(flag)
	if !ok {
		return "", errors.Input("unsupported currency " + flag)
	}
	return c, nil
}
