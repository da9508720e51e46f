package cmd

import (
	"github.com/spf13/cobra"

	"escrow-charge/core/charge"
	"escrow-charge/core/output"
)

// tiersCmd prints the tier table
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the service-charge tier table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := output.New(outputFormat)
		if err != nil {
			return err
		}
		return formatter.RenderTiers(cmd.OutOrStdout(), charge.DefaultTable())
	},
}
