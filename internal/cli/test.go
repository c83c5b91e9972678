package cli

import (
	"github.com/spf13/cobra"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli/render"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the FundMe test suite for the active network",
		Long: `Run the unit suite on development networks and the staging suite on live networks.

Unit tests deploy a fresh MockV3Aggregator and FundMe for every case.
Staging tests attach to the recorded FundMe deployment, so run deploy first.

Examples:
  fundme test                            # Unit suite on the simulated chain
  fundme test --grep withdraw            # Only cases whose title contains "withdraw"
  fundme test --network sepolia          # Staging suite against the live deployment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			report, err := app.RunTests.Run(cmd.Context(), usecase.RunTestsParams{Grep: app.Config.Grep})
			if err != nil {
				return err
			}

			if err := render.NewTestRenderer(cmd.OutOrStdout()).Render(report); err != nil {
				return err
			}
			return report.Err()
		},
	}

	cmd.Flags().StringP("grep", "g", "", "Only run tests whose title contains this text")

	return cmd
}
