package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli/render"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the tagged contracts to the active network",
		Long: `Run the deployment steps selected by --tags against the active network.

Steps:
  mocks    MockV3Aggregator price feed, development networks only   (tags: all, mocks)
  fundme   FundMe against the resolved price feed                  (tags: all, fundme)

Selecting fundme also runs mocks. On live networks FundMe is verified on
Etherscan when an API key is configured.

Examples:
  fundme deploy                          # Deploy everything on the simulated chain
  fundme deploy --tags mocks             # Only the price feed mock
  fundme deploy --network sepolia        # Deploy FundMe against the Sepolia feed
  fundme deploy --network localhost --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeployParams{
				Tags:  app.Config.Tags,
				Reset: app.Config.Reset,
				Force: app.Config.Force,
			}
			result, err := app.DeployContracts.Run(cmd.Context(), params)
			if errors.Is(err, usecase.ErrDeploymentCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Deployment cancelled"))
				return nil
			}
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSlice("tags", nil, "Deployment tags to run: all, mocks, fundme (default all)")
	cmd.Flags().Bool("reset", false, "Delete the network's deployment records before deploying")
	cmd.Flags().Bool("force", false, "Redeploy even when an identical deployment exists")
	cmd.Flags().String("plan", "", "Deploy plan file overriding step tags and dependencies")

	return cmd
}
