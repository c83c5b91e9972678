package cli

import (
	"github.com/spf13/cobra"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli/render"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [contract]",
		Short: "Verify a recorded deployment on Etherscan",
		Long: `Submit the source of a recorded deployment to Etherscan and store the result.

Without a contract name you are prompted to pick one of the network's deployments.

Examples:
  fundme verify FundMe --network sepolia
  fundme verify --network sepolia`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.VerifyParams{}
			if len(args) == 1 {
				params.ContractName = args[0]
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			if err := render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result); err != nil {
				return err
			}
			return result.Err
		},
	}

	return cmd
}
