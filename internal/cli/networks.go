package cli

import (
	"github.com/spf13/cobra"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List the chain registry and the development networks",
		Long: `List every chain of the [chains] registry in fundme.toml together with its
ETH/USD price feed, plus the development networks that deploy a mock instead.

The active network is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	return cmd
}
