package cli

import (
	"github.com/spf13/cobra"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli/render"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node behind the localhost network",
	}

	cmd.AddCommand(newNodeSubCmd("start", "Start the local anvil node", "Start a local anvil node. Fails if it is already running."))
	cmd.AddCommand(newNodeSubCmd("stop", "Stop the local anvil node", "Stop the local anvil node if it is running."))
	cmd.AddCommand(newNodeSubCmd("restart", "Restart the local anvil node", "Stop and start the local anvil node."))
	cmd.AddCommand(newNodeSubCmd("status", "Show the local anvil node status", "Show the process and RPC health of the local anvil node."))

	return cmd
}

// nodeFlags holds common flags for node commands
type nodeFlags struct {
	name    string
	port    string
	chainID string
}

func newNodeSubCmd(operation, short, long string) *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, operation, flags)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "anvil0", "Instance name (e.g. anvil0, anvil1)")
	cmd.Flags().StringVar(&flags.port, "port", "", "RPC port to bind (default from [anvil] in fundme.toml)")
	cmd.Flags().StringVar(&flags.chainID, "chain-id", "", "Chain ID of the instance (default from [anvil] in fundme.toml)")
	return cmd
}

// runNodeCommand executes an anvil management operation
func runNodeCommand(cmd *cobra.Command, operation string, flags *nodeFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageAnvil.Execute(cmd.Context(), usecase.ManageAnvilParams{
		Operation: operation,
		Name:      flags.name,
		Port:      flags.port,
		ChainID:   flags.chainID,
	})
	if err != nil {
		return err
	}

	return render.NewAnvilRenderer(cmd.OutOrStdout()).Render(result)
}
