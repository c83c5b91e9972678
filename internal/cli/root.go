package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/app"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fundme",
		Short: "Deploy and test the FundMe contract",
		Long: `fundme deploys the FundMe crowdfunding contract and its price feed mock,
verifies it on Etherscan and runs the unit and staging test suites.

Development networks (simulated, localhost) get a MockV3Aggregator price feed.
Live networks use the ETH/USD feed of the chain registry in fundme.toml.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g. simulated, localhost, sepolia)")
	rootCmd.PersistentFlags().String("config", "", "Path of the project file (default fundme.toml)")
	rootCmd.PersistentFlags().String("deployments-dir", "", "Directory of the deployment records (default deployments)")
	rootCmd.PersistentFlags().String("artifacts-dir", "", "Directory of the compiled contract artifacts (default artifacts)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewTestCmd(), NewVerifyCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	// Management commands
	for _, cmd := range []*cobra.Command{NewNetworksCmd(), NewDeploymentsCmd(), NewNodeCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initApp resolves the configuration and wires the app into the command context
func initApp(cmd *cobra.Command, _ []string) error {
	if skipsApp(cmd) {
		return nil
	}

	if f := cmd.Flag("no-color"); f != nil && f.Changed {
		color.NoColor = true
	}

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	v := config.SetupViper(projectRoot, cmd)

	appInstance, err := app.InitApp(v)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), appKey, appInstance)

	// Add timeout if configured
	if appInstance.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
		cmd.PostRun = func(*cobra.Command, []string) {
			cancel()
		}
	}

	cmd.SetContext(ctx)
	return nil
}

// skipsApp reports whether cmd runs without a project configuration
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
