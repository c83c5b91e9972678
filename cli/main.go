package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/cli/render"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/config"
)

// Set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		stop()
		os.Exit(1)
	}
}
