package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

const separator = "-------------------------------------"

// ProvisionResult is the outcome of the mocks step
type ProvisionResult struct {
	Record  *domain.DeploymentRecord
	Skipped bool
}

// ProvisionMocks deploys the MockV3Aggregator price feed on development networks
type ProvisionMocks struct {
	cfg       *config.RuntimeConfig
	artifacts ArtifactLoader
	log       *slog.Logger
}

// NewProvisionMocks creates a new ProvisionMocks use case
func NewProvisionMocks(cfg *config.RuntimeConfig, artifacts ArtifactLoader, log *slog.Logger) *ProvisionMocks {
	return &ProvisionMocks{cfg: cfg, artifacts: artifacts, log: log}
}

// ProvisionIfDevelopment deploys MockV3Aggregator(decimals, initialAnswer) when
// the environment is a development network, otherwise it reports skipped
func (uc *ProvisionMocks) ProvisionIfDevelopment(ctx context.Context, sc *StepContext) (*ProvisionResult, error) {
	env := sc.Env
	if !uc.cfg.IsDevelopmentNetwork(env.Network.Name) {
		uc.log.Debug("skipping mocks on live network", "network", env.Network.Name)
		return &ProvisionResult{Skipped: true}, nil
	}

	sc.Progress.Info("Local network detected! Deploying mocks...")

	artifact, err := uc.artifacts.Load(domain.MockV3AggregatorContract)
	if err != nil {
		return nil, err
	}

	record, err := env.Deployer.Deploy(ctx, DeployRequest{
		Artifact:      artifact,
		Args:          []any{uc.cfg.Mock.Decimals, big.NewInt(uc.cfg.Mock.InitialAnswer)},
		Confirmations: env.Network.Confirmations(),
		Force:         sc.Force,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", domain.MockV3AggregatorContract, err)
	}
	sc.Progress.Info(describeDeployment(record))

	sc.Progress.Info("Mocks deployed!")
	sc.Progress.Info(separator)

	return &ProvisionResult{Record: record}, nil
}

// describeDeployment renders the per-contract deploy log line
func describeDeployment(r *domain.DeploymentRecord) string {
	if r.Reused {
		return fmt.Sprintf("reusing %q at %s", r.ContractName, r.Address.Hex())
	}
	return fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
		r.ContractName, r.TransactionHash.Hex(), r.Address.Hex(), r.GasUsed)
}
