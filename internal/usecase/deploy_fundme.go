package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// DeployFundMe deploys FundMe against the resolved price feed and verifies it
// on live networks
type DeployFundMe struct {
	cfg       *config.RuntimeConfig
	artifacts ArtifactLoader
	verify    *VerifyDeployment
	log       *slog.Logger
}

// NewDeployFundMe creates a new DeployFundMe use case
func NewDeployFundMe(cfg *config.RuntimeConfig, artifacts ArtifactLoader, verify *VerifyDeployment, log *slog.Logger) *DeployFundMe {
	return &DeployFundMe{cfg: cfg, artifacts: artifacts, verify: verify, log: log}
}

// Deploy runs the fundme step
func (uc *DeployFundMe) Deploy(ctx context.Context, sc *StepContext) (*domain.DeploymentRecord, error) {
	env := sc.Env

	sc.Progress.Info(separator)
	sc.Progress.Info("Deploying FundMe and waiting for confirmations...")

	feed, err := sc.Oracle.Resolve(ctx, env.ChainID)
	if err != nil {
		return nil, err
	}
	if len(env.Accounts) > 0 {
		sc.Progress.Info(env.Accounts[0].Address().Hex())
	}
	sc.Progress.Info(feed.Hex())

	artifact, err := uc.artifacts.Load(domain.FundMeContract)
	if err != nil {
		return nil, err
	}

	record, err := env.Deployer.Deploy(ctx, DeployRequest{
		Artifact:      artifact,
		Args:          []any{feed},
		Confirmations: env.Network.Confirmations(),
		Force:         sc.Force,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", domain.FundMeContract, err)
	}
	sc.Progress.Info(describeDeployment(record))
	sc.Progress.Info(fmt.Sprintf("FundMe deployed at %s", record.Address.Hex()))

	if !uc.cfg.IsDevelopmentNetwork(env.Network.Name) && uc.cfg.Etherscan.Enabled() {
		res, err := uc.verify.VerifyRecord(ctx, env.Store, record, artifact)
		if err != nil {
			return nil, err
		}
		if res.Err != nil {
			uc.log.Warn("verification failed", "contract", record.ContractName, "address", record.Address.Hex(), "error", res.Err)
			sc.Progress.Error(res.Err.Error())
		}
	}
	sc.Progress.Info(separator)

	return record, nil
}
