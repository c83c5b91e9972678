package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// VerifyResult is the outcome of verifying one deployment
type VerifyResult struct {
	Record *domain.DeploymentRecord
	Status domain.VerificationStatus
	Reason string
	// Err holds a *domain.VerificationFailure. It never fails the caller.
	Err error
}

// VerifyParams contains parameters for the verify command
type VerifyParams struct {
	// ContractName is prompted for among the recorded deployments when empty
	ContractName string
}

// VerifyDeployment submits recorded deployments to the block explorer
type VerifyDeployment struct {
	cfg       *config.RuntimeConfig
	verifier  ContractVerifier
	artifacts ArtifactLoader
	envs      EnvironmentFactory
	selector  DeploymentSelector
	progress  ProgressSink
	log       *slog.Logger
}

// NewVerifyDeployment creates a new VerifyDeployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	verifier ContractVerifier,
	artifacts ArtifactLoader,
	envs EnvironmentFactory,
	selector DeploymentSelector,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		cfg:       cfg,
		verifier:  verifier,
		artifacts: artifacts,
		envs:      envs,
		selector:  selector,
		progress:  progress,
		log:       log,
	}
}

// Run verifies the recorded deployment of a contract on the active network
func (uc *VerifyDeployment) Run(ctx context.Context, params VerifyParams) (*VerifyResult, error) {
	store, err := uc.envs.RecordStore(ctx)
	if err != nil {
		return nil, err
	}

	record, err := uc.findRecord(ctx, store, params.ContractName)
	if err != nil {
		return nil, err
	}

	artifact, err := uc.artifacts.Load(record.ContractName)
	if err != nil {
		return nil, err
	}

	return uc.VerifyRecord(ctx, store, record, artifact)
}

func (uc *VerifyDeployment) findRecord(ctx context.Context, store DeploymentStore, contractName string) (*domain.DeploymentRecord, error) {
	if contractName != "" {
		record, err := store.Get(ctx, contractName)
		if err != nil {
			return nil, fmt.Errorf("no deployment of %s on %s: %w", contractName, uc.cfg.Network.Name, err)
		}
		return record, nil
	}

	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no deployments on %s: %w", uc.cfg.Network.Name, domain.ErrNotFound)
	}
	return uc.selector.SelectDeployment(ctx, records, "Select a deployment to verify")
}

// VerifyRecord verifies a record and stores the new verification status.
// Development networks and a missing explorer key skip verification.
func (uc *VerifyDeployment) VerifyRecord(ctx context.Context, store DeploymentStore, record *domain.DeploymentRecord, artifact *domain.Artifact) (*VerifyResult, error) {
	switch {
	case uc.cfg.IsDevelopmentNetwork(record.Network):
		return &VerifyResult{Record: record, Status: domain.VerificationStatusSkipped, Reason: "development network"}, nil
	case !uc.cfg.Etherscan.Enabled():
		return &VerifyResult{Record: record, Status: domain.VerificationStatusSkipped, Reason: "no explorer API key configured"}, nil
	case record.Verification.Status == domain.VerificationStatusVerified:
		return &VerifyResult{Record: record, Status: domain.VerificationStatusVerified, Reason: "already verified"}, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "verify",
		Message: fmt.Sprintf("Verifying %s at %s", record.ContractName, record.Address.Hex()),
		Spinner: true,
	})
	err := uc.verifier.Verify(ctx, record, artifact)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "verify"})

	result := &VerifyResult{Record: record}
	switch {
	case err == nil:
		result.Status = domain.VerificationStatusVerified
	case errors.Is(err, domain.ErrAlreadyVerified):
		result.Status = domain.VerificationStatusVerified
		result.Reason = "already verified"
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		result.Status = domain.VerificationStatusFailed
		result.Err = &domain.VerificationFailure{Contract: record.ContractName, Address: record.Address, Err: err}
		result.Reason = err.Error()
	}

	record.Verification = domain.VerificationInfo{Status: result.Status, Reason: result.Reason}
	if result.Status == domain.VerificationStatusVerified {
		now := time.Now().UTC()
		record.Verification.VerifiedAt = &now
		uc.progress.Info(fmt.Sprintf("Verified %s at %s", record.ContractName, record.Address.Hex()))
	}
	if err := store.Save(ctx, record); err != nil {
		uc.log.Warn("failed to store verification status", "contract", record.ContractName, "error", err)
	}
	return result, nil
}
