package usecase

import (
	"context"
	"sort"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// DeploymentListResult contains the recorded deployments of the active network
type DeploymentListResult struct {
	Network     string
	Deployments []*domain.DeploymentRecord
	Summary     DeploymentSummary
}

// DeploymentSummary counts the listed deployments by verification status
type DeploymentSummary struct {
	Total    int
	ByStatus map[domain.VerificationStatus]int
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	cfg  *config.RuntimeConfig
	envs EnvironmentFactory
	sink ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, envs EnvironmentFactory, sink ProgressSink) *ListDeployments {
	return &ListDeployments{cfg: cfg, envs: envs, sink: sink}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment records",
		Spinner: true,
	})
	defer uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})

	store, err := uc.envs.RecordStore(ctx)
	if err != nil {
		return nil, err
	}
	deployments, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	sortDeployments(deployments)

	return &DeploymentListResult{
		Network:     uc.cfg.Network.Name,
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments orders the price feed before its consumers, then by name
func sortDeployments(deployments []*domain.DeploymentRecord) {
	rank := func(name string) int {
		switch name {
		case domain.MockV3AggregatorContract:
			return 0
		case domain.FundMeContract:
			return 1
		}
		return 2
	}
	sort.SliceStable(deployments, func(i, j int) bool {
		ri, rj := rank(deployments[i].ContractName), rank(deployments[j].ContractName)
		if ri != rj {
			return ri < rj
		}
		return deployments[i].ContractName < deployments[j].ContractName
	})
}

func calculateSummary(deployments []*domain.DeploymentRecord) DeploymentSummary {
	summary := DeploymentSummary{Total: len(deployments), ByStatus: map[domain.VerificationStatus]int{}}
	for _, d := range deployments {
		status := d.Verification.Status
		if status == "" {
			status = domain.VerificationStatusUnverified
		}
		summary.ByStatus[status]++
	}
	return summary
}
