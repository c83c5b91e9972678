package usecase

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Active   string
	Networks []NetworkStatus
}

// NetworkStatus joins a configured network with its registry entry
type NetworkStatus struct {
	Name          string
	ChainID       uint64
	Development   bool
	Confirmations uint64
	// Profile is nil when the registry has no entry for the chain
	Profile *domain.NetworkProfile
}

// ListNetworks is a use case for listing the registry and the development networks
type ListNetworks struct {
	cfg      *config.RuntimeConfig
	registry NetworkRegistry
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, registry NetworkRegistry) *ListNetworks {
	return &ListNetworks{cfg: cfg, registry: registry}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	active := uc.cfg.Network
	result := &ListNetworksResult{Active: active.Name}

	for _, profile := range uc.registry.Profiles() {
		p := profile
		status := NetworkStatus{
			Name:        p.Name,
			ChainID:     p.ChainID,
			Development: uc.cfg.IsDevelopmentNetwork(p.Name),
			Profile:     &p,
		}
		if p.ChainID == active.ChainID {
			status.Name = active.Name
			status.Confirmations = active.Confirmations()
		}
		result.Networks = append(result.Networks, status)
	}

	listed := func(name string) bool {
		return slices.ContainsFunc(result.Networks, func(s NetworkStatus) bool { return s.Name == name })
	}
	if !listed(active.Name) {
		result.Networks = append(result.Networks, NetworkStatus{
			Name:          active.Name,
			ChainID:       active.ChainID,
			Development:   uc.cfg.IsDevelopment(),
			Confirmations: active.Confirmations(),
		})
	}
	for _, name := range lo.Reject(uc.cfg.DevelopmentNetworks, func(name string, _ int) bool { return listed(name) }) {
		result.Networks = append(result.Networks, NetworkStatus{Name: name, Development: true})
	}

	return result, nil
}
