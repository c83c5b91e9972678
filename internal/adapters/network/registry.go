package network

import (
	"fmt"
	"sort"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// Registry is the immutable chainId -> NetworkProfile table
type Registry struct {
	profiles map[uint64]domain.NetworkProfile
}

// NewRegistry builds the registry from the configured [chains] table
func NewRegistry(cfg *config.RuntimeConfig) (*Registry, error) {
	return NewRegistryFromProfiles(cfg.Chains)
}

// NewRegistryFromProfiles builds a registry, rejecting duplicate chain ids
func NewRegistryFromProfiles(profiles []domain.NetworkProfile) (*Registry, error) {
	r := &Registry{profiles: make(map[uint64]domain.NetworkProfile, len(profiles))}
	for _, p := range profiles {
		if existing, ok := r.profiles[p.ChainID]; ok {
			return nil, &domain.ConfigurationError{
				ChainID: p.ChainID,
				Reason:  fmt.Sprintf("chain id listed twice (%s, %s)", existing.Name, p.Name),
			}
		}
		r.profiles[p.ChainID] = p
	}
	return r, nil
}

// Lookup returns the profile for chainID or domain.ErrNotFound
func (r *Registry) Lookup(chainID uint64) (domain.NetworkProfile, error) {
	p, ok := r.profiles[chainID]
	if !ok {
		return domain.NetworkProfile{}, fmt.Errorf("chain %d: %w", chainID, domain.ErrNotFound)
	}
	return p, nil
}

// Profiles returns all entries ordered by chain id
func (r *Registry) Profiles() []domain.NetworkProfile {
	out := make([]domain.NetworkProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

var _ usecase.NetworkRegistry = (*Registry)(nil)
