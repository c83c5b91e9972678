package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// OracleSource yields the ETH/USD price feed FundMe is constructed with
type OracleSource interface {
	Resolve(ctx context.Context, chainID uint64) (common.Address, error)
	Kind() string
}

// MockOracleSource returns the aggregator provisioned on the development chain
type MockOracleSource struct {
	store   DeploymentStore
	network string
}

func (s *MockOracleSource) Kind() string { return "mock" }

func (s *MockOracleSource) Resolve(ctx context.Context, _ uint64) (common.Address, error) {
	rec, err := s.store.Get(ctx, domain.MockV3AggregatorContract)
	if errors.Is(err, domain.ErrNotFound) {
		return common.Address{}, fmt.Errorf("%w: %s is not deployed on %s, run the mocks step first",
			domain.ErrOrderingViolation, domain.MockV3AggregatorContract, s.network)
	}
	if err != nil {
		return common.Address{}, err
	}
	return rec.Address, nil
}

// RegistryOracleSource returns the feed recorded for the chain in the registry
type RegistryOracleSource struct {
	registry NetworkRegistry
	network  string
}

func (s *RegistryOracleSource) Kind() string { return "registry" }

func (s *RegistryOracleSource) Resolve(_ context.Context, chainID uint64) (common.Address, error) {
	profile, err := s.registry.Lookup(chainID)
	if errors.Is(err, domain.ErrNotFound) {
		return common.Address{}, &domain.ConfigurationError{
			Network: s.network,
			ChainID: chainID,
			Reason:  fmt.Sprintf("no [chains.%d] entry in the network registry", chainID),
		}
	}
	if err != nil {
		return common.Address{}, err
	}
	if profile.OracleAddress == nil {
		return common.Address{}, &domain.ConfigurationError{
			Network: s.network,
			ChainID: chainID,
			Reason:  "registry entry has no eth_usd_price_feed",
		}
	}
	return *profile.OracleAddress, nil
}

// ResolveOracle picks the oracle resolution path of a run
type ResolveOracle struct {
	cfg      *config.RuntimeConfig
	registry NetworkRegistry
}

// NewResolveOracle creates a new ResolveOracle use case
func NewResolveOracle(cfg *config.RuntimeConfig, registry NetworkRegistry) *ResolveOracle {
	return &ResolveOracle{cfg: cfg, registry: registry}
}

// Source selects the mock path for development networks and the registry path
// for everything else
func (uc *ResolveOracle) Source(store DeploymentStore, networkName string) OracleSource {
	if uc.cfg.IsDevelopmentNetwork(networkName) {
		return &MockOracleSource{store: store, network: networkName}
	}
	return &RegistryOracleSource{registry: uc.registry, network: networkName}
}

// ResolveOracleAddress returns the price feed address for the network
func (uc *ResolveOracle) ResolveOracleAddress(ctx context.Context, store DeploymentStore, networkName string, chainID uint64) (common.Address, error) {
	return uc.Source(store, networkName).Resolve(ctx, chainID)
}
