package environment

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/blockchain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/deployments"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/senders"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// Builder opens sessions on the active network
type Builder struct {
	cfg     *config.RuntimeConfig
	senders *senders.Service
	log     *slog.Logger
}

// NewBuilder creates a new environment builder
func NewBuilder(cfg *config.RuntimeConfig, senders *senders.Service, log *slog.Logger) *Builder {
	return &Builder{cfg: cfg, senders: senders, log: log}
}

// Open connects to the network and wires a deployer for the named deployer
// account. The in-process network starts a new chain on every call.
func (b *Builder) Open(ctx context.Context, opts usecase.OpenOptions) (*usecase.Environment, error) {
	network := b.cfg.Network

	accounts, err := b.senders.Signers()
	if err != nil {
		return nil, err
	}
	accounts, err = b.deployerFirst(accounts)
	if err != nil {
		return nil, err
	}

	client, chainID, err := b.connect(ctx, network, accounts)
	if err != nil {
		return nil, err
	}

	store, err := b.store(network, chainID, opts)
	if err != nil {
		client.Close()
		return nil, err
	}

	waiter := &blockchain.Waiter{
		Client:       client,
		PollInterval: b.cfg.PollInterval,
		Mine:         b.cfg.IsDevelopment(),
	}
	b.log.Debug("environment opened",
		"network", network.Name,
		"chain", chainID,
		"deployer", accounts[0].Address().Hex(),
		"fresh", opts.Fresh,
	)

	return &usecase.Environment{
		Network:  network,
		ChainID:  chainID,
		Client:   client,
		Accounts: accounts,
		Deployer: blockchain.NewDeployer(client, accounts[0], network, chainID, store, waiter, b.log),
		Store:    store,
	}, nil
}

// RecordStore returns the persisted records without dialing the network
func (b *Builder) RecordStore(ctx context.Context) (usecase.DeploymentStore, error) {
	network := b.cfg.Network
	if network.IsSimulated() {
		return deployments.NewMemoryRepository(network.Name), nil
	}
	return deployments.NewFileRepository(b.cfg.DeploymentsDir, network.Name, network.ChainID)
}

func (b *Builder) connect(ctx context.Context, network *config.Network, accounts []domain.Signer) (usecase.ChainClient, uint64, error) {
	if !network.IsSimulated() {
		return blockchain.Dial(ctx, network)
	}

	sim := blockchain.NewSimulated(lo.Map(accounts, func(s domain.Signer, _ int) common.Address { return s.Address() }), nil)
	id, err := sim.ChainID(ctx)
	if err != nil {
		sim.Close()
		return nil, 0, fmt.Errorf("simulated chain: %w", err)
	}
	return sim, id.Uint64(), nil
}

// store picks the record store. The in-process chain and fresh sessions never
// touch the deployments directory.
func (b *Builder) store(network *config.Network, chainID uint64, opts usecase.OpenOptions) (usecase.DeploymentStore, error) {
	if opts.Fresh || network.IsSimulated() {
		return deployments.NewMemoryRepository(network.Name), nil
	}
	if opts.Reset {
		return deployments.NewEmptyFileRepository(b.cfg.DeploymentsDir, network.Name, chainID), nil
	}
	return deployments.NewFileRepository(b.cfg.DeploymentsDir, network.Name, chainID)
}

// deployerFirst moves the named deployer account to index 0
func (b *Builder) deployerFirst(accounts []domain.Signer) ([]domain.Signer, error) {
	deployer, err := b.senders.Named(accounts, "deployer")
	if err != nil {
		return nil, err
	}
	idx := slices.Index(accounts, deployer)
	if idx <= 0 {
		return accounts, nil
	}
	ordered := append([]domain.Signer{deployer}, slices.Delete(slices.Clone(accounts), idx, idx+1)...)
	return ordered, nil
}

var _ usecase.EnvironmentFactory = (*Builder)(nil)
