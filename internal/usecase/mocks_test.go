package usecase_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/deployments"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

var sepoliaFeed = common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")

func devConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network:             &config.Network{Name: config.SimulatedNetwork, ChainID: 1337, BlockConfirmations: 1},
		DevelopmentNetworks: []string{config.SimulatedNetwork, "localhost"},
		Mock:                config.MockConfig{Decimals: 8, InitialAnswer: 200000000000},
		NonInteractive:      true,
	}
}

func liveConfig() *config.RuntimeConfig {
	cfg := devConfig()
	cfg.Network = &config.Network{Name: "sepolia", ChainID: 11155111, BlockConfirmations: 6}
	cfg.NonInteractive = false
	cfg.Etherscan = config.EtherscanConfig{APIKey: "key"}
	return cfg
}

// MockNetworkRegistry is a mock implementation of NetworkRegistry
type MockNetworkRegistry struct {
	mock.Mock
}

func (m *MockNetworkRegistry) Lookup(chainID uint64) (domain.NetworkProfile, error) {
	args := m.Called(chainID)
	return args.Get(0).(domain.NetworkProfile), args.Error(1)
}

func (m *MockNetworkRegistry) Profiles() []domain.NetworkProfile {
	args := m.Called()
	return args.Get(0).([]domain.NetworkProfile)
}

// MockVerifier is a mock implementation of ContractVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, record *domain.DeploymentRecord, artifact *domain.Artifact) error {
	args := m.Called(ctx, record, artifact)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(message string) (bool, error) {
	args := m.Called(message)
	return args.Bool(0), args.Error(1)
}

// MockSelector is a mock implementation of DeploymentSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectDeployment(ctx context.Context, records []*domain.DeploymentRecord, prompt string) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx, records, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

// MockAnvilManager is a mock implementation of AnvilManager
type MockAnvilManager struct {
	mock.Mock
}

func (m *MockAnvilManager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockAnvilManager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockAnvilManager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnvilStatus), args.Error(1)
}

// fakeArtifacts serves artifacts by contract name
type fakeArtifacts map[string]*domain.Artifact

func newFakeArtifacts() fakeArtifacts {
	return fakeArtifacts{
		domain.MockV3AggregatorContract: {ContractName: domain.MockV3AggregatorContract, Bytecode: []byte{0x01}},
		domain.FundMeContract:           {ContractName: domain.FundMeContract, Bytecode: []byte{0x02}},
	}
}

func (f fakeArtifacts) Load(name string) (*domain.Artifact, error) {
	a, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("artifact %s: %w", name, domain.ErrNotFound)
	}
	return a, nil
}

// fakeDeployer assigns sequential addresses and saves records like the chain deployer
type fakeDeployer struct {
	store   usecase.DeploymentStore
	network string
	chainID uint64

	mu       sync.Mutex
	requests []usecase.DeployRequest
	fail     map[string]error
}

func (d *fakeDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*domain.DeploymentRecord, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	n := len(d.requests)
	d.mu.Unlock()

	if err := d.fail[req.Artifact.ContractName]; err != nil {
		return nil, err
	}

	args := make([]string, len(req.Args))
	for i, a := range req.Args {
		args[i] = fmt.Sprint(a)
	}
	rec := &domain.DeploymentRecord{
		ContractName:        req.Artifact.ContractName,
		Address:             common.BigToAddress(big.NewInt(int64(n))),
		Args:                args,
		ConfirmationsWaited: req.Confirmations,
		Network:             d.network,
		ChainID:             d.chainID,
		GasUsed:             uint64(100000 * n),
		Verification:        domain.VerificationInfo{Status: domain.VerificationStatusUnverified},
	}
	if err := d.store.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *fakeDeployer) names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.requests))
	for i, r := range d.requests {
		out[i] = r.Artifact.ContractName
	}
	return out
}

// fakeEnvs opens environments over one shared store
type fakeEnvs struct {
	cfg      *config.RuntimeConfig
	store    usecase.DeploymentStore
	deployer *fakeDeployer
	accounts []domain.Signer
	opens    []usecase.OpenOptions
	openErr  error
}

func newFakeEnvs(cfg *config.RuntimeConfig) *fakeEnvs {
	store := deployments.NewMemoryRepository(cfg.Network.Name)
	return &fakeEnvs{
		cfg:   cfg,
		store: store,
		deployer: &fakeDeployer{
			store:   store,
			network: cfg.Network.Name,
			chainID: cfg.Network.ChainID,
		},
	}
}

func (f *fakeEnvs) Open(ctx context.Context, opts usecase.OpenOptions) (*usecase.Environment, error) {
	f.opens = append(f.opens, opts)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &usecase.Environment{
		Network:  f.cfg.Network,
		ChainID:  f.cfg.Network.ChainID,
		Accounts: f.accounts,
		Deployer: f.deployer,
		Store:    f.store,
	}, nil
}

func (f *fakeEnvs) RecordStore(ctx context.Context) (usecase.DeploymentStore, error) {
	return f.store, nil
}

// recordingProgress collects progress output
type recordingProgress struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (p *recordingProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingProgress) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, message)
}

func (p *recordingProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, message)
}
