package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/harness"
)

// NetworkRegistry looks up the static per-chain configuration
type NetworkRegistry interface {
	// Lookup returns domain.ErrNotFound when the chain has no entry
	Lookup(chainID uint64) (domain.NetworkProfile, error)
	Profiles() []domain.NetworkProfile
}

// DeploymentStore persists deployment records of one network
type DeploymentStore interface {
	// Get returns domain.ErrNotFound when the contract was never deployed
	Get(ctx context.Context, contractName string) (*domain.DeploymentRecord, error)
	Save(ctx context.Context, record *domain.DeploymentRecord) error
	List(ctx context.Context) ([]*domain.DeploymentRecord, error)
	Reset(ctx context.Context) error
}

// ArtifactLoader reads compiled contracts
type ArtifactLoader interface {
	Load(contractName string) (*domain.Artifact, error)
}

// DeployRequest describes one contract creation
type DeployRequest struct {
	Artifact      *domain.Artifact
	Args          []any
	Confirmations uint64
	// Force skips the reuse check and always sends a new transaction
	Force bool
}

// ContractDeployer submits creation transactions and records the result
type ContractDeployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*domain.DeploymentRecord, error)
}

// ContractVerifier submits contract sources to a block explorer
type ContractVerifier interface {
	Verify(ctx context.Context, record *domain.DeploymentRecord, artifact *domain.Artifact) error
}

// ChainClient is the RPC surface used against a network
type ChainClient interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

// Environment is an opened network session
type Environment struct {
	Network  *config.Network
	ChainID  uint64
	Client   ChainClient
	Accounts []domain.Signer
	Deployer ContractDeployer
	Store    DeploymentStore
}

// Close releases the chain connection
func (e *Environment) Close() {
	if e.Client != nil {
		e.Client.Close()
	}
}

// OpenOptions tunes how an environment is opened
type OpenOptions struct {
	// Fresh starts from a new in-process chain and an empty in-memory store
	Fresh bool
	// Reset skips loading the persisted records. The run resets the store
	// before deploying, so a directory written for another chain is accepted.
	Reset bool
}

// EnvironmentFactory connects to the active network
type EnvironmentFactory interface {
	Open(ctx context.Context, opts OpenOptions) (*Environment, error)
	// RecordStore returns the persisted records of the active network without dialing it
	RecordStore(ctx context.Context) (DeploymentStore, error)
}

// ContractBinder attaches harness bindings to deployed contracts
type ContractBinder interface {
	BindFundMe(record *domain.DeploymentRecord, artifact *domain.Artifact, client ChainClient, chainID uint64) (harness.FundMe, error)
}

// GasReporter collects gas usage and writes the report
type GasReporter interface {
	harness.GasRecorder
	Write(ctx context.Context) error
}

// Confirmer asks the user before irreversible actions
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// AnvilManager controls the local anvil node behind the localhost network
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
}

// DeploymentSelector lets the user pick one of several records
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, records []*domain.DeploymentRecord, prompt string) (*domain.DeploymentRecord, error)
}
