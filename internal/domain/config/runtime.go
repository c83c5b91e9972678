package config

import (
	"time"

	"github.com/samber/lo"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

// SimulatedNetwork is the name of the in-process development chain
const SimulatedNetwork = "simulated"

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	DeploymentsDir string
	ConfigSource   string // path of fundme.toml, empty when running on defaults

	// Active network, always resolved
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	PollInterval   time.Duration

	// Command-specific settings (only populated for relevant commands)
	Tags     []string
	Reset    bool
	Force    bool
	Grep     string
	PlanFile string

	DevelopmentNetworks []string
	Chains              []domain.NetworkProfile
	Mock                MockConfig
	Artifacts           ArtifactsConfig
	Accounts            AccountsConfig
	NamedAccounts       map[string]int
	Etherscan           EtherscanConfig
	GasReporter         GasReporterConfig
	Anvil               AnvilConfig
}

// IsDevelopment reports whether the active network belongs to the development set.
// It is the only switch between the mock and registry paths.
func (c *RuntimeConfig) IsDevelopment() bool {
	if c.Network == nil {
		return false
	}
	return c.IsDevelopmentNetwork(c.Network.Name)
}

// IsDevelopmentNetwork reports whether name is in the development set
func (c *RuntimeConfig) IsDevelopmentNetwork(name string) bool {
	return lo.Contains(c.DevelopmentNetworks, name)
}

// AccountIndex returns the signer index of a named account, defaulting to 0
func (c *RuntimeConfig) AccountIndex(name string) int {
	if idx, ok := c.NamedAccounts[name]; ok {
		return idx
	}
	return 0
}

// Network represents network configuration
type Network struct {
	Name               string `json:"name"`
	ChainID            uint64 `json:"chainId"` // 0 means taken from the node
	RPCURL             string `json:"rpcUrl"`
	RPCEnvVar          string `json:"rpcEnvVar,omitempty"`
	BlockConfirmations uint64 `json:"blockConfirmations"`
	GasLimit           uint64 `json:"gas,omitempty"`
}

// IsSimulated reports whether the network runs in-process
func (n *Network) IsSimulated() bool {
	return n.Name == SimulatedNetwork
}

// Confirmations returns the configured confirmations, at least 1
func (n *Network) Confirmations() uint64 {
	return max(n.BlockConfirmations, 1)
}

// MockConfig holds the MockV3Aggregator constructor arguments
type MockConfig struct {
	Decimals      uint8
	InitialAnswer int64
}

// ArtifactsConfig locates compiled contract artifacts
type ArtifactsConfig struct {
	Dir string
}

// AccountsConfig holds the raw key material for live networks
type AccountsConfig struct {
	PrivateKey string
	Mnemonic   string
	Count      int
}

// EtherscanConfig configures source verification
type EtherscanConfig struct {
	APIKey       string
	URL          string
	PollInterval time.Duration
	MaxAttempts  int
}

// Enabled reports whether verification can run at all
func (e EtherscanConfig) Enabled() bool {
	return e.APIKey != ""
}

// GasReporterConfig configures the gas report written after test runs
type GasReporterConfig struct {
	Enabled          bool
	Currency         string
	OutputFile       string
	NoColors         bool
	CoinMarketCapKey string
	GasPriceGwei     float64
}

// AnvilConfig configures the local node started by `fundme node`
type AnvilConfig struct {
	Port    string
	ChainID uint64
}
