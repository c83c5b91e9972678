package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

const (
	// SimulatedChainID is the chain id of the in-process development chain
	SimulatedChainID uint64 = 1337

	DefaultMockDecimals      uint8 = 8
	DefaultMockInitialAnswer int64 = 200000000000

	DefaultEtherscanURL = "https://api.etherscan.io/v2/api"

	// DefaultGasPriceGwei prices the gas report when gas_price_gwei is unset
	DefaultGasPriceGwei = 20.0

	// PlaceholderPrivateKey stands in for an unset PRIVATE_KEY and fails on first use
	PlaceholderPrivateKey = "0xkey"
)

// PlaceholderRPCURL is the URL used for a network whose RPC env var is unset
func PlaceholderRPCURL(network string) string {
	return fmt.Sprintf("https://eth-%s/example", network)
}

// DefaultProjectFile returns the configuration used when fundme.toml is absent
func DefaultProjectFile() *config.ProjectFile {
	return &config.ProjectFile{
		DefaultNetwork:      config.SimulatedNetwork,
		DevelopmentNetworks: []string{config.SimulatedNetwork, "localhost"},
		Networks: map[string]config.NetworkTOML{
			"localhost": {URL: "http://127.0.0.1:8545/", ChainID: 31337},
			"rinkeby":   {URL: "${RINKEBY_RPC_URL}", ChainID: 4, BlockConfirmations: 6, Gas: 6000000},
			"goerli":    {URL: "${GOERLI_RPC_URL}"},
			"sepolia":   {URL: "${SEPOLIA_RPC_URL}", ChainID: 11155111, BlockConfirmations: 6},
		},
		Chains: map[string]config.ChainTOML{
			"4":        {Name: "rinkeby", EthUsdPriceFeed: "0x8A753747A1Fa494EC906cE90E9f37563A8AF630e"},
			"137":      {Name: "polygon", EthUsdPriceFeed: "0xF9680D99D6C9589e2a93a78A04A279e509205945"},
			"11155111": {Name: "sepolia", EthUsdPriceFeed: "0x694AA1769357215DE4FAC081bf1f309aDC325306"},
		},
		NamedAccounts: map[string]int{"deployer": 0},
	}
}

// loadEnvFiles loads .env files first for variable expansion
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile parses fundme.toml. Sections the file leaves out are taken from
// the defaults. The returned source is empty when no file exists.
func loadProjectFile(path string) (*config.ProjectFile, string, error) {
	defaults := DefaultProjectFile()

	var pf config.ProjectFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, "", nil
		}
		return nil, "", fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if pf.DefaultNetwork == "" {
		pf.DefaultNetwork = defaults.DefaultNetwork
	}
	if pf.DevelopmentNetworks == nil {
		pf.DevelopmentNetworks = defaults.DevelopmentNetworks
	}
	if pf.Networks == nil {
		pf.Networks = defaults.Networks
	}
	if pf.Chains == nil {
		pf.Chains = defaults.Chains
	}
	if pf.NamedAccounts == nil {
		pf.NamedAccounts = defaults.NamedAccounts
	}

	return &pf, path, nil
}
