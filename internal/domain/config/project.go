package config

// ProjectFile represents the raw fundme.toml structure
type ProjectFile struct {
	DefaultNetwork      string                 `toml:"default_network"`
	DevelopmentNetworks []string               `toml:"development_networks"`
	Mock                *MockTOML              `toml:"mock,omitempty"`
	Artifacts           *ArtifactsTOML         `toml:"artifacts,omitempty"`
	Networks            map[string]NetworkTOML `toml:"networks"`
	Chains              map[string]ChainTOML   `toml:"chains"`
	Etherscan           *EtherscanTOML         `toml:"etherscan,omitempty"`
	GasReporter         *GasReporterTOML       `toml:"gas_reporter,omitempty"`
	NamedAccounts       map[string]int         `toml:"named_accounts"`
	Accounts            *AccountsTOML          `toml:"accounts,omitempty"`
	Anvil               *AnvilTOML             `toml:"anvil,omitempty"`
}

type MockTOML struct {
	Decimals      *uint8 `toml:"decimals"`
	InitialAnswer *int64 `toml:"initial_answer"`
}

type ArtifactsTOML struct {
	Dir string `toml:"dir"`
}

// NetworkTOML is a [networks.<name>] entry. URL may reference ${VAR}.
type NetworkTOML struct {
	URL                string `toml:"url"`
	ChainID            uint64 `toml:"chain_id"`
	BlockConfirmations uint64 `toml:"block_confirmations"`
	Gas                uint64 `toml:"gas"`
}

// ChainTOML is a [chains.<id>] registry entry
type ChainTOML struct {
	Name            string `toml:"name"`
	EthUsdPriceFeed string `toml:"eth_usd_price_feed"`
}

type EtherscanTOML struct {
	APIKey string `toml:"api_key"`
	URL    string `toml:"url"`
}

type GasReporterTOML struct {
	Enabled       *bool   `toml:"enabled"`
	Currency      string  `toml:"currency"`
	OutputFile    string  `toml:"output_file"`
	NoColors      *bool   `toml:"no_colors"`
	CoinMarketCap string  `toml:"coinmarketcap"`
	GasPriceGwei  float64 `toml:"gas_price_gwei"`
}

type AccountsTOML struct {
	PrivateKey string `toml:"private_key"` //nolint:gosec // holds env var reference, not a literal secret
	Mnemonic   string `toml:"mnemonic"`
	Count      int    `toml:"count"`
}

type AnvilTOML struct {
	Port    string `toml:"port"`
	ChainID uint64 `toml:"chain_id"`
}
