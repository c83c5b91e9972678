package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// ProjectFileName is the project configuration file looked up from the working directory
const ProjectFileName = "fundme.toml"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	configPath := v.GetString("config")
	if configPath == "" {
		configPath = filepath.Join(projectRoot, ProjectFileName)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(projectRoot, configPath)
	}

	pf, source, err := loadProjectFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		DeploymentsDir:      resolvePath(projectRoot, v.GetString("deployments_dir")),
		ConfigSource:        source,
		Debug:               v.GetBool("debug"),
		NonInteractive:      v.GetBool("non_interactive"),
		Timeout:             v.GetDuration("timeout"),
		PollInterval:        v.GetDuration("poll_interval"),
		Tags:                normalizeTags(v.GetStringSlice("tags")),
		Reset:               v.GetBool("reset"),
		Force:               v.GetBool("force"),
		Grep:                v.GetString("grep"),
		PlanFile:            v.GetString("plan"),
		DevelopmentNetworks: pf.DevelopmentNetworks,
		NamedAccounts:       pf.NamedAccounts,
	}
	if cfg.PlanFile != "" {
		cfg.PlanFile = resolvePath(projectRoot, cfg.PlanFile)
	}
	cfg.Chains, err = buildChains(pf.Chains)
	if err != nil {
		return nil, err
	}

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = pf.DefaultNetwork
	}
	cfg.Network, err = resolveNetwork(networkName, pf.Networks)
	if err != nil {
		return nil, err
	}

	cfg.Mock = config.MockConfig{Decimals: DefaultMockDecimals, InitialAnswer: DefaultMockInitialAnswer}
	if pf.Mock != nil {
		if pf.Mock.Decimals != nil {
			cfg.Mock.Decimals = *pf.Mock.Decimals
		}
		if pf.Mock.InitialAnswer != nil {
			cfg.Mock.InitialAnswer = *pf.Mock.InitialAnswer
		}
	}

	artifactsDir := v.GetString("artifacts_dir")
	if artifactsDir == "" && pf.Artifacts != nil {
		artifactsDir = pf.Artifacts.Dir
	}
	if artifactsDir == "" {
		artifactsDir = "artifacts"
	}
	cfg.Artifacts = config.ArtifactsConfig{Dir: resolvePath(projectRoot, artifactsDir)}

	cfg.Accounts = config.AccountsConfig{Count: 10}
	if pf.Accounts != nil {
		cfg.Accounts.PrivateKey = os.ExpandEnv(pf.Accounts.PrivateKey)
		cfg.Accounts.Mnemonic = os.ExpandEnv(pf.Accounts.Mnemonic)
		if pf.Accounts.Count > 0 {
			cfg.Accounts.Count = pf.Accounts.Count
		}
	}
	cfg.Accounts.PrivateKey = lo.CoalesceOrEmpty(cfg.Accounts.PrivateKey, os.Getenv("PRIVATE_KEY"), PlaceholderPrivateKey)
	cfg.Accounts.Mnemonic = lo.CoalesceOrEmpty(cfg.Accounts.Mnemonic, os.Getenv("MNEMONIC"))

	cfg.Etherscan = config.EtherscanConfig{
		URL:          DefaultEtherscanURL,
		PollInterval: v.GetDuration("verify_poll_interval"),
		MaxAttempts:  v.GetInt("verify_max_attempts"),
	}
	if pf.Etherscan != nil {
		cfg.Etherscan.APIKey = os.ExpandEnv(pf.Etherscan.APIKey)
		cfg.Etherscan.URL = lo.CoalesceOrEmpty(os.ExpandEnv(pf.Etherscan.URL), DefaultEtherscanURL)
	}
	cfg.Etherscan.APIKey = lo.CoalesceOrEmpty(cfg.Etherscan.APIKey, os.Getenv("ETHERSCAN_API_KEY"))

	cfg.GasReporter = config.GasReporterConfig{
		Enabled:    true,
		Currency:   "USD",
		OutputFile:   "gas-report.txt",
		NoColors:     true,
		GasPriceGwei: DefaultGasPriceGwei,
	}
	if gr := pf.GasReporter; gr != nil {
		if gr.Enabled != nil {
			cfg.GasReporter.Enabled = *gr.Enabled
		}
		if gr.NoColors != nil {
			cfg.GasReporter.NoColors = *gr.NoColors
		}
		cfg.GasReporter.Currency = lo.CoalesceOrEmpty(gr.Currency, cfg.GasReporter.Currency)
		cfg.GasReporter.OutputFile = lo.CoalesceOrEmpty(gr.OutputFile, cfg.GasReporter.OutputFile)
		cfg.GasReporter.CoinMarketCapKey = os.ExpandEnv(gr.CoinMarketCap)
		if gr.GasPriceGwei > 0 {
			cfg.GasReporter.GasPriceGwei = gr.GasPriceGwei
		}
	}
	cfg.GasReporter.CoinMarketCapKey = lo.CoalesceOrEmpty(cfg.GasReporter.CoinMarketCapKey, os.Getenv("COINMARKETCAP_API_KEY"))
	if cfg.GasReporter.OutputFile != "" {
		cfg.GasReporter.OutputFile = resolvePath(projectRoot, cfg.GasReporter.OutputFile)
	}

	cfg.Anvil = config.AnvilConfig{Port: "8545", ChainID: 31337}
	if pf.Anvil != nil {
		cfg.Anvil.Port = lo.CoalesceOrEmpty(pf.Anvil.Port, cfg.Anvil.Port)
		if pf.Anvil.ChainID != 0 {
			cfg.Anvil.ChainID = pf.Anvil.ChainID
		}
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find fundme.toml.
// Without one the working directory is the project root and built-in defaults apply.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("FUNDME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("verify_poll_interval", "5s")
	v.SetDefault("verify_max_attempts", 24)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("deployments_dir", "deployments")
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// resolveNetwork builds the active network from its [networks.<name>] entry
func resolveNetwork(name string, networks map[string]config.NetworkTOML) (*config.Network, error) {
	if name == "" {
		name = config.SimulatedNetwork
	}
	if name == config.SimulatedNetwork {
		return &config.Network{Name: name, ChainID: SimulatedChainID, BlockConfirmations: 1}, nil
	}

	entry, ok := networks[name]
	if !ok {
		return nil, &domain.ConfigurationError{
			Network: name,
			Reason:  fmt.Sprintf("no [networks.%s] entry; configured networks: %s", name, strings.Join(slices.Sorted(maps.Keys(networks)), ", ")),
		}
	}

	url, envVar := ResolveRPCURL(name, entry.URL)

	return &config.Network{
		Name:               name,
		ChainID:            entry.ChainID,
		RPCURL:             url,
		RPCEnvVar:          envVar,
		BlockConfirmations: entry.BlockConfirmations,
		GasLimit:           entry.Gas,
	}, nil
}

// buildChains converts [chains.<id>] tables into registry profiles
func buildChains(chains map[string]config.ChainTOML) ([]domain.NetworkProfile, error) {
	profiles := make([]domain.NetworkProfile, 0, len(chains))
	for key, entry := range chains {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("chain key %q is not a chain id", key)}
		}
		profile := domain.NetworkProfile{ChainID: chainID, Name: entry.Name}
		if entry.EthUsdPriceFeed != "" {
			raw := os.ExpandEnv(entry.EthUsdPriceFeed)
			if !common.IsHexAddress(raw) {
				return nil, &domain.ConfigurationError{
					Network: entry.Name,
					ChainID: chainID,
					Reason:  fmt.Sprintf("eth_usd_price_feed %q: %v", raw, domain.ErrInvalidAddress),
				}
			}
			addr := common.HexToAddress(raw)
			profile.OracleAddress = &addr
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func normalizeTags(tags []string) []string {
	out := lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.ToLower(strings.TrimSpace(t))
		return t, t != ""
	})
	return lo.Uniq(out)
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
