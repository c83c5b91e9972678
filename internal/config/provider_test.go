package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

func newTestViper(t *testing.T, projectRoot string) *viper.Viper {
	t.Helper()
	for _, key := range []string{"PRIVATE_KEY", "MNEMONIC", "ETHERSCAN_API_KEY", "COINMARKETCAP_API_KEY", "RINKEBY_RPC_URL"} {
		t.Setenv(key, "")
	}
	return SetupViper(projectRoot, nil)
}

func TestProviderDefaults(t *testing.T) {
	dir := t.TempDir()
	v := newTestViper(t, dir)

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Empty(t, cfg.ConfigSource)
	assert.Equal(t, config.SimulatedNetwork, cfg.Network.Name)
	assert.Equal(t, SimulatedChainID, cfg.Network.ChainID)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"simulated", "localhost"}, cfg.DevelopmentNetworks)
	assert.Equal(t, uint8(8), cfg.Mock.Decimals)
	assert.Equal(t, int64(200000000000), cfg.Mock.InitialAnswer)
	assert.Equal(t, filepath.Join(dir, "deployments"), cfg.DeploymentsDir)
	assert.Equal(t, filepath.Join(dir, "artifacts"), cfg.Artifacts.Dir)
	assert.Equal(t, PlaceholderPrivateKey, cfg.Accounts.PrivateKey)
	assert.False(t, cfg.Etherscan.Enabled())
	assert.True(t, cfg.GasReporter.Enabled)
	assert.Equal(t, "USD", cfg.GasReporter.Currency)
	assert.Equal(t, filepath.Join(dir, "gas-report.txt"), cfg.GasReporter.OutputFile)
	assert.InDelta(t, DefaultGasPriceGwei, cfg.GasReporter.GasPriceGwei, 0)
	assert.Equal(t, 0, cfg.AccountIndex("deployer"))
	assert.Len(t, cfg.Chains, 3)
}

func TestProviderLiveNetwork(t *testing.T) {
	t.Run("placeholder url when env var is unset", func(t *testing.T) {
		v := newTestViper(t, t.TempDir())
		v.Set("network", "rinkeby")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.False(t, cfg.IsDevelopment())
		assert.Equal(t, "https://eth-rinkeby/example", cfg.Network.RPCURL)
		assert.Equal(t, "RINKEBY_RPC_URL", cfg.Network.RPCEnvVar)
		assert.Equal(t, uint64(6), cfg.Network.Confirmations())
		assert.Equal(t, uint64(6000000), cfg.Network.GasLimit)
	})

	t.Run("env var supplies url and keys", func(t *testing.T) {
		v := newTestViper(t, t.TempDir())
		t.Setenv("RINKEBY_RPC_URL", "https://rinkeby.example.org")
		t.Setenv("ETHERSCAN_API_KEY", "explorer-key")
		v.Set("network", "rinkeby")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, "https://rinkeby.example.org", cfg.Network.RPCURL)
		assert.True(t, cfg.Etherscan.Enabled())
	})

	t.Run("unknown network is a configuration error", func(t *testing.T) {
		v := newTestViper(t, t.TempDir())
		v.Set("network", "kovan")

		_, err := Provider(v)
		require.Error(t, err)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "kovan", cfgErr.Network)
	})
}

func TestProviderProjectFile(t *testing.T) {
	dir := t.TempDir()
	content := `default_network = "polygon"
development_networks = ["simulated", "localhost", "devnet"]

[mock]
decimals = 18
initial_answer = 3000

[networks.polygon]
url = "${POLYGON_RPC_URL}"
chain_id = 137
block_confirmations = 3

[chains.137]
name = "polygon"
eth_usd_price_feed = "0xF9680D99D6C9589e2a93a78A04A279e509205945"

[gas_reporter]
enabled = false
gas_price_gwei = 35
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POLYGON_RPC_URL=https://polygon.example.org\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("POLYGON_RPC_URL") })

	v := newTestViper(t, dir)
	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ProjectFileName), cfg.ConfigSource)
	assert.Equal(t, "polygon", cfg.Network.Name)
	assert.Equal(t, "https://polygon.example.org", cfg.Network.RPCURL)
	assert.Equal(t, uint64(3), cfg.Network.Confirmations())
	assert.True(t, cfg.IsDevelopmentNetwork("devnet"))
	assert.Equal(t, uint8(18), cfg.Mock.Decimals)
	assert.Equal(t, int64(3000), cfg.Mock.InitialAnswer)
	assert.False(t, cfg.GasReporter.Enabled)
	assert.InDelta(t, 35.0, cfg.GasReporter.GasPriceGwei, 0)

	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, uint64(137), cfg.Chains[0].ChainID)
	require.NotNil(t, cfg.Chains[0].OracleAddress)
	assert.Equal(t, common.HexToAddress("0xF9680D99D6C9589e2a93a78A04A279e509205945"), *cfg.Chains[0].OracleAddress)
}

func TestBuildChains(t *testing.T) {
	tests := []struct {
		name    string
		chains  map[string]config.ChainTOML
		wantErr bool
	}{
		{
			name:   "entry without feed",
			chains: map[string]config.ChainTOML{"5": {Name: "goerli"}},
		},
		{
			name:    "non numeric key",
			chains:  map[string]config.ChainTOML{"rinkeby": {Name: "rinkeby"}},
			wantErr: true,
		},
		{
			name:    "invalid feed address",
			chains:  map[string]config.ChainTOML{"4": {Name: "rinkeby", EthUsdPriceFeed: "0x1234"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles, err := buildChains(tt.chains)
			if tt.wantErr {
				var cfgErr *domain.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, profiles, 1)
			assert.Nil(t, profiles[0].OracleAddress)
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"all", "mocks"}, normalizeTags([]string{" All", "mocks", "", "all"}))
	assert.Empty(t, normalizeTags(nil))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), nil, 0644))

	t.Chdir(nested)

	got, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}
