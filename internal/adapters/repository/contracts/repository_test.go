package contracts_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/contracts"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

const hardhatArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "FundMe",
  "sourceName": "contracts/FundMe.sol",
  "abi": [{"type":"error","name":"FundMe__NotOwner","inputs":[]},{"inputs":[],"name":"i_owner","outputs":[{"type":"address","name":""}],"stateMutability":"view","type":"function"}],
  "bytecode": "0x6001600c60003960016000f300"
}`

const hardhatDebug = `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/abc123.json"}`

const buildInfo = `{
  "id": "abc123",
  "solcVersion": "0.8.8",
  "solcLongVersion": "0.8.8+commit.dddeac2f",
  "input": {"language":"Solidity","sources":{"contracts/FundMe.sol":{"content":"contract FundMe {}"}}},
  "output": {"contracts": {"contracts/FundMe.sol": {"FundMe": {}}}}
}`

const foundryArtifact = `{
  "abi": [],
  "bytecode": {"object": "0x6001600c60003960016000f300"},
  "metadata": {"settings": {"compilationTarget": {"test/MockV3Aggregator.sol": "MockV3Aggregator"}}}
}`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newRepo(dir string) *contracts.Repository {
	cfg := &config.RuntimeConfig{Artifacts: config.ArtifactsConfig{Dir: dir}}
	return contracts.NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRepositoryLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "contracts", "FundMe.sol", "FundMe.json"), hardhatArtifact)
	write(t, filepath.Join(dir, "contracts", "FundMe.sol", "FundMe.dbg.json"), hardhatDebug)
	write(t, filepath.Join(dir, "build-info", "abc123.json"), buildInfo)
	write(t, filepath.Join(dir, "MockV3Aggregator.sol", "MockV3Aggregator.json"), foundryArtifact)

	repo := newRepo(dir)

	t.Run("hardhat artifact with build info", func(t *testing.T) {
		a, err := repo.Load(domain.FundMeContract)
		require.NoError(t, err)
		assert.Equal(t, "contracts/FundMe.sol:FundMe", a.FullyQualifiedName())
		assert.Contains(t, a.ABI.Errors, "FundMe__NotOwner")
		assert.Contains(t, a.ABI.Methods, "i_owner")
		assert.Len(t, a.Bytecode, 13)
		require.NotNil(t, a.BuildInfo)
		assert.Equal(t, "0.8.8+commit.dddeac2f", a.BuildInfo.SolcLongVersion)
		assert.JSONEq(t, `{"language":"Solidity","sources":{"contracts/FundMe.sol":{"content":"contract FundMe {}"}}}`, string(a.BuildInfo.Input))
	})

	t.Run("foundry artifact", func(t *testing.T) {
		a, err := repo.Load(domain.MockV3AggregatorContract)
		require.NoError(t, err)
		assert.Equal(t, "test/MockV3Aggregator.sol", a.SourceName)
		assert.Len(t, a.Bytecode, 13)
		assert.Nil(t, a.BuildInfo)
	})

	t.Run("cached", func(t *testing.T) {
		first, err := repo.Load(domain.FundMeContract)
		require.NoError(t, err)
		second, err := repo.Load(domain.FundMeContract)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, err := repo.Load("Lottery")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRepositoryMissingDir(t *testing.T) {
	_, err := newRepo(filepath.Join(t.TempDir(), "artifacts")).Load(domain.FundMeContract)
	assert.ErrorContains(t, err, "compile the contracts first")
}
