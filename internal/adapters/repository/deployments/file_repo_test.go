package deployments_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/deployments"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

func record(name string, chainID uint64) *domain.DeploymentRecord {
	return &domain.DeploymentRecord{
		ContractName:    name,
		Address:         common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Args:            []string{"8", "200000000000"},
		Network:         "rinkeby",
		ChainID:         chainID,
		TransactionHash: common.HexToHash("0x01"),
		Verification:    domain.VerificationInfo{Status: domain.VerificationStatusUnverified},
		CreatedAt:       time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and reload", func(t *testing.T) {
		root := t.TempDir()
		store, err := deployments.NewFileRepository(root, "rinkeby", 4)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, record(domain.FundMeContract, 4)))
		assert.FileExists(t, filepath.Join(root, "rinkeby", "FundMe.json"))
		chainID, err := os.ReadFile(filepath.Join(root, "rinkeby", deployments.ChainIDFile))
		require.NoError(t, err)
		assert.Equal(t, "4", string(chainID))

		reloaded, err := deployments.NewFileRepository(root, "rinkeby", 0)
		require.NoError(t, err)
		got, err := reloaded.Get(ctx, domain.FundMeContract)
		require.NoError(t, err)
		assert.Equal(t, record(domain.FundMeContract, 4).Address, got.Address)
		assert.Equal(t, []string{"8", "200000000000"}, got.Args)
	})

	t.Run("missing record", func(t *testing.T) {
		store, err := deployments.NewFileRepository(t.TempDir(), "rinkeby", 4)
		require.NoError(t, err)
		_, err = store.Get(ctx, domain.FundMeContract)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("chain mismatch", func(t *testing.T) {
		root := t.TempDir()
		store, err := deployments.NewFileRepository(root, "rinkeby", 4)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, record(domain.FundMeContract, 4)))

		_, err = deployments.NewFileRepository(root, "rinkeby", 5)
		var cfgErr *domain.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)

		assert.Error(t, store.Save(ctx, record(domain.MockV3AggregatorContract, 5)))
	})

	t.Run("empty store replaces another chain's directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "localhost"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "localhost", deployments.ChainIDFile), []byte("1"), 0644))

		_, err := deployments.NewFileRepository(root, "localhost", 31337)
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)

		store := deployments.NewEmptyFileRepository(root, "localhost", 31337)
		require.NoError(t, store.Reset(ctx))
		require.NoError(t, store.Save(ctx, record(domain.FundMeContract, 31337)))

		reloaded, err := deployments.NewFileRepository(root, "localhost", 31337)
		require.NoError(t, err)
		_, err = reloaded.Get(ctx, domain.FundMeContract)
		assert.NoError(t, err)
	})

	t.Run("list and reset", func(t *testing.T) {
		root := t.TempDir()
		store, err := deployments.NewFileRepository(root, "rinkeby", 4)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, record(domain.MockV3AggregatorContract, 4)))
		require.NoError(t, store.Save(ctx, record(domain.FundMeContract, 4)))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, domain.FundMeContract, list[0].ContractName)

		require.NoError(t, store.Reset(ctx))
		assert.NoDirExists(t, filepath.Join(root, "rinkeby"))
		list, err = store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		store, err := deployments.NewFileRepository(t.TempDir(), "rinkeby", 4)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, record(domain.FundMeContract, 4)))

		got, err := store.Get(ctx, domain.FundMeContract)
		require.NoError(t, err)
		got.Verification.Status = domain.VerificationStatusVerified

		again, err := store.Get(ctx, domain.FundMeContract)
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationStatusUnverified, again.Verification.Status)
	})
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	var store usecase.DeploymentStore = deployments.NewMemoryRepository("simulated")

	_, err := store.Get(ctx, domain.FundMeContract)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, record(domain.FundMeContract, 1337)))
	got, err := store.Get(ctx, domain.FundMeContract)
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), got.ChainID)

	require.NoError(t, store.Reset(ctx))
	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
