package environment

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/deployments"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

func TestBuilderStore(t *testing.T) {
	ctx := context.Background()
	localhost := &config.Network{Name: "localhost", ChainID: 31337}

	newBuilder := func(t *testing.T) (*Builder, string) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "localhost"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "localhost", deployments.ChainIDFile), []byte("1"), 0644))
		cfg := &config.RuntimeConfig{DeploymentsDir: root, Network: localhost}
		return NewBuilder(cfg, nil, slog.New(slog.DiscardHandler)), root
	}

	t.Run("records of another chain are rejected", func(t *testing.T) {
		b, _ := newBuilder(t)
		_, err := b.store(localhost, 31337, usecase.OpenOptions{})
		var cfgErr *domain.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("reset opens the store anyway", func(t *testing.T) {
		b, root := newBuilder(t)
		store, err := b.store(localhost, 31337, usecase.OpenOptions{Reset: true})
		require.NoError(t, err)

		require.NoError(t, store.Reset(ctx))
		assert.NoDirExists(t, filepath.Join(root, "localhost"))
		require.NoError(t, store.Save(ctx, &domain.DeploymentRecord{ContractName: domain.FundMeContract, ChainID: 31337}))

		chainID, err := os.ReadFile(filepath.Join(root, "localhost", deployments.ChainIDFile))
		require.NoError(t, err)
		assert.Equal(t, "31337", string(chainID))
	})

	t.Run("fresh sessions stay in memory", func(t *testing.T) {
		b, _ := newBuilder(t)
		store, err := b.store(localhost, 31337, usecase.OpenOptions{Fresh: true})
		require.NoError(t, err)
		assert.IsType(t, &deployments.MemoryRepository{}, store)
	})
}
