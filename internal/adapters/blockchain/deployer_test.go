package blockchain_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/blockchain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/deployments"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/senders"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// returns a single STOP byte as runtime code
const storeOneByte = "0x6001600c60003960016000f300"

// reverts with empty data
const revertingConstructor = "0x60006000fd"

type deployFixture struct {
	client   *blockchain.SimulatedClient
	store    *deployments.MemoryRepository
	deployer *blockchain.Deployer
}

// unreachableClient fails every gas estimate without reaching a node
type unreachableClient struct {
	*blockchain.SimulatedClient
}

var errUnreachable = errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")

func (unreachableClient) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 0, errUnreachable
}

func newDeployFixture(t *testing.T, mine bool) *deployFixture {
	t.Helper()
	keys, err := senders.DeriveAccounts(senders.TestMnemonic, 1)
	require.NoError(t, err)

	client := blockchain.NewSimulated([]common.Address{keys[0].Address()}, nil)
	t.Cleanup(client.Close)

	network := &config.Network{Name: config.SimulatedNetwork, ChainID: 1337, BlockConfirmations: 1}
	store := deployments.NewMemoryRepository(network.Name)
	waiter := &blockchain.Waiter{Client: client, PollInterval: 10 * time.Millisecond, Mine: mine}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &deployFixture{
		client:   client,
		store:    store,
		deployer: blockchain.NewDeployer(client, keys[0], network, 1337, store, waiter, log),
	}
}

func artifact(t *testing.T, name, bytecode string) *domain.Artifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader("[]"))
	require.NoError(t, err)
	return &domain.Artifact{ContractName: name, ABI: parsed, RawABI: []byte("[]"), Bytecode: common.FromHex(bytecode)}
}

func TestDeployer(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys and records", func(t *testing.T) {
		fx := newDeployFixture(t, false)
		rec, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte), Confirmations: 1})
		require.NoError(t, err)

		assert.False(t, rec.Reused)
		assert.NotEqual(t, common.Address{}, rec.Address)
		assert.Greater(t, rec.GasUsed, uint64(0))
		assert.Equal(t, uint64(1337), rec.ChainID)
		assert.Equal(t, domain.VerificationStatusUnverified, rec.Verification.Status)

		code, err := fx.client.CodeAt(ctx, rec.Address, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00}, code)

		stored, err := fx.store.Get(ctx, "Tiny")
		require.NoError(t, err)
		assert.Equal(t, rec.Address, stored.Address)
	})

	t.Run("reuses identical deployment", func(t *testing.T) {
		fx := newDeployFixture(t, false)
		first, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte)})
		require.NoError(t, err)

		second, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte)})
		require.NoError(t, err)
		assert.True(t, second.Reused)
		assert.Equal(t, first.Address, second.Address)
		assert.Equal(t, first.TransactionHash, second.TransactionHash)
	})

	t.Run("force redeploys", func(t *testing.T) {
		fx := newDeployFixture(t, false)
		first, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte)})
		require.NoError(t, err)

		second, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte), Force: true})
		require.NoError(t, err)
		assert.False(t, second.Reused)
		assert.NotEqual(t, first.Address, second.Address)
	})

	t.Run("reverting constructor", func(t *testing.T) {
		fx := newDeployFixture(t, false)
		_, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Broken", revertingConstructor)})

		var reverted *domain.TransactionRevertedError
		require.ErrorAs(t, err, &reverted)
		assert.Equal(t, "Broken", reverted.Contract)
		_, isRevert := domain.AsRevert(err)
		assert.True(t, isRevert)

		_, err = fx.store.Get(ctx, "Broken")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("estimate failure is not a revert", func(t *testing.T) {
		keys, err := senders.DeriveAccounts(senders.TestMnemonic, 1)
		require.NoError(t, err)
		client := blockchain.NewSimulated([]common.Address{keys[0].Address()}, nil)
		t.Cleanup(client.Close)

		network := &config.Network{Name: config.SimulatedNetwork, ChainID: 1337}
		waiter := &blockchain.Waiter{Client: client, PollInterval: 10 * time.Millisecond}
		deployer := blockchain.NewDeployer(unreachableClient{client}, keys[0], network, 1337,
			deployments.NewMemoryRepository(network.Name), waiter, slog.New(slog.DiscardHandler))

		_, err = deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte)})
		require.ErrorIs(t, err, errUnreachable)
		var reverted *domain.TransactionRevertedError
		assert.False(t, errors.As(err, &reverted))
		assert.ErrorContains(t, err, "failed to estimate gas for Tiny")
	})

	t.Run("waits for confirmations", func(t *testing.T) {
		fx := newDeployFixture(t, true)
		rec, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Tiny", storeOneByte), Confirmations: 3})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), rec.ConfirmationsWaited)

		head, err := fx.client.BlockNumber(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, head, rec.BlockNumber+2)
	})

	t.Run("empty bytecode", func(t *testing.T) {
		fx := newDeployFixture(t, false)
		_, err := fx.deployer.Deploy(ctx, usecase.DeployRequest{Artifact: artifact(t, "Empty", "0x")})
		assert.Error(t, err)
	})
}
