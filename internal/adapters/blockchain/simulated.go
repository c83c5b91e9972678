package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// DefaultDevBalance funds every development account, 10000 ETH
var DefaultDevBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// SimulatedClient is an in-process chain that mines a block for every
// submitted transaction
type SimulatedClient struct {
	simulated.Client
	backend *simulated.Backend
}

// NewSimulated starts an in-process chain with the accounts funded
func NewSimulated(accounts []common.Address, balance *big.Int) *SimulatedClient {
	if balance == nil {
		balance = DefaultDevBalance
	}
	alloc := types.GenesisAlloc{}
	for _, account := range accounts {
		alloc[account] = types.Account{Balance: new(big.Int).Set(balance)}
	}
	backend := simulated.NewBackend(alloc)
	return &SimulatedClient{Client: backend.Client(), backend: backend}
}

// SendTransaction submits the transaction and mines it
func (c *SimulatedClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()
	return nil
}

// Mine seals an empty block
func (c *SimulatedClient) Mine(context.Context) error {
	c.backend.Commit()
	return nil
}

// Close stops the chain
func (c *SimulatedClient) Close() {
	_ = c.backend.Close()
}

var (
	_ usecase.ChainClient = (*SimulatedClient)(nil)
	_ Miner               = (*SimulatedClient)(nil)
)
