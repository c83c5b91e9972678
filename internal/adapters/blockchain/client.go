package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// Miner is implemented by clients of development chains that can mine on demand
type Miner interface {
	Mine(ctx context.Context) error
}

// Client is an ethclient connection that also keeps the raw RPC handle for
// node specific methods
type Client struct {
	*ethclient.Client
	rpc *rpc.Client
}

// Dial connects to the network RPC and checks the node's chain id against the
// configured one. A configured chain id of 0 takes the node's value.
func Dial(ctx context.Context, network *config.Network) (*Client, uint64, error) {
	raw, err := rpc.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	client := &Client{Client: ethclient.NewClient(raw), rpc: raw}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, 0, &domain.ConfigurationError{
			Network: network.Name,
			ChainID: network.ChainID,
			Reason:  fmt.Sprintf("failed to get chain ID from %s: %v", network.RPCURL, err),
		}
	}

	chainID := networkChainID.Uint64()
	if network.ChainID != 0 && network.ChainID != chainID {
		client.Close()
		return nil, 0, &domain.ConfigurationError{
			Network: network.Name,
			ChainID: network.ChainID,
			Reason:  fmt.Sprintf("chain ID mismatch: expected %d, got %d", network.ChainID, chainID),
		}
	}
	return client, chainID, nil
}

// Mine asks a development node (anvil, hardhat) for a new block
func (c *Client) Mine(ctx context.Context) error {
	var result any
	if err := c.rpc.CallContext(ctx, &result, "evm_mine"); err != nil {
		return fmt.Errorf("evm_mine: %w", err)
	}
	return nil
}

// HasCode reports whether a contract exists at the address
func HasCode(ctx context.Context, client usecase.ChainClient, address common.Address) (bool, error) {
	code, err := client.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

var (
	_ usecase.ChainClient = (*Client)(nil)
	_ Miner               = (*Client)(nil)
)
