package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// Waiter polls for receipts and block confirmations
type Waiter struct {
	Client       usecase.ChainClient
	PollInterval time.Duration
	// Mine advances development chains instead of waiting for new blocks
	Mine bool
}

// WaitMined returns the receipt once the transaction is included and the
// chain head is confirmations-1 blocks past it
func (w *Waiter) WaitMined(ctx context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}
	interval := w.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var receipt *types.Receipt
	for {
		if receipt == nil {
			r, err := w.Client.TransactionReceipt(ctx, txHash)
			switch {
			case err == nil:
				receipt = r
			case !errors.Is(err, ethereum.NotFound):
				return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash.Hex(), err)
			}
		}

		if receipt != nil {
			head, err := w.Client.BlockNumber(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get block number: %w", err)
			}
			if head+1 >= receipt.BlockNumber.Uint64()+confirmations {
				return receipt, nil
			}
			if miner, ok := w.Client.(Miner); ok && w.Mine {
				if err := miner.Mine(ctx); err != nil {
					return nil, err
				}
				continue
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
