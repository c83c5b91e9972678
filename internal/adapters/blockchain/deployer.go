package blockchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// Deployer sends creation transactions from one signer and records them
type Deployer struct {
	client  usecase.ChainClient
	signer  domain.Signer
	network *config.Network
	chainID uint64
	store   usecase.DeploymentStore
	waiter  *Waiter
	log     *slog.Logger
}

// NewDeployer creates a deployer bound to an opened network
func NewDeployer(
	client usecase.ChainClient,
	signer domain.Signer,
	network *config.Network,
	chainID uint64,
	store usecase.DeploymentStore,
	waiter *Waiter,
	log *slog.Logger,
) *Deployer {
	return &Deployer{
		client:  client,
		signer:  signer,
		network: network,
		chainID: chainID,
		store:   store,
		waiter:  waiter,
		log:     log,
	}
}

// Deploy creates the contract, waits for the requested confirmations and
// persists the record. An identical earlier deployment with live code is
// reused unless the request is forced.
func (d *Deployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*domain.DeploymentRecord, error) {
	artifact := req.Artifact
	if artifact == nil || len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact has no creation bytecode")
	}

	argsData, err := artifact.ABI.Pack("", req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments of %s: %w", artifact.ContractName, err)
	}

	if !req.Force {
		if existing, ok := d.reusable(ctx, artifact, argsData); ok {
			return existing, nil
		}
	}

	opts, err := d.signer.TransactOpts(ctx, new(big.Int).SetUint64(d.chainID))
	if err != nil {
		return nil, err
	}

	gasLimit := d.network.GasLimit
	if gasLimit == 0 {
		gasLimit, err = d.client.EstimateGas(ctx, ethereum.CallMsg{
			From: opts.From,
			Data: append(bytes.Clone(artifact.Bytecode), argsData...),
		})
		if err != nil {
			decoded := DecodeRevert(err, &artifact.ABI)
			if _, ok := domain.AsRevert(decoded); ok {
				return nil, &domain.TransactionRevertedError{Contract: artifact.ContractName, Err: decoded}
			}
			return nil, fmt.Errorf("failed to estimate gas for %s: %w", artifact.ContractName, err)
		}
	}
	opts.GasLimit = gasLimit

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, d.client, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s creation: %w", artifact.ContractName, DecodeRevert(err, &artifact.ABI))
	}
	d.log.Debug("creation sent", "contract", artifact.ContractName, "tx", tx.Hash().Hex(), "confirmations", req.Confirmations)

	receipt, err := d.waiter.WaitMined(ctx, tx.Hash(), req.Confirmations)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.TransactionRevertedError{
			Contract: artifact.ContractName,
			TxHash:   tx.Hash(),
			Err:      errors.New("receipt status 0"),
		}
	}

	record := &domain.DeploymentRecord{
		ContractName:        artifact.ContractName,
		Address:             address,
		Args:                lo.Map(req.Args, func(arg any, _ int) string { return fmt.Sprint(arg) }),
		ArgsData:            argsData,
		ConfirmationsWaited: max(req.Confirmations, 1),
		Network:             d.network.Name,
		ChainID:             d.chainID,
		Deployer:            opts.From,
		TransactionHash:     tx.Hash(),
		BlockNumber:         receipt.BlockNumber.Uint64(),
		GasUsed:             receipt.GasUsed,
		BytecodeHash:        artifact.BytecodeHash(),
		ABI:                 artifact.RawABI,
		Verification:        domain.VerificationInfo{Status: domain.VerificationStatusUnverified},
		CreatedAt:           time.Now().UTC(),
	}
	if err := d.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save %s deployment: %w", artifact.ContractName, err)
	}
	return record, nil
}

// reusable returns the stored record when it was created from the same code
// and arguments and the code is still on chain
func (d *Deployer) reusable(ctx context.Context, artifact *domain.Artifact, argsData []byte) (*domain.DeploymentRecord, bool) {
	existing, err := d.store.Get(ctx, artifact.ContractName)
	if err != nil {
		return nil, false
	}
	if existing.BytecodeHash != artifact.BytecodeHash() || !bytes.Equal(existing.ArgsData, argsData) {
		return nil, false
	}
	live, err := HasCode(ctx, d.client, existing.Address)
	if err != nil || !live {
		d.log.Debug("recorded deployment has no code", "contract", artifact.ContractName, "address", existing.Address.Hex())
		return nil, false
	}
	reused := *existing
	reused.Reused = true
	return &reused, true
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
