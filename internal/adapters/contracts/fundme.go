package contracts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/blockchain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/harness"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// FundMe binds the deployed FundMe contract through its artifact ABI
type FundMe struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	client   usecase.ChainClient
	chainID  *big.Int
	waiter   *blockchain.Waiter
	owner    string
}

// NewFundMe binds the contract at address
func NewFundMe(address common.Address, contractABI abi.ABI, client usecase.ChainClient, chainID uint64, waiter *blockchain.Waiter) (*FundMe, error) {
	for _, method := range []string{"fund", "withdraw", "cheaperWithdraw", "getFunder", "getAddressToAmountFunded", "getPriceFeed"} {
		if _, ok := contractABI.Methods[method]; !ok {
			return nil, fmt.Errorf("FundMe abi has no %s method", method)
		}
	}
	owner := "getOwner"
	if _, ok := contractABI.Methods[owner]; !ok {
		owner = "i_owner"
	}

	return &FundMe{
		address:  address,
		abi:      contractABI,
		contract: bind.NewBoundContract(address, contractABI, client, client, client),
		client:   client,
		chainID:  new(big.Int).SetUint64(chainID),
		waiter:   waiter,
		owner:    owner,
	}, nil
}

func (f *FundMe) Address() common.Address { return f.address }

func (f *FundMe) PriceFeed(ctx context.Context) (common.Address, error) {
	return callOne[common.Address](ctx, f, "getPriceFeed")
}

func (f *FundMe) Owner(ctx context.Context) (common.Address, error) {
	return callOne[common.Address](ctx, f, f.owner)
}

func (f *FundMe) Funder(ctx context.Context, index int64) (common.Address, error) {
	return callOne[common.Address](ctx, f, "getFunder", big.NewInt(index))
}

func (f *FundMe) AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	return callOne[*big.Int](ctx, f, "getAddressToAmountFunded", funder)
}

func (f *FundMe) Fund(ctx context.Context, from domain.Signer, value *big.Int) (*harness.Receipt, error) {
	return f.transact(ctx, from, "fund", value)
}

func (f *FundMe) Withdraw(ctx context.Context, from domain.Signer) (*harness.Receipt, error) {
	return f.transact(ctx, from, "withdraw", nil)
}

func (f *FundMe) CheaperWithdraw(ctx context.Context, from domain.Signer) (*harness.Receipt, error) {
	return f.transact(ctx, from, "cheaperWithdraw", nil)
}

// callOne performs an eth_call returning a single value
func callOne[T any](ctx context.Context, f *FundMe, method string, args ...any) (T, error) {
	var zero T
	var out []any
	if err := f.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return zero, fmt.Errorf("%s: %w", method, blockchain.DecodeRevert(err, &f.abi))
	}
	if len(out) != 1 {
		return zero, fmt.Errorf("%s returned %d values", method, len(out))
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s returned %T", method, out[0])
	}
	return v, nil
}

// transact estimates first so revert data survives, then sends and waits for one block
func (f *FundMe) transact(ctx context.Context, from domain.Signer, method string, value *big.Int) (*harness.Receipt, error) {
	opts, err := from.TransactOpts(ctx, f.chainID)
	if err != nil {
		return nil, err
	}
	opts.Value = value

	input, err := f.abi.Pack(method)
	if err != nil {
		return nil, err
	}
	gas, err := f.client.EstimateGas(ctx, ethereum.CallMsg{From: opts.From, To: &f.address, Value: value, Data: input})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, blockchain.DecodeRevert(err, &f.abi))
	}
	opts.GasLimit = gas

	tx, err := f.contract.Transact(opts, method)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, blockchain.DecodeRevert(err, &f.abi))
	}
	receipt, err := f.waiter.WaitMined(ctx, tx.Hash(), 1)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.TransactionRevertedError{Contract: domain.FundMeContract, TxHash: tx.Hash(), Err: errors.New(method + " reverted on chain")}
	}
	return &harness.Receipt{TxHash: tx.Hash(), GasUsed: receipt.GasUsed, EffectiveGasPrice: receipt.EffectiveGasPrice}, nil
}

// Binder attaches FundMe bindings to recorded deployments
type Binder struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewBinder creates a new binder
func NewBinder(cfg *config.RuntimeConfig, log *slog.Logger) *Binder {
	return &Binder{cfg: cfg, log: log}
}

// BindFundMe binds the record address with the artifact ABI
func (b *Binder) BindFundMe(record *domain.DeploymentRecord, artifact *domain.Artifact, client usecase.ChainClient, chainID uint64) (harness.FundMe, error) {
	b.log.Debug("binding FundMe", "address", record.Address.Hex(), "chain", chainID)
	waiter := &blockchain.Waiter{
		Client:       client,
		PollInterval: b.cfg.PollInterval,
		Mine:         b.cfg.IsDevelopment(),
	}
	return NewFundMe(record.Address, artifact.ABI, client, chainID, waiter)
}

var (
	_ harness.FundMe         = (*FundMe)(nil)
	_ usecase.ContractBinder = (*Binder)(nil)
)
