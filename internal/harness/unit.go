package harness

import (
	"context"
	"fmt"
	"math/big"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

const (
	// FundTooLowReason is the revert reason of fund() below the USD minimum
	FundTooLowReason = "You need to spend more ETH!"
	// NotOwnerError is the custom error raised for non-owner withdrawals
	NotOwnerError = "FundMe__NotOwner"

	extraFunders = 5
)

var (
	// UnitSendValue is 1 ETH
	UnitSendValue = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	// StagingSendValue is 0.1 ETH
	StagingSendValue = new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil)
)

type withdrawFunc func(f FundMe) func(ctx context.Context, from domain.Signer) (*Receipt, error)

func plainWithdraw(f FundMe) func(context.Context, domain.Signer) (*Receipt, error) {
	return f.Withdraw
}

func cheaperWithdraw(f FundMe) func(context.Context, domain.Signer) (*Receipt, error) {
	return f.CheaperWithdraw
}

// UnitCases returns the development network suite
func UnitCases() []Case {
	return []Case{
		{Group: "constructor", Name: "sets the aggregator addresses correctly", Run: testConstructor},
		{Group: "fund", Name: "fails if you don't send enough ETH", Run: testFundTooLow},
		{Group: "fund", Name: "updates the amount funded data structure", Run: testFundUpdatesAmount},
		{Group: "fund", Name: "adds funder to array of funders", Run: testFundAddsFunder},
		{Group: "withdraw", Name: "withdraw ETH from a single funder", Run: testWithdraw(plainWithdraw, 0)},
		{Group: "withdraw", Name: "cheaper withdraw ETH from a single funder", Run: testWithdraw(cheaperWithdraw, 0)},
		{Group: "withdraw", Name: "allows us to withdraw with multiple funders", Run: testWithdraw(plainWithdraw, extraFunders)},
		{Group: "withdraw", Name: "only allows the owner to withdraw", Run: testOnlyOwner},
		{Group: "withdraw", Name: "cheaper withdraw ETH with multiple funders", Run: testWithdraw(cheaperWithdraw, extraFunders)},
	}
}

func testConstructor(ctx context.Context, fx *Fixture) error {
	feed, err := fx.FundMe.PriceFeed(ctx)
	if err != nil {
		return err
	}
	return expectAddress("price feed", fx.PriceFeed, feed)
}

func testFundTooLow(ctx context.Context, fx *Fixture) error {
	_, err := fx.FundMe.Fund(ctx, fx.Deployer(), new(big.Int))
	return expectRevertedWith(err, FundTooLowReason)
}

func testFundUpdatesAmount(ctx context.Context, fx *Fixture) error {
	if _, err := fx.FundMe.Fund(ctx, fx.Deployer(), UnitSendValue); err != nil {
		return err
	}
	amount, err := fx.FundMe.AmountFunded(ctx, fx.Deployer().Address())
	if err != nil {
		return err
	}
	return expectBig("amount funded", UnitSendValue, amount)
}

func testFundAddsFunder(ctx context.Context, fx *Fixture) error {
	if _, err := fx.FundMe.Fund(ctx, fx.Deployer(), UnitSendValue); err != nil {
		return err
	}
	funder, err := fx.FundMe.Funder(ctx, 0)
	if err != nil {
		return err
	}
	return expectAddress("funders[0]", fx.Deployer().Address(), funder)
}

func testOnlyOwner(ctx context.Context, fx *Fixture) error {
	if len(fx.Accounts) < 2 {
		return fmt.Errorf("need at least 2 accounts, have %d", len(fx.Accounts))
	}
	if _, err := fx.FundMe.Fund(ctx, fx.Deployer(), UnitSendValue); err != nil {
		return err
	}
	_, err := fx.FundMe.Withdraw(ctx, fx.Accounts[1])
	return expectCustomError(err, NotOwnerError)
}

// testWithdraw funds from the deployer and n more accounts, withdraws as the
// owner and checks that every wei ends up with the owner minus gas
func testWithdraw(withdraw withdrawFunc, n int) func(context.Context, *Fixture) error {
	return func(ctx context.Context, fx *Fixture) error {
		if len(fx.Accounts) < n+1 {
			return fmt.Errorf("need at least %d accounts, have %d", n+1, len(fx.Accounts))
		}
		deployer := fx.Deployer()
		contract := fx.FundMe.Address()

		if _, err := fx.FundMe.Fund(ctx, deployer, UnitSendValue); err != nil {
			return err
		}
		for i := 1; i <= n; i++ {
			if _, err := fx.FundMe.Fund(ctx, fx.Accounts[i], UnitSendValue); err != nil {
				return fmt.Errorf("fund from account %d: %w", i, err)
			}
		}

		startContract, err := fx.Ledger.BalanceAt(ctx, contract, nil)
		if err != nil {
			return err
		}
		startDeployer, err := fx.Ledger.BalanceAt(ctx, deployer.Address(), nil)
		if err != nil {
			return err
		}

		rcpt, err := withdraw(fx.FundMe)(ctx, deployer)
		if err != nil {
			return err
		}

		endContract, err := fx.Ledger.BalanceAt(ctx, contract, nil)
		if err != nil {
			return err
		}
		endDeployer, err := fx.Ledger.BalanceAt(ctx, deployer.Address(), nil)
		if err != nil {
			return err
		}

		before := new(big.Int).Add(startContract, startDeployer)
		after := new(big.Int).Add(endDeployer, rcpt.Cost())
		if err := firstErr(
			expectBig("ending contract balance", new(big.Int), endContract),
			expectBig("owner balance plus gas", before, after),
		); err != nil {
			return err
		}

		_, err = fx.FundMe.Funder(ctx, 0)
		if err := expectReverted(err); err != nil {
			return fmt.Errorf("funders[0] after withdraw: %w", err)
		}
		for i := 0; i <= n; i++ {
			amount, err := fx.FundMe.AmountFunded(ctx, fx.Accounts[i].Address())
			if err != nil {
				return err
			}
			if err := expectBig(fmt.Sprintf("amount funded by account %d", i), new(big.Int), amount); err != nil {
				return err
			}
		}
		return nil
	}
}
