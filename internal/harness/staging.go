package harness

import (
	"context"
	"math/big"
)

// StagingCases returns the live network suite. It runs once against the
// recorded deployment.
func StagingCases() []Case {
	return []Case{
		{Group: "FundMe", Name: "allows people to fund and withdraw", Run: testFundAndWithdraw},
	}
}

func testFundAndWithdraw(ctx context.Context, fx *Fixture) error {
	if _, err := fx.FundMe.Fund(ctx, fx.Deployer(), StagingSendValue); err != nil {
		return err
	}
	if _, err := fx.FundMe.Withdraw(ctx, fx.Deployer()); err != nil {
		return err
	}
	balance, err := fx.Ledger.BalanceAt(ctx, fx.FundMe.Address(), nil)
	if err != nil {
		return err
	}
	return expectBig("ending balance", new(big.Int), balance)
}
