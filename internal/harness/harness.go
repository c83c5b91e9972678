// Package harness drives a deployed FundMe contract through the unit and
// staging suites.
package harness

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

// Mode selects the suite of a run
type Mode string

const (
	ModeUnit    Mode = "unit"
	ModeStaging Mode = "staging"
)

// FundMe is the contract surface exercised by the suites
type FundMe interface {
	Address() common.Address
	PriceFeed(ctx context.Context) (common.Address, error)
	Owner(ctx context.Context) (common.Address, error)
	Funder(ctx context.Context, index int64) (common.Address, error)
	AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error)
	Fund(ctx context.Context, from domain.Signer, value *big.Int) (*Receipt, error)
	Withdraw(ctx context.Context, from domain.Signer) (*Receipt, error)
	CheaperWithdraw(ctx context.Context, from domain.Signer) (*Receipt, error)
}

// Ledger reads account balances
type Ledger interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Receipt is the mined outcome of a contract transaction
type Receipt struct {
	TxHash            common.Hash
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// Cost returns gasUsed * effectiveGasPrice
func (r *Receipt) Cost() *big.Int {
	if r.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// GasRecorder receives gas usage per contract method
type GasRecorder interface {
	Record(contract, method string, gasUsed uint64)
}

// Fixture is the deployed state a test case runs against
type Fixture struct {
	FundMe FundMe
	Ledger Ledger
	// Accounts holds the signer set, Accounts[0] is the deployer
	Accounts []domain.Signer
	// PriceFeed is the address FundMe was constructed with
	PriceFeed common.Address
	Close     func()
}

// Deployer returns the deployer account
func (f *Fixture) Deployer() domain.Signer {
	return f.Accounts[0]
}

// FixtureFactory builds the fixture of one case
type FixtureFactory func(ctx context.Context) (*Fixture, error)

// Case is a single named test
type Case struct {
	Group string
	Name  string
	Run   func(ctx context.Context, fx *Fixture) error
}

// Title returns "Group Name"
func (c Case) Title() string {
	if c.Group == "" {
		return c.Name
	}
	return c.Group + " " + c.Name
}

// Result is the outcome of one case
type Result struct {
	Case     Case
	Err      error
	Duration time.Duration
}

func (r Result) Passed() bool { return r.Err == nil }

// Report is the outcome of a run
type Report struct {
	Mode    Mode
	Network string
	Results []Result
}

// Failed returns the number of failing cases
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Err returns an error when any case failed
func (r *Report) Err() error {
	if n := r.Failed(); n > 0 {
		return fmt.Errorf("%d of %d %s tests failed", n, len(r.Results), r.Mode)
	}
	return nil
}

// Options configures a run
type Options struct {
	Network string
	// Grep keeps only cases whose title contains the substring
	Grep string
	Gas  GasRecorder
	// Fresh builds a new fixture for every case. Staging shares one.
	Fresh bool
}

// Run executes cases against fixtures produced by newFixture
func Run(ctx context.Context, mode Mode, cases []Case, newFixture FixtureFactory, opts Options) *Report {
	report := &Report{Mode: mode, Network: opts.Network}

	var shared *Fixture
	defer func() {
		if shared != nil && shared.Close != nil {
			shared.Close()
		}
	}()

	for _, c := range Filter(cases, opts.Grep) {
		start := time.Now()
		err := func() error {
			fx := shared
			if fx == nil || opts.Fresh {
				var err error
				fx, err = newFixture(ctx)
				if err != nil {
					return fmt.Errorf("fixture: %w", err)
				}
				if opts.Fresh {
					if fx.Close != nil {
						defer fx.Close()
					}
				} else {
					shared = fx
				}
			}
			if opts.Gas != nil {
				fx = withGas(fx, opts.Gas)
			}
			return c.Run(ctx, fx)
		}()
		report.Results = append(report.Results, Result{Case: c, Err: err, Duration: time.Since(start)})
		if ctx.Err() != nil {
			break
		}
	}
	return report
}

// Filter keeps the cases whose title contains grep, case-insensitively
func Filter(cases []Case, grep string) []Case {
	if grep == "" {
		return cases
	}
	needle := strings.ToLower(grep)
	var out []Case
	for _, c := range cases {
		if strings.Contains(strings.ToLower(c.Title()), needle) {
			out = append(out, c)
		}
	}
	return out
}

func withGas(fx *Fixture, gas GasRecorder) *Fixture {
	cp := *fx
	cp.FundMe = &recordingFundMe{FundMe: fx.FundMe, gas: gas}
	return &cp
}

// recordingFundMe reports the gas of every state-changing call
type recordingFundMe struct {
	FundMe
	gas GasRecorder
}

func (r *recordingFundMe) record(method string, rcpt *Receipt, err error) (*Receipt, error) {
	if err == nil && rcpt != nil {
		r.gas.Record(domain.FundMeContract, method, rcpt.GasUsed)
	}
	return rcpt, err
}

func (r *recordingFundMe) Fund(ctx context.Context, from domain.Signer, value *big.Int) (*Receipt, error) {
	rcpt, err := r.FundMe.Fund(ctx, from, value)
	return r.record("fund", rcpt, err)
}

func (r *recordingFundMe) Withdraw(ctx context.Context, from domain.Signer) (*Receipt, error) {
	rcpt, err := r.FundMe.Withdraw(ctx, from)
	return r.record("withdraw", rcpt, err)
}

func (r *recordingFundMe) CheaperWithdraw(ctx context.Context, from domain.Signer) (*Receipt, error) {
	rcpt, err := r.FundMe.CheaperWithdraw(ctx, from)
	return r.record("cheaperWithdraw", rcpt, err)
}
