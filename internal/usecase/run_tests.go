package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/harness"
)

// RunTestsParams contains parameters for the test command
type RunTestsParams struct {
	Grep string
}

// RunTests runs the unit suite on development networks and the staging suite
// everywhere else
type RunTests struct {
	cfg       *config.RuntimeConfig
	envs      EnvironmentFactory
	deploy    *DeployContracts
	artifacts ArtifactLoader
	binder    ContractBinder
	gas       GasReporter
	log       *slog.Logger
}

// NewRunTests creates a new RunTests use case
func NewRunTests(
	cfg *config.RuntimeConfig,
	envs EnvironmentFactory,
	deploy *DeployContracts,
	artifacts ArtifactLoader,
	binder ContractBinder,
	gas GasReporter,
	log *slog.Logger,
) *RunTests {
	return &RunTests{
		cfg:       cfg,
		envs:      envs,
		deploy:    deploy,
		artifacts: artifacts,
		binder:    binder,
		gas:       gas,
		log:       log,
	}
}

// Run executes exactly one suite, selected by the development membership of the network
func (uc *RunTests) Run(ctx context.Context, params RunTestsParams) (*harness.Report, error) {
	opts := harness.Options{Network: uc.cfg.Network.Name, Grep: params.Grep}
	if uc.gasEnabled() {
		opts.Gas = uc.gas
	}

	var report *harness.Report
	if uc.cfg.IsDevelopment() {
		opts.Fresh = true
		report = harness.Run(ctx, harness.ModeUnit, harness.UnitCases(), uc.unitFixture, opts)
	} else {
		report = harness.Run(ctx, harness.ModeStaging, harness.StagingCases(), uc.stagingFixture, opts)
	}

	if opts.Gas != nil {
		if err := uc.gas.Write(ctx); err != nil {
			uc.log.Warn("failed to write gas report", "error", err)
		}
	}
	return report, nil
}

// unitFixture deploys every step on a fresh chain and store
func (uc *RunTests) unitFixture(ctx context.Context) (*harness.Fixture, error) {
	env, err := uc.envs.Open(ctx, OpenOptions{Fresh: true})
	if err != nil {
		return nil, err
	}

	fx, err := func() (*harness.Fixture, error) {
		result, err := uc.deploy.Apply(ctx, env, ApplyOptions{Tags: []string{domain.TagAll}, Force: true})
		if err != nil {
			return nil, err
		}

		var fundMe, mock *domain.DeploymentRecord
		for _, r := range result.Records {
			switch r.ContractName {
			case domain.FundMeContract:
				fundMe = r
			case domain.MockV3AggregatorContract:
				mock = r
			}
			if uc.gasEnabled() && !r.Reused {
				uc.gas.Record(r.ContractName, "deployment", r.GasUsed)
			}
		}
		if fundMe == nil || mock == nil {
			return nil, fmt.Errorf("fixture did not deploy %s and %s", domain.MockV3AggregatorContract, domain.FundMeContract)
		}

		fx, err := uc.bind(env, fundMe)
		if err != nil {
			return nil, err
		}
		fx.PriceFeed = mock.Address
		return fx, nil
	}()
	if err != nil {
		env.Close()
		return nil, err
	}
	fx.Close = env.Close
	return fx, nil
}

// stagingFixture attaches to the recorded deployment
func (uc *RunTests) stagingFixture(ctx context.Context) (*harness.Fixture, error) {
	env, err := uc.envs.Open(ctx, OpenOptions{})
	if err != nil {
		return nil, err
	}

	record, err := env.Store.Get(ctx, domain.FundMeContract)
	if errors.Is(err, domain.ErrNotFound) {
		env.Close()
		return nil, fmt.Errorf("%s is not deployed on %s, run `fundme deploy` first: %w", domain.FundMeContract, env.Network.Name, err)
	}
	if err != nil {
		env.Close()
		return nil, err
	}

	fx, err := uc.bind(env, record)
	if err != nil {
		env.Close()
		return nil, err
	}
	fx.Close = env.Close
	return fx, nil
}

func (uc *RunTests) gasEnabled() bool {
	return uc.cfg.GasReporter.Enabled && uc.gas != nil
}

func (uc *RunTests) bind(env *Environment, record *domain.DeploymentRecord) (*harness.Fixture, error) {
	artifact, err := uc.artifacts.Load(domain.FundMeContract)
	if err != nil {
		return nil, err
	}
	fundMe, err := uc.binder.BindFundMe(record, artifact, env.Client, env.ChainID)
	if err != nil {
		return nil, err
	}
	if len(env.Accounts) == 0 {
		return nil, fmt.Errorf("no accounts available on %s", env.Network.Name)
	}
	return &harness.Fixture{
		FundMe:   fundMe,
		Ledger:   env.Client,
		Accounts: env.Accounts,
	}, nil
}
