package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// Step names of the built-in plan
const (
	StepMocks  = "mocks"
	StepFundMe = "fundme"
)

// ErrDeploymentCancelled is returned when the user declines the broadcast prompt
var ErrDeploymentCancelled = errors.New("deployment cancelled")

// StepContext is shared by the steps of one run
type StepContext struct {
	Env    *Environment
	Oracle OracleSource
	Force  bool
	// Progress receives the deploy log lines
	Progress ProgressSink
	// Records holds what this run deployed or reused, by contract name
	Records map[string]*domain.DeploymentRecord
}

// DeployStep is a named unit of a deployment plan
type DeployStep struct {
	Name         string
	Tags         []string
	Dependencies []string
	Run          func(ctx context.Context, sc *StepContext) error
}

// Plan is a validated set of steps
type Plan struct {
	steps map[string]*DeployStep
}

// PlanFile is the optional deploy-plan.yaml overriding tags and dependencies
type PlanFile struct {
	Steps map[string]*PlanStepConfig `yaml:"steps"`
}

// PlanStepConfig overrides a built-in step
type PlanStepConfig struct {
	Tags []string `yaml:"tags,omitempty"`
	Deps []string `yaml:"deps,omitempty"`
}

// NewPlan validates steps: unique names, known dependencies, no self edges
func NewPlan(steps ...*DeployStep) (*Plan, error) {
	p := &Plan{steps: make(map[string]*DeployStep, len(steps))}
	for _, s := range steps {
		if s.Name == "" {
			return nil, fmt.Errorf("step name is required")
		}
		if _, dup := p.steps[s.Name]; dup {
			return nil, fmt.Errorf("step '%s' is defined twice", s.Name)
		}
		p.steps[s.Name] = s
	}
	for name, s := range p.steps {
		for _, dep := range s.Dependencies {
			if dep == name {
				return nil, fmt.Errorf("step '%s' cannot depend on itself", name)
			}
			if _, ok := p.steps[dep]; !ok {
				return nil, fmt.Errorf("step '%s' depends on non-existent step '%s'", name, dep)
			}
		}
	}
	return p, nil
}

// ApplyFile overlays a plan file on the steps
func (p *Plan) ApplyFile(pf *PlanFile) (*Plan, error) {
	steps := make([]*DeployStep, 0, len(p.steps))
	for name, s := range p.steps {
		cp := *s
		if override, ok := pf.Steps[name]; ok && override != nil {
			if override.Tags != nil {
				cp.Tags = override.Tags
			}
			if override.Deps != nil {
				cp.Dependencies = override.Deps
			}
		}
		steps = append(steps, &cp)
	}
	for name := range pf.Steps {
		if _, ok := p.steps[name]; !ok {
			return nil, fmt.Errorf("plan file configures unknown step '%s'", name)
		}
	}
	return NewPlan(steps...)
}

// Select returns the steps carrying any of tags plus their transitive
// dependencies, in execution order. No tags selects everything.
func (p *Plan) Select(tags []string) ([]*DeployStep, error) {
	selected := make(map[string]bool)
	var include func(name string)
	include = func(name string) {
		if selected[name] {
			return
		}
		selected[name] = true
		for _, dep := range p.steps[name].Dependencies {
			include(dep)
		}
	}

	for name, s := range p.steps {
		if len(tags) == 0 || slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(s.Tags, t) }) {
			include(name)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no deployment step matches tags %s (known tags: %s)", strings.Join(tags, ","), strings.Join(p.Tags(), ","))
	}

	ordered, err := p.TopologicalSort()
	if err != nil {
		return nil, err
	}
	out := ordered[:0]
	for _, s := range ordered {
		if selected[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Tags lists every tag used by the plan
func (p *Plan) Tags() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range p.steps {
		for _, t := range s.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

// TopologicalSort orders all steps so dependencies come first.
// Returns an error if there's a cycle.
func (p *Plan) TopologicalSort() ([]*DeployStep, error) {
	inDegree := make(map[string]int, len(p.steps))
	dependents := make(map[string][]string)
	for name, s := range p.steps {
		inDegree[name] += 0
		for _, dep := range s.Dependencies {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]*DeployStep, 0, len(p.steps))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, p.steps[current])

		next := dependents[current]
		sort.Strings(next)
		for _, d := range next {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(p.steps) {
		var cycle []string
		for name, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, fmt.Errorf("circular dependency detected involving steps: %v", cycle)
	}
	return result, nil
}

// LoadPlanFile parses a deploy-plan.yaml
func LoadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied plan path
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	var pf PlanFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	return &pf, nil
}

// DeployParams contains parameters for a deployment run
type DeployParams struct {
	Tags  []string
	Reset bool
	Force bool
}

// DeployResult contains the result of a deployment run
type DeployResult struct {
	Network string
	ChainID uint64
	Steps   []string
	Records []*domain.DeploymentRecord
}

// DeployContracts runs the tagged deployment plan against the active network
type DeployContracts struct {
	cfg       *config.RuntimeConfig
	envs      EnvironmentFactory
	oracle    *ResolveOracle
	mocks     *ProvisionMocks
	fundMe    *DeployFundMe
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	envs EnvironmentFactory,
	oracle *ResolveOracle,
	mocks *ProvisionMocks,
	fundMe *DeployFundMe,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		cfg:       cfg,
		envs:      envs,
		oracle:    oracle,
		mocks:     mocks,
		fundMe:    fundMe,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Plan returns the built-in plan, overlaid with the configured plan file
func (uc *DeployContracts) Plan() (*Plan, error) {
	plan, err := NewPlan(
		&DeployStep{
			Name: StepMocks,
			Tags: []string{domain.TagAll, domain.TagMocks},
			Run: func(ctx context.Context, sc *StepContext) error {
				res, err := uc.mocks.ProvisionIfDevelopment(ctx, sc)
				if err != nil {
					return err
				}
				if !res.Skipped {
					sc.Records[res.Record.ContractName] = res.Record
				}
				return nil
			},
		},
		&DeployStep{
			Name:         StepFundMe,
			Tags:         []string{domain.TagAll, domain.TagFundMe},
			Dependencies: []string{StepMocks},
			Run: func(ctx context.Context, sc *StepContext) error {
				rec, err := uc.fundMe.Deploy(ctx, sc)
				if err != nil {
					return err
				}
				sc.Records[rec.ContractName] = rec
				return nil
			},
		},
	)
	if err != nil {
		return nil, err
	}
	if uc.cfg.PlanFile == "" {
		return plan, nil
	}
	pf, err := LoadPlanFile(uc.cfg.PlanFile)
	if err != nil {
		return nil, err
	}
	return plan.ApplyFile(pf)
}

// Run opens the active network and executes the selected steps
func (uc *DeployContracts) Run(ctx context.Context, params DeployParams) (*DeployResult, error) {
	env, err := uc.envs.Open(ctx, OpenOptions{Reset: params.Reset})
	if err != nil {
		return nil, err
	}
	defer env.Close()

	if !uc.cfg.IsDevelopmentNetwork(env.Network.Name) && !uc.cfg.NonInteractive && uc.confirmer != nil {
		deployer := "unknown"
		if len(env.Accounts) > 0 {
			deployer = env.Accounts[0].Address().Hex()
		}
		ok, err := uc.confirmer.Confirm(fmt.Sprintf("Deploy to %s (chain %d) from %s", env.Network.Name, env.ChainID, deployer))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentCancelled
		}
	}

	if params.Reset {
		uc.log.Debug("resetting deployment records", "network", env.Network.Name)
		if err := env.Store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset deployments: %w", err)
		}
	}

	return uc.Apply(ctx, env, ApplyOptions{Tags: params.Tags, Force: params.Force || params.Reset, Progress: uc.progress})
}

// ApplyOptions tunes a plan execution
type ApplyOptions struct {
	Tags     []string
	Force    bool
	Progress ProgressSink
}

// Apply executes the steps selected by tags on an opened environment
func (uc *DeployContracts) Apply(ctx context.Context, env *Environment, opts ApplyOptions) (*DeployResult, error) {
	plan, err := uc.Plan()
	if err != nil {
		return nil, err
	}
	steps, err := plan.Select(opts.Tags)
	if err != nil {
		return nil, err
	}

	source := uc.oracle.Source(env.Store, env.Network.Name)
	uc.log.Debug("oracle source selected", "network", env.Network.Name, "source", source.Kind())

	// Registry gaps are fatal before anything is broadcast
	if _, isRegistry := source.(*RegistryOracleSource); isRegistry && slices.ContainsFunc(steps, func(s *DeployStep) bool { return s.Name == StepFundMe }) {
		if _, err := source.Resolve(ctx, env.ChainID); err != nil {
			return nil, err
		}
	}

	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	sc := &StepContext{Env: env, Oracle: source, Force: opts.Force, Progress: progress, Records: map[string]*domain.DeploymentRecord{}}
	result := &DeployResult{Network: env.Network.Name, ChainID: env.ChainID}
	for _, step := range steps {
		uc.log.Debug("running deploy step", "step", step.Name, "network", env.Network.Name)
		if err := step.Run(ctx, sc); err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Name, err)
		}
		result.Steps = append(result.Steps, step.Name)
	}

	for _, name := range []string{domain.MockV3AggregatorContract, domain.FundMeContract} {
		if rec, ok := sc.Records[name]; ok {
			result.Records = append(result.Records, rec)
		}
	}
	return result, nil
}
