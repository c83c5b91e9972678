package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// SelectorAdapter handles interactive prompts
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// Confirm asks a yes/no question, an abort counts as no
func (s *SelectorAdapter) Confirm(message string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}
	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// SelectDeployment selects a deployment record from a list
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, records []*domain.DeploymentRecord, prompt string) (*domain.DeploymentRecord, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no deployments provided for selection")
	}
	if len(records) == 1 {
		return records[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	options := deploymentOptions(records)
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}

	promptSelect := promptui.Select{
		Label: prompt,
		Items: options,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Contract | bold }} {{ .Address | cyan }}{{ if .Status }} {{ .Status | yellow }}{{ end }}",
			Inactive: "  {{ .Contract }} {{ .Address | faint }}",
			Selected: "✓ {{ .Contract | green }} {{ .Address }}",
			Help:     color.New(color.FgYellow).Sprint("Type to filter, arrow keys to move, Enter to select"),
		},
		Size:              10,
		StartInSearchMode: true,
		Searcher:          searcher(labels),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return records[index], nil
}

// deploymentOption is one row of the selection list
type deploymentOption struct {
	Contract string
	Address  string
	Status   string
	// Label is the uncolored text matched by the searcher
	Label string
}

func deploymentOptions(records []*domain.DeploymentRecord) []deploymentOption {
	options := make([]deploymentOption, len(records))
	for i, r := range records {
		o := deploymentOption{Contract: r.ContractName, Address: r.Address.Hex()}
		if r.Verification.Status != "" {
			o.Status = fmt.Sprintf("[%s]", r.Verification.Status)
		}
		o.Label = strings.TrimSpace(strings.Join([]string{o.Contract, o.Address, o.Status}, " "))
		options[i] = o
	}
	return options
}

// searcher matches by substring first, then fuzzily, ignoring case
func searcher(labels []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}
		input = strings.ToLower(input)
		label := strings.ToLower(labels[index])
		return strings.Contains(label, input) || len(fuzzy.Find(input, []string{label})) > 0
	}
}

var (
	_ usecase.Confirmer          = (*SelectorAdapter)(nil)
	_ usecase.DeploymentSelector = (*SelectorAdapter)(nil)
)
