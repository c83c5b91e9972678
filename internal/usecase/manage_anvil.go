package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

// Node operations understood by ManageAnvil
const (
	NodeStart   = "start"
	NodeStop    = "stop"
	NodeRestart = "restart"
	NodeStatus  = "status"
)

// ManageAnvilParams selects the node and the operation
type ManageAnvilParams struct {
	Operation string
	Name      string
	// Port and ChainID default to the [anvil] section of fundme.toml
	Port    string
	ChainID string
}

// ManageAnvilResult describes the node after the operation
type ManageAnvilResult struct {
	Operation string
	Instance  *domain.AnvilInstance
	Status    *domain.AnvilStatus
	Message   string
}

// ManageAnvil starts and stops the node serving the localhost network
type ManageAnvil struct {
	cfg      *config.RuntimeConfig
	nodes    AnvilManager
	progress ProgressSink
}

// NewManageAnvil creates a new ManageAnvil use case
func NewManageAnvil(cfg *config.RuntimeConfig, nodes AnvilManager, progress ProgressSink) *ManageAnvil {
	return &ManageAnvil{cfg: cfg, nodes: nodes, progress: progress}
}

// Execute runs one node operation
func (uc *ManageAnvil) Execute(ctx context.Context, params ManageAnvilParams) (*ManageAnvilResult, error) {
	node := uc.instance(params)

	switch params.Operation {
	case NodeStart:
		return uc.start(ctx, node)
	case NodeStop:
		return uc.stop(ctx, node)
	case NodeRestart:
		if _, err := uc.stop(ctx, node); err != nil {
			return nil, err
		}
		res, err := uc.start(ctx, node)
		if err != nil {
			return nil, err
		}
		res.Operation = NodeRestart
		return res, nil
	case NodeStatus:
		status, err := uc.nodes.GetStatus(ctx, node)
		if err != nil {
			return nil, fmt.Errorf("failed to get status: %w", err)
		}
		return &ManageAnvilResult{Operation: NodeStatus, Instance: node, Status: status}, nil
	}
	return nil, fmt.Errorf("unknown operation: %s", params.Operation)
}

func (uc *ManageAnvil) instance(params ManageAnvilParams) *domain.AnvilInstance {
	node := &domain.AnvilInstance{Name: params.Name, Port: params.Port, ChainID: params.ChainID}
	if node.Port == "" {
		node.Port = uc.cfg.Anvil.Port
	}
	if node.ChainID == "" && uc.cfg.Anvil.ChainID != 0 {
		node.ChainID = strconv.FormatUint(uc.cfg.Anvil.ChainID, 10)
	}
	return node
}

func (uc *ManageAnvil) running(ctx context.Context, node *domain.AnvilInstance) (*domain.AnvilStatus, bool) {
	status, err := uc.nodes.GetStatus(ctx, node)
	if err != nil || status == nil {
		return nil, false
	}
	return status, status.Running
}

func (uc *ManageAnvil) start(ctx context.Context, node *domain.AnvilInstance) (*ManageAnvilResult, error) {
	if status, ok := uc.running(ctx, node); ok {
		return nil, fmt.Errorf("node '%s' is already running (PID %d)", node.Name, status.PID)
	}

	uc.progress.Info(fmt.Sprintf("Starting anvil '%s' on port %s (chain %s)...", node.Name, node.Port, node.ChainID))
	if err := uc.nodes.Start(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err := uc.nodes.GetStatus(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}
	return &ManageAnvilResult{
		Operation: NodeStart,
		Instance:  node,
		Status:    status,
		Message:   fmt.Sprintf("Node '%s' listening on %s (PID %d)", node.Name, status.RPCURL, status.PID),
	}, nil
}

func (uc *ManageAnvil) stop(ctx context.Context, node *domain.AnvilInstance) (*ManageAnvilResult, error) {
	result := &ManageAnvilResult{Operation: NodeStop, Instance: node}
	if _, ok := uc.running(ctx, node); !ok {
		result.Message = fmt.Sprintf("Node '%s' is not running", node.Name)
		return result, nil
	}

	uc.progress.Info(fmt.Sprintf("Stopping anvil '%s'...", node.Name))
	if err := uc.nodes.Stop(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to stop anvil: %w", err)
	}
	result.Message = fmt.Sprintf("Node '%s' stopped, localhost deployments are gone with it", node.Name)
	return result, nil
}
