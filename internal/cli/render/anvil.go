package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// AnvilRenderer renders anvil operation results
type AnvilRenderer struct {
	out io.Writer
}

// NewAnvilRenderer creates a new anvil renderer
func NewAnvilRenderer(out io.Writer) *AnvilRenderer {
	return &AnvilRenderer{out: out}
}

// Render renders the anvil operation result
func (r *AnvilRenderer) Render(result *usecase.ManageAnvilResult) error {
	switch result.Operation {
	case usecase.NodeStart, usecase.NodeRestart:
		return r.renderStart(result)
	case usecase.NodeStop:
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
		return nil
	case usecase.NodeStatus:
		return r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

func (r *AnvilRenderer) renderStart(result *usecase.ManageAnvilResult) error {
	fmt.Fprintln(r.out, FormatSuccess(result.Message))
	if result.Status != nil {
		color.New(color.FgYellow).Fprintf(r.out, "📋 Logs: %s\n", result.Status.LogFile)
		color.New(color.FgBlue).Fprintf(r.out, "🌐 RPC URL: %s\n", result.Status.RPCURL)
	}
	fmt.Fprintln(r.out, "Deploy to it with --network localhost")
	return nil
}

func (r *AnvilRenderer) renderStatus(result *usecase.ManageAnvilResult) error {
	headerStyle.Fprintf(r.out, "📊 Anvil Status ('%s'):\n", result.Instance.Name)

	status := result.Status
	if !status.Running {
		errorStyle.Fprintln(r.out, "Status: 🔴 Not running")
		color.New(color.FgHiBlack).Fprintf(r.out, "PID file: %s\n", result.Instance.PidFile)
		color.New(color.FgHiBlack).Fprintf(r.out, "Log file: %s\n", result.Instance.LogFile)
		return nil
	}

	successStyle.Fprintf(r.out, "Status: 🟢 Running (PID %d)\n", status.PID)
	color.New(color.FgBlue).Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	color.New(color.FgYellow).Fprintf(r.out, "Log file: %s\n", status.LogFile)
	if status.RPCHealthy {
		successStyle.Fprintf(r.out, "RPC Health: ✅ Responding (chain %d)\n", status.ChainID)
	} else {
		msg := "RPC Health: ❌ Not responding"
		if status.Error != "" {
			msg += ": " + status.Error
		}
		errorStyle.Fprintln(r.out, msg)
	}
	return nil
}

var _ Renderer[*usecase.ManageAnvilResult] = (*AnvilRenderer)(nil)
