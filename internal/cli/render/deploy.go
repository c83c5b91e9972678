package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// DeployRenderer renders the summary of a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints the contracts the run deployed or reused
func (r *DeployRenderer) Render(result *usecase.DeployResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No contracts deployed on %s", result.Network)))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Contract", "Address", "Tx", "Gas", "Confirmations", "Verification"})
	for _, rec := range result.Records {
		tx := rec.TransactionHash.Hex()
		if rec.Reused {
			tx = faintStyle.Sprint("reused")
		}
		t.AppendRow(table.Row{
			rec.ContractName,
			rec.Address.Hex(),
			tx,
			rec.GasUsed,
			rec.ConfirmationsWaited,
			FormatVerification(rec.Verification.Status),
		})
	}
	t.Render()

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Ran %d step(s) on %s (chain %d)", len(result.Steps), result.Network, result.ChainID)))
	return nil
}

var _ Renderer[*usecase.DeployResult] = (*DeployRenderer)(nil)
