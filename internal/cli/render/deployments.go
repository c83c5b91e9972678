package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// DeploymentsRenderer renders the recorded deployments of a network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render prints one row per record followed by the verification summary
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintf(r.out, "No deployments found on %s\n", result.Network)
		return nil
	}

	headerStyle.Fprintf(r.out, "Deployments on %s\n", result.Network)
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Contract", "Address", "Block", "Args", "Verification", "Deployed"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 48, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, d := range result.Deployments {
		t.AppendRow(table.Row{
			d.ContractName,
			d.Address.Hex(),
			d.BlockNumber,
			formatArgs(d.Args),
			FormatVerification(d.Verification.Status),
			d.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()

	statuses := make([]domain.VerificationStatus, 0, len(result.Summary.ByStatus))
	for s := range result.Summary.ByStatus {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)
	fmt.Fprintf(r.out, "Total: %d", result.Summary.Total)
	for _, s := range statuses {
		fmt.Fprintf(r.out, "  %s: %d", FormatVerification(s), result.Summary.ByStatus[s])
	}
	fmt.Fprintln(r.out)
	return nil
}

func formatArgs(args []string) string {
	if len(args) == 0 {
		return faintStyle.Sprint("-")
	}
	return fmt.Sprint(args)
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
