package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render prints the registry joined with the development networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in fundme.toml")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Type", "Confirmations", "ETH/USD Price Feed"})
	for _, n := range result.Networks {
		marker := ""
		if n.Name == result.Active {
			marker = successStyle.Sprint("*")
		}

		kind := "live"
		if n.Development {
			kind = "development"
		}

		feed := faintStyle.Sprint("-")
		switch {
		case n.Development:
			feed = "MockV3Aggregator"
		case n.Profile != nil && n.Profile.OracleAddress != nil:
			feed = n.Profile.OracleAddress.Hex()
		case n.Profile != nil:
			feed = errorStyle.Sprint("not configured")
		}

		chainID := "-"
		if n.ChainID != 0 {
			chainID = fmt.Sprint(n.ChainID)
		}
		confirmations := "-"
		if n.Confirmations != 0 {
			confirmations = fmt.Sprint(n.Confirmations)
		}
		t.AppendRow(table.Row{marker, n.Name, chainID, kind, confirmations, feed})
	}
	t.Render()
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
