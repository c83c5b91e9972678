package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/harness"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestTestRenderer(t *testing.T) {
	report := &harness.Report{
		Mode:    harness.ModeUnit,
		Network: "simulated",
		Results: []harness.Result{
			{Case: harness.Case{Group: "constructor", Name: "sets the aggregator addresses correctly"}, Duration: 12 * time.Millisecond},
			{Case: harness.Case{Group: "fund", Name: "fails if you don't send enough ETH"}, Err: errors.New("expected revert\nbut call succeeded")},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewTestRenderer(&out).Render(report))

	got := out.String()
	assert.Contains(t, got, "FundMe unit tests on simulated")
	assert.Contains(t, got, "✔ sets the aggregator addresses correctly")
	assert.Contains(t, got, "1 passing")
	assert.Contains(t, got, "1 failing")
	assert.Contains(t, got, "1) fund fails if you don't send enough ETH")
	assert.Contains(t, got, "     but call succeeded")
}

func TestTestRendererNoMatches(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewTestRenderer(&out).Render(&harness.Report{Mode: harness.ModeStaging, Network: "sepolia"}))
	assert.Contains(t, out.String(), "No tests matched")
}

func TestDeployRenderer(t *testing.T) {
	result := &usecase.DeployResult{
		Network: "simulated",
		ChainID: 1337,
		Steps:   []string{"mocks", "fundme"},
		Records: []*domain.DeploymentRecord{
			{ContractName: domain.MockV3AggregatorContract, Address: common.HexToAddress("0x01"), GasUsed: 569635, ConfirmationsWaited: 1},
			{ContractName: domain.FundMeContract, Address: common.HexToAddress("0x02"), Reused: true, Verification: domain.VerificationInfo{Status: domain.VerificationStatusVerified}},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewDeployRenderer(&out).Render(result))

	got := out.String()
	assert.Contains(t, got, domain.MockV3AggregatorContract)
	assert.Contains(t, got, "569635")
	assert.Contains(t, got, "reused")
	assert.Contains(t, got, "Verified")
	assert.Contains(t, got, "Ran 2 step(s) on simulated (chain 1337)")
}

func TestFormatVerification(t *testing.T) {
	tests := []struct {
		status   domain.VerificationStatus
		expected string
	}{
		{status: domain.VerificationStatusVerified, expected: "✔︎ Verified"},
		{status: domain.VerificationStatusFailed, expected: "✗ Failed"},
		{status: domain.VerificationStatusSkipped, expected: "- Skipped"},
		{status: domain.VerificationStatusUnverified, expected: "? Unverified"},
		{status: "", expected: "? Unverified"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatVerification(tt.status))
		})
	}
}
