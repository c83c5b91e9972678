package domain

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Contract names the deployment flow knows about
const (
	FundMeContract           = "FundMe"
	MockV3AggregatorContract = "MockV3Aggregator"
)

// Deployment tags selectable with `deploy --tags`
const (
	TagAll    = "all"
	TagMocks  = "mocks"
	TagFundMe = "fundme"
)

// NetworkProfile is the static registry entry of a supported chain
type NetworkProfile struct {
	ChainID       uint64          `json:"chainId"`
	Name          string          `json:"name"`
	OracleAddress *common.Address `json:"ethUsdPriceFeed,omitempty"`
}

// VerificationStatus represents the explorer verification state of a deployment
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
	VerificationStatusSkipped    VerificationStatus = "SKIPPED"
)

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status     VerificationStatus `json:"status"`
	Reason     string             `json:"reason,omitempty"`
	VerifiedAt *time.Time         `json:"verifiedAt,omitempty"`
}

// DeploymentRecord is what the deployer persists after a successful deployment.
// Later steps and the test harness locate contracts through it.
type DeploymentRecord struct {
	ContractName        string           `json:"contractName"`
	Address             common.Address   `json:"address"`
	Args                []string         `json:"args"`
	ArgsData            hexutil.Bytes    `json:"argsData"`
	ConfirmationsWaited uint64           `json:"confirmationsWaited"`
	Network             string           `json:"network"`
	ChainID             uint64           `json:"chainId"`
	Deployer            common.Address   `json:"deployer"`
	TransactionHash     common.Hash      `json:"transactionHash"`
	BlockNumber         uint64           `json:"blockNumber"`
	GasUsed             uint64           `json:"gasUsed"`
	BytecodeHash        common.Hash      `json:"bytecodeHash"`
	ABI                 json.RawMessage  `json:"abi,omitempty"`
	Verification        VerificationInfo `json:"verification"`
	CreatedAt           time.Time        `json:"createdAt"`

	// Reused is set when an identical earlier deployment was picked up instead of
	// sending a new transaction
	Reused bool `json:"-"`
}
