package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrOrderingViolation is returned when the oracle is resolved on a development
	// network before the mock aggregator was provisioned in the same session
	ErrOrderingViolation = errors.New("ordering violation")

	// ErrAlreadyVerified is returned by explorers that already hold the source
	ErrAlreadyVerified = errors.New("already verified")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// ConfigurationError reports a network or chain the project is not configured for.
// It is always fatal and raised before any transaction is sent.
type ConfigurationError struct {
	Network string
	ChainID uint64
	Reason  string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Network != "" {
		fmt.Fprintf(&b, " for network %q", e.Network)
	}
	if e.ChainID != 0 {
		fmt.Fprintf(&b, " (chain %d)", e.ChainID)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// TransactionRevertedError is returned when the chain rejected a deployment
type TransactionRevertedError struct {
	Contract string
	TxHash   common.Hash
	Err      error
}

func (e *TransactionRevertedError) Error() string {
	msg := fmt.Sprintf("transaction for %s reverted", e.Contract)
	if e.TxHash != (common.Hash{}) {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash.Hex())
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransactionRevertedError) Unwrap() error { return e.Err }

// RevertError carries the decoded revert data of a call or transaction
type RevertError struct {
	// Reason is the Error(string) message or the decoded panic reason
	Reason string
	// ErrorName is the name of the matching custom error from the contract ABI
	ErrorName string
	Data      []byte
	Err       error
}

func (e *RevertError) Error() string {
	switch {
	case e.ErrorName != "":
		return fmt.Sprintf("execution reverted with custom error %s", e.ErrorName)
	case e.Reason != "":
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	default:
		return "execution reverted"
	}
}

func (e *RevertError) Unwrap() error { return e.Err }

// VerificationFailure wraps an explorer error. It never aborts a deployment run.
type VerificationFailure struct {
	Contract string
	Address  common.Address
	Err      error
}

func (e *VerificationFailure) Error() string {
	return fmt.Sprintf("verification of %s at %s failed: %v", e.Contract, e.Address.Hex(), e.Err)
}

func (e *VerificationFailure) Unwrap() error { return e.Err }

// AsRevert returns the RevertError in err's chain, if any
func AsRevert(err error) (*RevertError, bool) {
	var re *RevertError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
