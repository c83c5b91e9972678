package domain

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Artifact is a compiled contract read from disk
type Artifact struct {
	ContractName string
	SourceName   string
	ABI          abi.ABI
	RawABI       json.RawMessage
	Bytecode     []byte
	BuildInfo    *BuildInfo
}

// BuildInfo is the compiler input that produced an artifact, needed for verification
type BuildInfo struct {
	SolcVersion     string
	SolcLongVersion string
	Input           json.RawMessage
}

// FullyQualifiedName returns "path/To.sol:Name", or the bare name when the source is unknown
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}

// BytecodeHash identifies the creation code of an artifact
func (a *Artifact) BytecodeHash() common.Hash {
	return crypto.Keccak256Hash(a.Bytecode)
}

// Signer is an account able to sign transactions
type Signer interface {
	Address() common.Address
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}
