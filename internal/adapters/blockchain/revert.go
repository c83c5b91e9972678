package blockchain

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

// DecodeRevert turns an RPC execution error into a *domain.RevertError. The
// revert data is matched against Error(string), Panic(uint256) and the custom
// errors of contract. Errors that are not reverts are returned unchanged.
func DecodeRevert(err error, contract *abi.ABI) error {
	if err == nil {
		return nil
	}
	var existing *domain.RevertError
	if errors.As(err, &existing) {
		return err
	}

	data, ok := revertData(err)
	if !ok {
		if strings.Contains(err.Error(), "execution reverted") {
			return &domain.RevertError{Reason: revertReasonFromMessage(err.Error()), Err: err}
		}
		return err
	}

	revert := &domain.RevertError{Data: data, Err: err}
	if reason, uerr := abi.UnpackRevert(data); uerr == nil {
		revert.Reason = reason
		return revert
	}
	if contract != nil && len(data) >= 4 {
		for name, customErr := range contract.Errors {
			if bytes.Equal(customErr.ID[:4], data[:4]) {
				revert.ErrorName = name
				return revert
			}
		}
	}
	return revert
}

// revertData extracts the hex payload carried by rpc.DataError
func revertData(err error) ([]byte, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	switch v := dataErr.ErrorData().(type) {
	case string:
		data, derr := hexutil.Decode(v)
		if derr != nil {
			return nil, false
		}
		return data, true
	case []byte:
		return v, true
	}
	return nil, false
}

// revertReasonFromMessage keeps the text after "execution reverted: "
func revertReasonFromMessage(msg string) string {
	const marker = "execution reverted: "
	if i := strings.Index(msg, marker); i >= 0 {
		return strings.TrimSpace(msg[i+len(marker):])
	}
	return ""
}
