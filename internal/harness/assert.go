package harness

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

// AssertionError is a failed expectation inside a case
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string { return e.Message }

func failf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

func expectAddress(what string, want, got common.Address) error {
	if want != got {
		return failf("%s: expected %s, got %s", what, want.Hex(), got.Hex())
	}
	return nil
}

func expectBig(what string, want, got *big.Int) error {
	if got == nil || want.Cmp(got) != 0 {
		return failf("%s: expected %s, got %v", what, want, got)
	}
	return nil
}

// expectRevertedWith requires err to be a revert with exactly reason
func expectRevertedWith(err error, reason string) error {
	if err == nil {
		return failf("expected revert with %q, call succeeded", reason)
	}
	re, ok := domain.AsRevert(err)
	if !ok {
		return failf("expected revert with %q, got %v", reason, err)
	}
	if re.Reason != reason {
		return failf("expected revert with %q, got %q", reason, re.Reason)
	}
	return nil
}

// expectCustomError requires err to be a revert with the named custom error
func expectCustomError(err error, name string) error {
	if err == nil {
		return failf("expected custom error %s, call succeeded", name)
	}
	re, ok := domain.AsRevert(err)
	if !ok {
		return failf("expected custom error %s, got %v", name, err)
	}
	if re.ErrorName != name {
		return failf("expected custom error %s, got %v", name, re)
	}
	return nil
}

func expectReverted(err error) error {
	if err == nil {
		return failf("expected revert, call succeeded")
	}
	if _, ok := domain.AsRevert(err); !ok {
		return failf("expected revert, got %v", err)
	}
	return nil
}

// firstErr returns the first non-nil error
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
