package render

import (
	"fmt"
	"io"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render prints the verification outcome of one record
func (r *VerifyRenderer) Render(result *usecase.VerifyResult) error {
	rec := result.Record
	name := fmt.Sprintf("%s at %s", rec.ContractName, rec.Address.Hex())

	switch result.Status {
	case domain.VerificationStatusVerified:
		msg := name + " is verified"
		if result.Reason != "" {
			msg += fmt.Sprintf(" (%s)", result.Reason)
		}
		fmt.Fprintln(r.out, FormatSuccess(msg))
	case domain.VerificationStatusSkipped:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Skipped %s: %s", name, result.Reason)))
	default:
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("verification of %s failed: %s", name, result.Reason)))
	}
	return nil
}

var _ Renderer[*usecase.VerifyResult] = (*VerifyRenderer)(nil)
