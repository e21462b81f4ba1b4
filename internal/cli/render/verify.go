package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/fundme/internal/usecase"
)

// VerifyRenderer renders verification outcomes
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render prints one line describing the outcome
func (r *VerifyRenderer) Render(result *usecase.VerifyDeploymentResult) error {
	subject := fmt.Sprintf("%s at %s", result.Record.Contract, result.Record.Address.Hex())
	switch result.Outcome {
	case usecase.VerificationVerified, usecase.VerificationAlreadyVerified:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s: %s", Title(string(result.Outcome)), subject)))
	case usecase.VerificationSkipped:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verification skipped for %s", subject)))
	default:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verification failed for %s", subject)))
	}
	return nil
}

var _ Renderer[*usecase.VerifyDeploymentResult] = (*VerifyRenderer)(nil)
