package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/fundme/internal/usecase"
)

// FundRenderer renders fund results
type FundRenderer struct {
	out io.Writer
}

// NewFundRenderer creates a new fund renderer
func NewFundRenderer(out io.Writer) *FundRenderer {
	return &FundRenderer{out: out}
}

// Render renders a funding transaction
func (r *FundRenderer) Render(result *usecase.FundResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Funded %s with %s", result.Contract.Hex(), FormatEther(result.Amount))))
	fmt.Fprintf(r.out, "  Funder:         %s\n", result.Funder.Hex())
	fmt.Fprintf(r.out, "  Transaction:    %s (block %d, gas %d)\n", result.Tx.Hash.Hex(), result.Tx.BlockNumber, result.Tx.GasUsed)
	fmt.Fprintf(r.out, "  Amount funded:  %s\n", FormatEther(result.AmountFunded))
	fmt.Fprintf(r.out, "  Balance:        %s\n", FormatEther(result.Balance))
	return nil
}

// WithdrawRenderer renders withdraw results
type WithdrawRenderer struct {
	out io.Writer
}

// NewWithdrawRenderer creates a new withdraw renderer
func NewWithdrawRenderer(out io.Writer) *WithdrawRenderer {
	return &WithdrawRenderer{out: out}
}

// Render renders a withdrawal
func (r *WithdrawRenderer) Render(result *usecase.WithdrawResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Withdrew %s from %s", FormatEther(result.Withdrawn()), result.Contract.Hex())))
	fmt.Fprintf(r.out, "  Method:       %s()\n", result.Method)
	fmt.Fprintf(r.out, "  Owner:        %s\n", result.Caller.Hex())
	fmt.Fprintf(r.out, "  Transaction:  %s (block %d, gas %d)\n", result.Tx.Hash.Hex(), result.Tx.BlockNumber, result.Tx.GasUsed)
	fmt.Fprintf(r.out, "  Gas cost:     %s\n", FormatEther(result.Tx.GasCost()))
	fmt.Fprintf(r.out, "  Balance:      %s\n", FormatEther(result.EndingBalance))
	return nil
}

var (
	_ Renderer[*usecase.FundResult]     = (*FundRenderer)(nil)
	_ Renderer[*usecase.WithdrawResult] = (*WithdrawRenderer)(nil)
)
