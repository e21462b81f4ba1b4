package cli

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DefaultFundAmount is the fund value used when --amount is not given
const DefaultFundAmount = "0.1"

// NewFundCmd creates the fund command
func NewFundCmd() *cobra.Command {
	var (
		amount  string
		account int
	)

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Send ETH to the deployed FundMe contract",
		Long: `Call fund() on the FundMe deployment of the selected network.
On development networks without a deployment the deploy scripts run first.`,
		Example: `  fundme fund
  fundme fund --amount 0.05 --account 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			wei, err := ParseEther(amount)
			if err != nil {
				return err
			}

			opts := usecase.FundParams{Amount: wei}
			if cmd.Flags().Changed("account") {
				opts.Account = &account
			}

			result, err := app.FundContract.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}

			return render.NewFundRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", DefaultFundAmount, "Amount of ETH to send")
	cmd.Flags().IntVar(&account, "account", 0, "Index of the funding account (defaults to the deployer)")

	return cmd
}

// ParseEther converts a decimal ETH amount to wei
func ParseEther(amount string) (*big.Int, error) {
	value, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}
	wei := new(big.Rat).Mul(value, new(big.Rat).SetInt64(params.Ether))
	if !wei.IsInt() {
		return nil, fmt.Errorf("amount %s has more than 18 decimals", amount)
	}
	return wei.Num(), nil
}
