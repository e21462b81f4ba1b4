package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewWithdrawCmd creates the withdraw command
func NewWithdrawCmd() *cobra.Command {
	var (
		cheaper bool
		account int
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the FundMe balance to its owner",
		Long: `Call withdraw() on the FundMe deployment of the selected network.
Only the owner may withdraw; any other account is rejected with FundMe__NotOwner.`,
		Example: `  fundme withdraw
  fundme withdraw --cheaper`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.WithdrawParams{Cheaper: cheaper}
			if cmd.Flags().Changed("account") {
				params.Account = &account
			}

			result, err := app.WithdrawFunds.Execute(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewWithdrawRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&cheaper, "cheaper", false, "Use cheaperWithdraw()")
	cmd.Flags().IntVar(&account, "account", 0, "Index of the calling account (defaults to the deployer)")

	return cmd
}
