package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [contract]",
		Short: "Verify a deployed contract on the block explorer",
		Long: `Publish the source of a recorded deployment to the network's block explorer.
The contract defaults to FundMe. A contract that is already verified counts as success.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  fundme verify --network sepolia
  fundme verify FundMe -n sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			contract := domain.ContractFundMe
			if len(args) == 1 {
				contract = args[0]
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), contract)
			if err != nil {
				return err
			}

			return render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	return cmd
}
