package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		tags  []string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deploy scripts on the selected network",
		Long: `Run the deploy scripts in order:

  00-deploy-mocks     deploys MockV3Aggregator on development networks (tags: all, mocks)
  01-deploy-fund-me   deploys FundMe with the network's ETH/USD price feed (tags: all, fundme)

On public networks FundMe is verified on the block explorer when ETHERSCAN_API_KEY is set.
Verification problems are reported and never fail the deployment.`,
		Example: `  fundme deploy
  fundme deploy --network sepolia
  fundme deploy --tags mocks --network localhost`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunDeploy.Execute(cmd.Context(), usecase.RunDeployOptions{
				Tags:  tags,
				Reset: reset,
			})
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only run deploy scripts with these tags")
	cmd.Flags().BoolVar(&reset, "reset", false, "Forget earlier deployments on this network before deploying")

	return cmd
}
