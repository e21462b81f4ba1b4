package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command group
func NewDeploymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "Inspect recorded deployments",
	}

	cmd.AddCommand(newDeploymentsListCmd(), newDeploymentsShowCmd())
	return cmd
}

func newDeploymentsListCmd() *cobra.Command {
	var (
		output   string
		all      bool
		contract string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployments of the selected network",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return render.ValidateFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				AllNetworks: all,
				Contract:    contract,
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), output).Render(result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&all, "all", false, "List deployments of every network")
	cmd.Flags().StringVar(&contract, "contract", "", "Only list deployments of this contract")

	return cmd
}

func newDeploymentsShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <contract>",
		Short: "Show a deployment of the selected network",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return render.ValidateFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			record, err := app.ShowDeployment.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), output).RenderRecord(record)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
