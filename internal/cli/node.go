package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NewNodeCmd creates the node command group
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node",
		Long: `Start, stop and inspect the anvil node serving a local network.
The network defaults to localhost; its RPC URL decides the port.`,
	}

	cmd.AddCommand(
		newNodeOpCmd(usecase.NodeStart, "Start the local node"),
		newNodeOpCmd(usecase.NodeStop, "Stop the local node"),
		newNodeOpCmd(usecase.NodeRestart, "Restart the local node"),
		newNodeOpCmd(usecase.NodeStatus, "Show the local node status"),
		newNodeOpCmd(usecase.NodeLogs, "Stream the local node logs"),
	)

	return cmd
}

func newNodeOpCmd(operation, short string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   operation + " [network]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ManageNodeParams{
				Operation: operation,
				Port:      port,
			}
			if len(args) == 1 {
				params.Network = args[0]
			}
			if operation == usecase.NodeLogs {
				params.Logs = cmd.OutOrStdout()
			}

			result, err := app.ManageNode.Execute(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewNodeRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	if operation == usecase.NodeStart || operation == usecase.NodeRestart {
		cmd.Flags().StringVar(&port, "port", "", "Port to listen on (defaults to the network's RPC port)")
	}

	return cmd
}
