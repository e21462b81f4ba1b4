package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/fundme/internal/adapters/progress"
	"github.com/trebuchet-org/fundme/internal/app"
	"github.com/trebuchet-org/fundme/internal/cli/render"
	"github.com/trebuchet-org/fundme/internal/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// cancelKey is the context key for the timeout cancel func
	cancelKey contextKey = "cancel"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fundme",
		Short: "Deploy and operate the FundMe contract",
		Long: `fundme deploys the FundMe contract with the right ETH/USD price feed for the
selected network, verifies it on the block explorer and funds or withdraws from it.

Development networks (hardhat, localhost) get a MockV3Aggregator price feed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink
			if v.GetBool("non_interactive") {
				sink = progress.NewPlainSink(cmd.OutOrStdout(), cmd.ErrOrStderr())
			} else {
				sink = progress.NewSpinnerSink(cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				ctx = context.WithValue(ctx, cancelKey, cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cancel, ok := cmd.Context().Value(cancelKey).(context.CancelFunc); ok {
				defer cancel()
			}
			appInstance, err := getApp(cmd)
			if err != nil {
				return nil
			}

			report, err := appInstance.Close(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning(fmt.Sprintf("gas report: %v", err)))
				return nil
			}
			if report != "" {
				fmt.Fprintln(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., hardhat, localhost, sepolia)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this duration")
	rootCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the nearest directory with fundme.toml)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewVerifyCmd(), NewFundCmd(), NewWithdrawCmd()} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewDeploymentsCmd(), NewNetworksCmd(), NewNodeCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipApp reports whether the command runs without project configuration
func skipApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
