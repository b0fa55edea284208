package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/progress"
	"github.com/trebuchet-org/starkdeploy/internal/app"
	"github.com/trebuchet-org/starkdeploy/internal/config"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// requiresSigner marks commands that sign transactions
	requiresSigner = "requires-signer"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starkdeploy",
		Short: "Contract lifecycle orchestrator for Starknet",
		Long: `starkdeploy compiles Cairo contracts, declares their classes, deploys
instances through the universal deployer and invokes or calls them, keeping
class hashes and deployment addresses in per-project registries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v, err := config.SetupViper(projectRoot, cmd)
			if err != nil {
				return err
			}

			appInstance, err := app.InitApp(v, newSink(v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			if cmd.Annotations[requiresSigner] == "true" {
				if err := appInstance.Config.ValidateSigner(); err != nil {
					return err
				}
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Write results as JSON")
	flags.String("rpc-url", "", "Node JSON-RPC endpoint (env: RPC_URL)")
	flags.String("account-address", "", "Signer account address (env: ACCOUNT_ADDRESS)")
	flags.String("private-key", "", "Signer private key (env: PRIVATE_KEY)")
	flags.String("max-fee", "", "Maximum fee per transaction")
	flags.Int("cairo-version", 0, "Account calldata layout (0 or 1)")
	flags.Duration("poll-interval", 0, "Delay between receipt polls")
	flags.Duration("finality-timeout", 0, "Give up waiting for finality after this long (0 waits forever)")
	flags.Duration("timeout", 0, "Overall command timeout")
	flags.Int("concurrency", 0, "Maximum parallel compilations and declarations")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "lifecycle",
		Title: "Lifecycle Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewCompileCmd(),
		NewDeclareCmd(),
		NewDeployCmd(),
		NewInvokeCmd(),
		NewCallCmd(),
	} {
		cmd.GroupID = "lifecycle"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewListCmd(),
		NewCheckCmd(),
		NewClassHashCmd(),
		NewWaitCmd(),
		NewAccountCmd(),
	} {
		cmd.GroupID = "inspect"
		rootCmd.AddCommand(cmd)
	}

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// newSink picks the progress reporter. Structured and non-interactive output
// must stay free of spinner frames.
func newSink(v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("json") || v.GetBool("non_interactive") {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
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
