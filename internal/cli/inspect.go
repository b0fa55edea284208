package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// NewClassHashCmd creates the class-hash command
func NewClassHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class-hash [contract]",
		Short: "Compute a contract's class hash offline",
		Long: `Compute the class hash of a contract's artifact, compiling it first if
needed, and compare it with the class-hash registry. No node is contacted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}
			result, err := app.ComputeClassHash.Run(cmd.Context(), name)
			if err != nil {
				return err
			}

			if format, ok := structured(app); ok {
				return render.WriteStructured(cmd.OutOrStdout(), format, map[string]any{
					"name":      result.Name,
					"classHash": result.ClassHash.String(),
					"recorded":  result.Recorded,
					"matches":   result.Matches(),
				})
			}
			return lifecycleRenderer(cmd, app).RenderClassHash(result)
		},
	}

	return cmd
}

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify recorded deployments against the node",
		Long: `Query the class deployed at every address in the deployment registry and
report contracts that are missing or run a class other than the declared one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			checks, err := app.CheckDeployments.Run(cmd.Context())
			if err != nil {
				return err
			}

			if format, ok := structured(app); ok {
				return render.WriteStructured(cmd.OutOrStdout(), format, checks)
			}
			return render.NewRegistryRenderer(cmd.OutOrStdout()).RenderChecks(checks)
		},
	}

	return cmd
}

// NewWaitCmd creates the wait command
func NewWaitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait <tx-hash>",
		Short: "Wait for a transaction to be accepted or rejected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			txHash, err := felt.FromString(args[0])
			if err != nil {
				return err
			}

			receipt, err := app.WaitTransaction.Run(cmd.Context(), txHash)
			if receipt == nil {
				return err
			}
			// A rejected receipt is still printed before the error
			if format, ok := structured(app); ok {
				if werr := render.WriteStructured(cmd.OutOrStdout(), format, map[string]string{
					"tx":              receipt.TransactionHash,
					"status":          string(receipt.Status),
					"finalityStatus":  receipt.FinalityStatus,
					"executionStatus": receipt.ExecutionStatus,
					"revertReason":    receipt.RevertReason,
				}); werr != nil {
					return werr
				}
			} else if rerr := lifecycleRenderer(cmd, app).RenderReceipt(receipt); rerr != nil {
				return rerr
			}
			return err
		},
	}

	return cmd
}

// NewAccountCmd creates the account command
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "account",
		Short:       "Show the signer account and the node's chain",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{requiresSigner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			info, err := app.ShowAccount.Run(cmd.Context())
			if errors.Is(err, domain.ErrLedgerUnavailable) {
				return fmt.Errorf("%w (is the node running at %s?)", err, app.Config.Network.RPCURL)
			}
			if err != nil {
				return err
			}

			if format, ok := structured(app); ok {
				return render.WriteStructured(cmd.OutOrStdout(), format, map[string]string{
					"address":   info.Address.String(),
					"publicKey": info.PublicKey.String(),
					"chainId":   info.ChainID.String(),
				})
			}
			return lifecycleRenderer(cmd, app).RenderAccount(info)
		},
	}

	return cmd
}
