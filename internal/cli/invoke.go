package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

type invokeOutput struct {
	Address string `json:"address"`
	TxHash  string `json:"tx"`
	Status  string `json:"status"`
}

// NewInvokeCmd creates the invoke command
func NewInvokeCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "invoke <contract> <function> [args...]",
		Short: "Send a state-changing call to a deployed contract",
		Long: `Invoke an external function on a deployed contract through the configured
account and wait for the transaction to be accepted. The target address comes
from the deployment registry unless --address is given.`,
		Example: `  # Transfer 100 tokens
  starkdeploy invoke erc20 transfer 0x5678 100 0`,
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{requiresSigner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			override, err := parseAddress(address)
			if err != nil {
				return err
			}
			callArgs, err := felt.ParseAll(args[2:])
			if err != nil {
				return err
			}

			result, err := app.InvokeContract.Run(cmd.Context(), usecase.InvokeParams{
				Name:     args[0],
				Address:  override,
				Function: args[1],
				Args:     callArgs,
			})
			if err != nil {
				return err
			}

			if format, ok := structured(app); ok {
				return render.WriteStructured(cmd.OutOrStdout(), format, invokeOutput{
					Address: result.Address.String(),
					TxHash:  result.TxHash.String(),
					Status:  string(result.Receipt.Status),
				})
			}

			return lifecycleRenderer(cmd, app).RenderInvoke(result)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Target address instead of the recorded deployment")

	return cmd
}

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "call <contract> <function> [args...]",
		Short: "Read from a deployed contract without a transaction",
		Example: `  # Read a balance
  starkdeploy call erc20 balanceOf 0x5678`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			override, err := parseAddress(address)
			if err != nil {
				return err
			}
			callArgs, err := felt.ParseAll(args[2:])
			if err != nil {
				return err
			}

			values, err := app.CallContract.Run(cmd.Context(), usecase.CallParams{
				Name:     args[0],
				Address:  override,
				Function: args[1],
				Args:     callArgs,
			})
			if err != nil {
				return err
			}

			if format, ok := structured(app); ok {
				return render.WriteStructured(cmd.OutOrStdout(), format, felt.Strings(values))
			}

			return lifecycleRenderer(cmd, app).RenderCall(values)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Target address instead of the recorded deployment")

	return cmd
}
