package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

type deployOutput struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	TxHash    string `json:"tx"`
	ClassHash string `json:"classHash"`
	Salt      string `json:"salt"`
	Artifact  string `json:"artifact"`
	Status    string `json:"status"`
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <contract> [constructor-args...]",
		Short: "Deploy a declared contract",
		Long: `Deploy a new instance of a declared class through the universal deployer,
using a random salt. Constructor arguments are felts, given as 0x-prefixed hex
or decimal. The deployment is recorded once the transaction is accepted,
replacing any earlier record for the same contract.`,
		Example: `  # Deploy an ERC20 with name, symbol, decimals, supply and recipient
  starkdeploy deploy erc20 0x4d79546f6b656e 0x4d544b 18 1000 0 0x1234`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{requiresSigner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctorArgs, err := felt.ParseAll(args[1:])
			if err != nil {
				return err
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployParams{
				Name: args[0],
				Args: ctorArgs,
			})
			if err != nil {
				return err
			}

			if format, ok := structured(app); ok {
				return render.WriteStructured(cmd.OutOrStdout(), format, deployOutput{
					Name:      result.Name,
					Address:   result.Record.Address,
					TxHash:    result.Record.TxHash,
					ClassHash: result.ClassHash.String(),
					Salt:      result.Salt.String(),
					Artifact:  result.Record.Artifact,
					Status:    string(result.Receipt.Status),
				})
			}

			return lifecycleRenderer(cmd, app).RenderDeploy(result)
		},
	}

	return cmd
}
