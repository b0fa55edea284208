package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

type declareOutput struct {
	Name      string `json:"name"`
	ClassHash string `json:"classHash,omitempty"`
	TxHash    string `json:"tx,omitempty"`
	Status    string `json:"status,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewDeclareCmd creates the declare command
func NewDeclareCmd() *cobra.Command {
	var skipDeclared bool

	cmd := &cobra.Command{
		Use:   "declare <contract>...",
		Short: "Declare contract classes on the network",
		Long: `Compile each contract if needed, submit a declare transaction signed by the
configured account and wait for it to be accepted. The class hash is recorded
in the class-hash registry only once the transaction is accepted.

Every declare is submitted, even for a class already recorded. With
--skip-declared a contract whose locally computed class hash is already in the
registry is skipped instead. Several contracts are declared in parallel.`,
		Example: `  # Declare a single contract
  starkdeploy declare erc20

  # Declare several contracts at once
  starkdeploy declare erc20 proxy account`,
		Annotations: map[string]string{requiresSigner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var results []*usecase.DeclareResult
			if len(args) <= 1 {
				var name string
				if len(args) == 1 {
					name = args[0]
				}
				result, err := app.DeclareContract.Run(cmd.Context(), usecase.DeclareParams{Name: name, SkipDeclared: skipDeclared})
				if err != nil {
					return err
				}
				results = []*usecase.DeclareResult{result}
			} else {
				results = app.DeclareContracts.Run(cmd.Context(), args, skipDeclared)
			}

			if format, ok := structured(app); ok {
				out := make([]declareOutput, len(results))
				failed := 0
				for i, res := range results {
					out[i] = declareOutput{
						Name:      res.Name,
						ClassHash: hexOrEmpty(res.ClassHash),
						TxHash:    hexOrEmpty(res.TxHash),
						Skipped:   res.Skipped,
					}
					if res.Receipt != nil {
						out[i].Status = string(res.Receipt.Status)
					}
					if res.Err != nil {
						out[i].Error = res.Err.Error()
						failed++
					}
				}
				if err := render.WriteStructured(cmd.OutOrStdout(), format, out); err != nil {
					return err
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d declarations failed", failed, len(results))
				}
				return nil
			}

			return lifecycleRenderer(cmd, app).RenderDeclare(results)
		},
	}

	cmd.Flags().BoolVar(&skipDeclared, "skip-declared", false, "Skip contracts whose class hash is already recorded")

	return cmd
}
