package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

type compileOutput struct {
	Name     string `json:"name"`
	Source   string `json:"source,omitempty"`
	Artifact string `json:"artifact,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "compile [contract]",
		Short: "Compile contracts to canonical artifacts",
		Long: `Compile a contract from the source directory with the Cairo compiler and
write its normalized artifact to the build directory. Contracts whose name
contains "account" are compiled as account contracts.

With --all every source is compiled; failures are reported and do not stop
the remaining contracts. A name shared by several sources is reported as a
failure.`,
		Example: `  # Compile one contract
  starkdeploy compile erc20

  # Compile everything under src/
  starkdeploy compile --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var results []*usecase.CompileResult
			if all {
				if len(args) > 0 {
					return fmt.Errorf("--all cannot be combined with a contract name")
				}
				results, err = app.CompileContracts.CompileAll(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				var name string
				if len(args) > 0 {
					name = args[0]
				}
				result, err := app.CompileContracts.Compile(cmd.Context(), name)
				if err != nil {
					return err
				}
				results = []*usecase.CompileResult{result}
			}

			if format, ok := structured(app); ok {
				out := make([]compileOutput, len(results))
				for i, res := range results {
					out[i] = compileOutput{Name: res.Name, Source: res.Source, Artifact: res.ArtifactPath}
					if res.Err != nil {
						out[i].Error = res.Err.Error()
					}
				}
				if err := render.WriteStructured(cmd.OutOrStdout(), format, out); err != nil {
					return err
				}
				return compileFailures(results)
			}

			return lifecycleRenderer(cmd, app).RenderCompile(results)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Compile every contract in the source directory")

	return cmd
}

func compileFailures(results []*usecase.CompileResult) error {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d contracts failed to compile", failed, len(results))
	}
	return nil
}
