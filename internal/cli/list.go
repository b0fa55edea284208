package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List declared and deployed contracts",
		Long: `List every contract recorded in the class-hash registry or the deployment
registry, with its class hash and deployed address.`,
		Example: `  # Show the registries as a table
  starkdeploy list

  # Export them as YAML
  starkdeploy list -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}
			if app.Config.JSON {
				format = render.FormatJSON
			}

			view, err := app.ShowRegistry.Run(cmd.Context())
			if err != nil {
				return err
			}

			if format != render.FormatText {
				return render.WriteStructured(cmd.OutOrStdout(), format, view)
			}
			return render.NewRegistryRenderer(cmd.OutOrStdout()).Render(view)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json, yaml)")

	return cmd
}
