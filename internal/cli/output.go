package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkdeploy/internal/app"
	"github.com/trebuchet-org/starkdeploy/internal/cli/render"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// structured returns the structured format requested for cmd, if any
func structured(app *app.App) (render.Format, bool) {
	if app.Config.JSON {
		return render.FormatJSON, true
	}
	return render.FormatText, false
}

func lifecycleRenderer(cmd *cobra.Command, app *app.App) *render.LifecycleRenderer {
	return render.NewLifecycleRenderer(cmd.OutOrStdout(), app.Config.Network.ExplorerURL)
}

// parseAddress parses an optional --address override
func parseAddress(s string) (*felt.Felt, error) {
	if s == "" {
		return nil, nil
	}
	return felt.FromString(s)
}

// hexOrEmpty formats f, or "" when nil
func hexOrEmpty(f *felt.Felt) string {
	if f == nil {
		return ""
	}
	return f.String()
}
