package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// Color styles for table format
var (
	nameStyle          = color.New(color.FgGreen, color.Bold)
	hashStyle          = color.New(color.FgWhite)
	faintStyle         = color.New(color.Faint)
	pendingStyle       = color.New(color.FgYellow)
	acceptedStyle      = color.New(color.FgGreen)
	rejectedStyle      = color.New(color.FgRed)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
)

// RegistryRenderer renders both registries as one table
type RegistryRenderer struct {
	out io.Writer
}

// NewRegistryRenderer creates a new registry renderer
func NewRegistryRenderer(out io.Writer) *RegistryRenderer {
	return &RegistryRenderer{out: out}
}

var _ Renderer[*usecase.RegistryView] = (*RegistryRenderer)(nil)

// Render writes one row per contract known to either registry
func (r *RegistryRenderer) Render(view *usecase.RegistryView) error {
	if len(view.Entries) == 0 {
		fmt.Fprintln(r.out, "No contracts declared or deployed")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})

	t.AppendHeader(table.Row{"CONTRACT", "CLASS HASH", "ADDRESS", "TX"})
	for _, entry := range view.Entries {
		classHash := faintStyle.Sprint("-")
		if entry.ClassHash != "" {
			classHash = hashStyle.Sprint(entry.ClassHash)
		}
		address, tx := faintStyle.Sprint("-"), faintStyle.Sprint("-")
		if entry.Deployment != nil {
			address = hashStyle.Sprint(entry.Deployment.Address)
			tx = faintStyle.Sprint(entry.Deployment.TxHash)
		}
		t.AppendRow(table.Row{nameStyle.Sprint(entry.Name), classHash, address, tx})
	}
	t.Render()

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprintf("%d declared, %d deployed", view.Declared(), view.Deployed()))
	return nil
}

// RenderChecks writes one line per recorded deployment with its on-chain state
func (r *RegistryRenderer) RenderChecks(checks []*usecase.DeploymentCheck) error {
	if len(checks) == 0 {
		fmt.Fprintln(r.out, "No deployments recorded")
		return nil
	}

	unhealthy := 0
	for _, check := range checks {
		if check.Healthy() {
			fmt.Fprintf(r.out, "%s %s %s\n", acceptedStyle.Sprint("✓"), nameStyle.Sprint(check.Name), hashStyle.Sprint(check.Address))
			continue
		}
		unhealthy++
		fmt.Fprintf(r.out, "%s %s %s %s\n", rejectedStyle.Sprint("✗"), nameStyle.Sprint(check.Name), hashStyle.Sprint(check.Address), rejectedStyle.Sprint(check.Reason))
	}

	if unhealthy > 0 {
		return fmt.Errorf("%d of %d deployments failed verification", unhealthy, len(checks))
	}
	return nil
}
