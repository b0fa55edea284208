package render

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/starknet"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

var labelStyle = color.New(color.FgCyan)

// LifecycleRenderer renders the outcome of compile, declare, deploy and
// invoke operations in text form
type LifecycleRenderer struct {
	out         io.Writer
	explorerURL string
}

// NewLifecycleRenderer creates a renderer linking transactions to explorerURL
func NewLifecycleRenderer(out io.Writer, explorerURL string) *LifecycleRenderer {
	return &LifecycleRenderer{out: out, explorerURL: explorerURL}
}

// RenderCompile prints one line per compiled contract
func (r *LifecycleRenderer) RenderCompile(results []*usecase.CompileResult) error {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintln(r.out, FormatError(res.Err.Error()))
			continue
		}
		fmt.Fprintf(r.out, "%s %s → %s\n", acceptedStyle.Sprint("✓"), nameStyle.Sprint(res.Name), faintStyle.Sprint(res.ArtifactPath))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d contracts failed to compile", failed, len(results))
	}
	return nil
}

// RenderDeclare prints each declaration and fails if any of them failed
func (r *LifecycleRenderer) RenderDeclare(results []*usecase.DeclareResult) error {
	failed := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%s: %v", res.Name, res.Err)))
		case res.Skipped:
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s already declared, skipping", res.Name)))
			r.field("Class hash", res.ClassHash.String())
		default:
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Declared %s", res.Name)))
			r.field("Class hash", res.ClassHash.String())
			r.transaction(res.TxHash, res.Receipt)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d declarations failed", failed, len(results))
	}
	return nil
}

// RenderDeploy prints a deployment record
func (r *LifecycleRenderer) RenderDeploy(res *usecase.DeployResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", res.Name)))
	r.field("Address", res.Record.Address)
	r.field("Class hash", res.ClassHash.String())
	r.field("Salt", res.Salt.String())
	r.field("Artifact", filepath.ToSlash(res.Record.Artifact))
	txHash, err := felt.FromString(res.Record.TxHash)
	if err != nil {
		return err
	}
	r.transaction(txHash, res.Receipt)
	return nil
}

// RenderInvoke prints an accepted invoke
func (r *LifecycleRenderer) RenderInvoke(res *usecase.InvokeResult) error {
	fmt.Fprintln(r.out, FormatSuccess("Invoke accepted"))
	r.field("Contract", res.Address.String())
	r.transaction(res.TxHash, res.Receipt)
	return nil
}

// RenderCall prints the returned felts, one per line
func (r *LifecycleRenderer) RenderCall(values []*felt.Felt) error {
	for _, v := range values {
		fmt.Fprintln(r.out, v.String())
	}
	return nil
}

// RenderClassHash prints a computed class hash and how it compares with the registry
func (r *LifecycleRenderer) RenderClassHash(res *usecase.ClassHashResult) error {
	fmt.Fprintln(r.out, res.ClassHash.String())
	switch {
	case res.Recorded == "":
		fmt.Fprintln(r.out, faintStyle.Sprintf("%s is not in the class-hash registry", res.Name))
	case !res.Matches():
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("registry holds %s for %s; redeclare to update it", res.Recorded, res.Name)))
	}
	return nil
}

// RenderReceipt prints a finalized receipt
func (r *LifecycleRenderer) RenderReceipt(receipt *models.Receipt) error {
	r.field("Transaction", receipt.TransactionHash)
	r.field("Status", FormatStatus(receipt.Status))
	if receipt.FinalityStatus != "" {
		r.field("Finality", receipt.FinalityStatus)
	}
	if receipt.RevertReason != "" {
		r.field("Reason", receipt.RevertReason)
	}
	return nil
}

// RenderAccount prints the signer identity
func (r *LifecycleRenderer) RenderAccount(info *usecase.AccountInfo) error {
	r.field("Address", info.Address.String())
	r.field("Public key", info.PublicKey.String())
	if chain, err := shortString(info.ChainID); err == nil {
		r.field("Chain", fmt.Sprintf("%s (%s)", chain, info.ChainID))
	} else {
		r.field("Chain", info.ChainID.String())
	}
	return nil
}

func (r *LifecycleRenderer) transaction(txHash *felt.Felt, receipt *models.Receipt) {
	r.field("Transaction", txHash.String())
	if receipt != nil {
		r.field("Status", FormatStatus(receipt.Status))
	}
	if r.explorerURL != "" {
		r.field("Explorer", faintStyle.Sprint(starknet.TransactionURL(r.explorerURL, txHash)))
	}
}

func (r *LifecycleRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-12s", label+":"), value)
}

// shortString decodes an ASCII short string such as SN_MAIN
func shortString(f *felt.Felt) (string, error) {
	b := f.Bytes()
	start := 0
	for start < len(b) && b[start] == 0 {
		start++
	}
	for _, c := range b[start:] {
		if c < 0x20 || c > 0x7e {
			return "", fmt.Errorf("not a short string")
		}
	}
	if start == len(b) {
		return "", fmt.Errorf("empty short string")
	}
	return string(b[start:]), nil
}
