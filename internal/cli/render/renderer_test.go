package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestRegistryRenderer(t *testing.T) {
	var buf bytes.Buffer
	view := &usecase.RegistryView{Entries: []usecase.RegistryEntry{
		{Name: "erc20", ClassHash: "0xabc", Deployment: &models.DeploymentRecord{Address: "0x123", TxHash: "0x456", Artifact: "build/erc20.json"}},
		{Name: "proxy", ClassHash: "0xdef"},
	}}

	require.NoError(t, NewRegistryRenderer(&buf).Render(view))
	out := buf.String()
	assert.Contains(t, out, "CONTRACT")
	assert.Contains(t, out, "erc20")
	assert.Contains(t, out, "0x123")
	assert.Contains(t, out, "0xdef")
	assert.Contains(t, out, "2 declared, 1 deployed")
}

func TestRegistryRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRegistryRenderer(&buf).Render(&usecase.RegistryView{}))
	assert.Equal(t, "No contracts declared or deployed\n", buf.String())
}

func TestRenderDeclare(t *testing.T) {
	var buf bytes.Buffer
	r := NewLifecycleRenderer(&buf, "https://explorer.test")

	err := r.RenderDeclare([]*usecase.DeclareResult{
		{Name: "erc20", ClassHash: felt.FromUint64(0xabc), TxHash: felt.FromUint64(0x1), Receipt: &models.Receipt{Status: models.TransactionStatusAccepted}},
		{Name: "proxy", ClassHash: felt.FromUint64(0xdef), Skipped: true},
		{Name: "broken", Err: errors.New("compilation failed")},
	})
	require.EqualError(t, err, "1 of 3 declarations failed")

	out := buf.String()
	assert.Contains(t, out, "Declared erc20")
	assert.Contains(t, out, "Accepted")
	assert.Contains(t, out, "https://explorer.test/tx/0x0000000000000000000000000000000000000000000000000000000000000001")
	assert.Contains(t, out, "proxy already declared")
	assert.Contains(t, out, "Broken: compilation failed")
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Not Received", FormatStatus(models.TransactionStatusNotReceived))
	assert.Equal(t, "Rejected", FormatStatus(models.TransactionStatusRejected))
}

func TestRenderAccount_ChainName(t *testing.T) {
	var buf bytes.Buffer
	chain, err := felt.FromShortString("SN_GOERLI")
	require.NoError(t, err)

	require.NoError(t, NewLifecycleRenderer(&buf, "").RenderAccount(&usecase.AccountInfo{
		Address:   felt.FromUint64(0x1234),
		PublicKey: felt.FromUint64(0x5),
		ChainID:   chain,
	}))
	assert.Contains(t, buf.String(), "SN_GOERLI (0x534e5f474f45524c49)")
}

func TestWriteStructured(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]string{"name": "erc20"}

	require.NoError(t, WriteStructured(&buf, FormatJSON, v))
	assert.JSONEq(t, `{"name":"erc20"}`, buf.String())

	buf.Reset()
	require.NoError(t, WriteStructured(&buf, FormatYAML, v))
	assert.Equal(t, "name: erc20\n", buf.String())

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
