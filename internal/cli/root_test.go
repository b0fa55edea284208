package cli

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
)

func newTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "starkdeploy.toml"), []byte("[network]\nrpc_url = \"http://127.0.0.1:1/rpc\"\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "deployments"), 0755))
	t.Chdir(root)
	t.Setenv("ACCOUNT_ADDRESS", "")
	t.Setenv("PRIVATE_KEY", "")
	t.Setenv("STARKDEPLOY_ACCOUNT_ADDRESS", "")
	t.Setenv("STARKDEPLOY_PRIVATE_KEY", "")
	color.NoColor = true
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "starkdeploy version dev")
}

func TestListCmd_JSON(t *testing.T) {
	root := newTestProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "deployments", "declarations.json"), []byte(`{"erc20":"0xabc"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "deployments", "deployments.json"),
		[]byte(`{"erc20":{"address":"0x123","tx":"0x456","artifact":"build/erc20.json"}}`), 0644))

	out, err := execute(t, "list", "--json")
	require.NoError(t, err)

	var view struct {
		Entries []struct {
			Name       string `json:"name"`
			ClassHash  string `json:"classHash"`
			Deployment struct {
				Address string `json:"address"`
			} `json:"deployment"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "erc20", view.Entries[0].Name)
	assert.Equal(t, "0xabc", view.Entries[0].ClassHash)
	assert.Equal(t, "0x123", view.Entries[0].Deployment.Address)
}

func TestListCmd_Empty(t *testing.T) {
	newTestProject(t)

	out, err := execute(t, "list", "--non-interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "No contracts declared or deployed")
}

func TestSigningCommandsRequireSigner(t *testing.T) {
	for _, args := range [][]string{
		{"declare", "erc20"},
		{"deploy", "erc20"},
		{"invoke", "erc20", "transfer"},
		{"account"},
	} {
		t.Run(args[0], func(t *testing.T) {
			newTestProject(t)
			_, err := execute(t, append(args, "--non-interactive")...)
			assert.ErrorIs(t, err, domain.ErrMissingSigner)
		})
	}
}

func TestDeployCmd_InvalidArgument(t *testing.T) {
	newTestProject(t)
	t.Setenv("ACCOUNT_ADDRESS", "0x1234")
	t.Setenv("PRIVATE_KEY", "0x1")

	_, err := execute(t, "deploy", "erc20", "not-a-felt", "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 0")
}

func TestCallCmd_NotDeployed(t *testing.T) {
	newTestProject(t)

	_, err := execute(t, "call", "erc20", "balanceOf", "0x1", "--non-interactive")
	assert.ErrorIs(t, err, domain.ErrNotDeployed)
}

func TestCompileCmd_AllRejectsName(t *testing.T) {
	newTestProject(t)

	_, err := execute(t, "compile", "erc20", "--all", "--non-interactive")
	assert.EqualError(t, err, "--all cannot be combined with a contract name")
}

func TestDeclareCmd_SkipDeclaredIsOptIn(t *testing.T) {
	newTestProject(t)

	_, err := execute(t, "declare", "erc20", "--skip-declared", "--non-interactive")
	assert.ErrorIs(t, err, domain.ErrMissingSigner)

	_, err = execute(t, "declare", "erc20", "--force", "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag: --force")
}

func TestCompileCmd_AllWithoutSourceDir(t *testing.T) {
	newTestProject(t)

	_, err := execute(t, "compile", "--all", "--non-interactive")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
