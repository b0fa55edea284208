package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
)

func clearSignerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RPC_URL", "ACCOUNT_ADDRESS", "PRIVATE_KEY",
		"STARKDEPLOY_RPC_URL", "STARKDEPLOY_ACCOUNT_ADDRESS", "STARKDEPLOY_PRIVATE_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestProviderDefaults(t *testing.T) {
	clearSignerEnv(t)
	root := t.TempDir()

	v, err := SetupViper(root, nil)
	require.NoError(t, err)

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "src"), cfg.SourceDir)
	assert.Equal(t, filepath.Join(root, "build"), cfg.BuildDir)
	assert.Equal(t, filepath.Join(root, "deployments"), cfg.DeploymentsDir)
	assert.Equal(t, DefaultCompiler, cfg.Compiler.Command)
	assert.Equal(t, DefaultRPCURL, cfg.Network.RPCURL)
	assert.Equal(t, 0, cfg.Network.CairoVersion)
	assert.Equal(t, "0x16345785d8a0000", cfg.MaxFee.String())
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.FinalityTimeout)
	assert.Equal(t, uint64(5), cfg.RetryAttempts)
	assert.Equal(t, "defaults", cfg.ConfigSource)

	err = cfg.ValidateSigner()
	assert.ErrorIs(t, err, domain.ErrMissingSigner)
}

func TestProviderProjectFileAndEnv(t *testing.T) {
	clearSignerEnv(t)
	root := t.TempDir()

	projectFile := `
[paths]
src = "contracts"

[network]
rpc_url = "http://node:9545/rpc"
cairo_version = 1

[account]
address = "${TEST_ACCOUNT}"

[tx]
poll_interval = "500ms"
concurrency = 2
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(projectFile), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("PRIVATE_KEY=0x1\n"), 0644))
	t.Setenv("TEST_ACCOUNT", "0xabc")
	t.Setenv("RPC_URL", "http://override:5050/rpc")

	v, err := SetupViper(root, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Unsetenv("PRIVATE_KEY") })

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "contracts"), cfg.SourceDir)
	assert.Equal(t, "http://override:5050/rpc", cfg.Network.RPCURL, "environment wins over the project file")
	assert.Equal(t, 1, cfg.Network.CairoVersion)
	assert.Equal(t, "0xabc", cfg.Account.Address)
	assert.Equal(t, "0x1", cfg.Account.PrivateKey)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, ProjectFileName, cfg.ConfigSource)
	assert.NoError(t, cfg.ValidateSigner())
}

func TestProviderFlagsWin(t *testing.T) {
	clearSignerEnv(t)
	root := t.TempDir()
	t.Setenv("RPC_URL", "http://env:5050/rpc")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("rpc-url", "", "")
	cmd.Flags().Bool("debug", false, "")
	require.NoError(t, cmd.Flags().Set("rpc-url", "http://flag:5050/rpc"))

	v, err := SetupViper(root, cmd)
	require.NoError(t, err)

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:5050/rpc", cfg.Network.RPCURL)
	assert.False(t, cfg.Debug)
}

func TestProviderRejectsInvalidValues(t *testing.T) {
	clearSignerEnv(t)

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "cairo version", env: map[string]string{"STARKDEPLOY_CAIRO_VERSION": "2"}},
		{name: "max fee", env: map[string]string{"STARKDEPLOY_MAX_FEE": "lots"}},
		{name: "poll interval", env: map[string]string{"STARKDEPLOY_POLL_INTERVAL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			v, err := SetupViper(t.TempDir(), nil)
			require.NoError(t, err)

			_, err = Provider(v)
			assert.Error(t, err)
		})
	}
}
