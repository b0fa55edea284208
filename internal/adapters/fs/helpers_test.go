package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

func newTestConfig(t *testing.T) *config.RuntimeConfig {
	t.Helper()
	root := t.TempDir()
	return &config.RuntimeConfig{
		ProjectRoot:    root,
		SourceDir:      filepath.Join(root, "src"),
		BuildDir:       filepath.Join(root, "build"),
		DeploymentsDir: filepath.Join(root, "deployments"),
		Concurrency:    2,
		NonInteractive: true,
	}
}

func writeRegistry(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// leftoverTemps lists temp files a save left next to the registry
func leftoverTemps(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			out = append(out, e.Name())
		}
	}
	return out
}
