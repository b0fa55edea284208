package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

// loadEnvFiles loads .env and .env.local from the project root when present.
// Variables already set in the process environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// loadProjectFile loads and parses starkdeploy.toml if it exists.
// Returns (nil, nil) when the file does not exist.
func loadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var pf config.ProjectFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	pf.Network.RPCURL = os.ExpandEnv(pf.Network.RPCURL)
	pf.Network.ExplorerURL = os.ExpandEnv(pf.Network.ExplorerURL)
	pf.Account.Address = os.ExpandEnv(pf.Account.Address)
	pf.Account.PrivateKey = os.ExpandEnv(pf.Account.PrivateKey)

	return &pf, nil
}

// projectFileSettings flattens the project file into viper keys, skipping
// unset values so they do not mask defaults
func projectFileSettings(pf *config.ProjectFile) map[string]any {
	settings := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			settings[key] = value
		}
	}

	set("src_dir", pf.Paths.Src)
	set("build_dir", pf.Paths.Build)
	set("deployments_dir", pf.Paths.Deployments)
	set("compiler", pf.Compiler.Command)
	if len(pf.Compiler.CairoPaths) > 0 {
		settings["cairo_path"] = pf.Compiler.CairoPaths
	}
	set("rpc_url", pf.Network.RPCURL)
	set("explorer_url", pf.Network.ExplorerURL)
	if pf.Network.CairoVersion != nil {
		settings["cairo_version"] = *pf.Network.CairoVersion
	}
	set("account_address", pf.Account.Address)
	set("private_key", pf.Account.PrivateKey)
	set("max_fee", pf.Tx.MaxFee)
	set("poll_interval", pf.Tx.PollInterval)
	set("finality_timeout", pf.Tx.FinalityTimeout)
	if pf.Tx.RetryAttempts != nil {
		settings["retry_attempts"] = *pf.Tx.RetryAttempts
	}
	if pf.Tx.Concurrency != nil {
		settings["concurrency"] = *pf.Tx.Concurrency
	}

	return settings
}
