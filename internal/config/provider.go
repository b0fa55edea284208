package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

const (
	// ProjectFileName is the optional project configuration file
	ProjectFileName = "starkdeploy.toml"

	DefaultRPCURL      = "http://127.0.0.1:5050/rpc"
	DefaultExplorerURL = "https://starknet-madara.netlify.app/#/explorer/query"
	DefaultCompiler    = "starknet-compile-deprecated"
	DefaultMaxFee      = "100000000000000000" // 1e17
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	maxFee, err := felt.FromString(v.GetString("max_fee"))
	if err != nil {
		return nil, fmt.Errorf("invalid max_fee: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		SourceDir:      resolvePath(projectRoot, v.GetString("src_dir")),
		BuildDir:       resolvePath(projectRoot, v.GetString("build_dir")),
		DeploymentsDir: resolvePath(projectRoot, v.GetString("deployments_dir")),
		Compiler: config.CompilerConfig{
			Command:    v.GetString("compiler"),
			CairoPaths: v.GetStringSlice("cairo_path"),
		},
		Network: config.NetworkConfig{
			RPCURL:       v.GetString("rpc_url"),
			ExplorerURL:  strings.TrimRight(v.GetString("explorer_url"), "/"),
			CairoVersion: v.GetInt("cairo_version"),
		},
		Account: config.AccountConfig{
			Address:    v.GetString("account_address"),
			PrivateKey: v.GetString("private_key"),
		},
		MaxFee:          maxFee,
		PollInterval:    v.GetDuration("poll_interval"),
		FinalityTimeout: v.GetDuration("finality_timeout"),
		RetryAttempts:   v.GetUint64("retry_attempts"),
		Concurrency:     v.GetInt("concurrency"),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		JSON:            v.GetBool("json"),
		Timeout:         v.GetDuration("timeout"),
		ConfigSource:    v.GetString("config_source"),
	}

	if cfg.Network.CairoVersion != 0 && cfg.Network.CairoVersion != 1 {
		return nil, fmt.Errorf("invalid cairo_version %d: must be 0 or 1", cfg.Network.CairoVersion)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("invalid poll_interval %s", cfg.PollInterval)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory looking for
// starkdeploy.toml or a src directory. Falls back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance. Precedence from low to
// high: defaults, starkdeploy.toml, environment (including .env), flags.
func SetupViper(projectRoot string, cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	loadEnvFiles(projectRoot)

	v.SetEnvPrefix("STARKDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// The node and signer variables are also read unprefixed
	for key, env := range map[string]string{
		"rpc_url":         "RPC_URL",
		"account_address": "ACCOUNT_ADDRESS",
		"private_key":     "PRIVATE_KEY",
	} {
		if err := v.BindEnv(key, "STARKDEPLOY_"+env, env); err != nil {
			return nil, err
		}
	}

	v.SetDefault("project_root", projectRoot)
	v.SetDefault("src_dir", "src")
	v.SetDefault("build_dir", "build")
	v.SetDefault("deployments_dir", "deployments")
	v.SetDefault("compiler", DefaultCompiler)
	v.SetDefault("cairo_path", []string{})
	v.SetDefault("rpc_url", DefaultRPCURL)
	v.SetDefault("explorer_url", DefaultExplorerURL)
	v.SetDefault("cairo_version", 0)
	v.SetDefault("max_fee", DefaultMaxFee)
	v.SetDefault("poll_interval", "3s")
	v.SetDefault("finality_timeout", "10m")
	v.SetDefault("retry_attempts", 5)
	v.SetDefault("concurrency", 4)
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("config_source", "defaults")

	project, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}
	if project != nil {
		if err := v.MergeConfigMap(projectFileSettings(project)); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", ProjectFileName, err)
		}
		v.Set("config_source", ProjectFileName)
	}

	if cmd != nil {
		bindFlags(v, cmd)
	}

	return v, nil
}

// bindFlags binds every changed flag to the viper key of the same name
// (dashes become underscores)
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
