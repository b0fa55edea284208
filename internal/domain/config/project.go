package config

// ProjectFile represents starkdeploy.toml. Every field is optional; values
// set here sit below environment variables and flags.
type ProjectFile struct {
	Paths    PathsSection    `toml:"paths"`
	Compiler CompilerSection `toml:"compiler"`
	Network  NetworkSection  `toml:"network"`
	Account  AccountSection  `toml:"account"`
	Tx       TxSection       `toml:"tx"`
}

type PathsSection struct {
	Src         string `toml:"src,omitempty"`
	Build       string `toml:"build,omitempty"`
	Deployments string `toml:"deployments,omitempty"`
}

type CompilerSection struct {
	Command    string   `toml:"command,omitempty"`
	CairoPaths []string `toml:"cairo_path,omitempty"`
}

type NetworkSection struct {
	RPCURL       string `toml:"rpc_url,omitempty"`
	ExplorerURL  string `toml:"explorer_url,omitempty"`
	CairoVersion *int   `toml:"cairo_version,omitempty"`
}

type AccountSection struct {
	Address    string `toml:"address,omitempty"`
	PrivateKey string `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}

type TxSection struct {
	MaxFee          string `toml:"max_fee,omitempty"`
	PollInterval    string `toml:"poll_interval,omitempty"`
	FinalityTimeout string `toml:"finality_timeout,omitempty"`
	RetryAttempts   *int   `toml:"retry_attempts,omitempty"`
	Concurrency     *int   `toml:"concurrency,omitempty"`
}
