package config

import (
	"fmt"
	"path/filepath"

	"github.com/MinterTeam/influence-pool/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		API:             DefaultAPIConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
		Budget:          DefaultBudgetConfig(),
		Roles:           &RolesConfig{},
		Custody:         DefaultCustodyConfig(),
	}
}

// GetConfig returns the defaults rooted at the influence home, creating the
// home layout and a default config file when missing.
func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.SetRoot(utils.GetInfluenceHome())
	EnsureRoot(utils.GetInfluenceHome())

	return cfg
}

// Config defines the top level configuration of the pool node
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	API             *APIConfig             `mapstructure:"api"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
	Budget          *BudgetConfig          `mapstructure:"budget"`
	Roles           *RolesConfig           `mapstructure:"roles"`
	Custody         *CustodyConfig         `mapstructure:"custody"`
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation of the config values.
func (cfg *Config) ValidateBasic() error {
	if cfg.LogFormat != LogFormatPlain && cfg.LogFormat != LogFormatJSON {
		return fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.KeepLastStates < 0 {
		return fmt.Errorf("keep_last_states can't be negative")
	}

	if cfg.Budget.IterationCost == 0 {
		return fmt.Errorf("budget.iteration_cost must be positive")
	}

	if cfg.Budget.ClaimBudget != 0 && cfg.Budget.ClaimBudget < cfg.Budget.IterationCost+cfg.Budget.TransferCost {
		return fmt.Errorf("budget.claim_budget %d can't cover a single iteration", cfg.Budget.ClaimBudget)
	}

	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration of the pool node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file containing the initial state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	StateCacheSize int `mapstructure:"state_cache_size"`
}

// DefaultBaseConfig returns a default base configuration of the pool node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:        defaultGenesisJSONPath,
		LogLevel:       DefaultPackageLogLevels(),
		LogFormat:      LogFormatPlain,
		LogPath:        "stdout",
		DBBackend:      "goleveldb",
		DBPath:         defaultDataDir,
		KeepLastStates: 120,
		StateCacheSize: 1000000,
	}
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all packages
// log at "error", while the `distributor`, `state` and `main` packages log at "info"
func DefaultPackageLogLevels() string {
	return fmt.Sprintf("distributor:info,main:info,state:info,*:%s", DefaultLogLevel())
}

//-----------------------------------------------------------------------------
// APIConfig

type APIConfig struct {
	// Address to listen for API connections
	ListenAddress string `mapstructure:"listen_addr"`

	// Origins allowed by CORS, "*" allows any
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		ListenAddress:      "tcp://0.0.0.0:8841",
		CORSAllowedOrigins: []string{"*"},
	}
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on
	// PrometheusListenAddr.
	Prometheus bool `mapstructure:"prometheus"`

	// Address to listen for Prometheus collector(s) connections.
	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr"`
}

func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
	}
}

//-----------------------------------------------------------------------------
// BudgetConfig

// BudgetConfig sets the execution budget units of a claim.
type BudgetConfig struct {
	// Budget of a single claim call, 0 - unlimited
	ClaimBudget uint64 `mapstructure:"claim_budget"`

	// Cost of processing one snapshot
	IterationCost uint64 `mapstructure:"iteration_cost"`

	// Cost reserved for the final payout
	TransferCost uint64 `mapstructure:"transfer_cost"`
}

func DefaultBudgetConfig() *BudgetConfig {
	return &BudgetConfig{
		ClaimBudget:   0,
		IterationCost: 5000,
		TransferCost:  21000,
	}
}

// SafetyThreshold is the remaining budget below which a claim stops.
func (cfg *BudgetConfig) SafetyThreshold() uint64 {
	return cfg.IterationCost + cfg.TransferCost
}

//-----------------------------------------------------------------------------
// RolesConfig

type RolesConfig struct {
	Owners      []string `mapstructure:"owners"`
	Maintainers []string `mapstructure:"maintainers"`
	Triggers    []string `mapstructure:"triggers"`
}

//-----------------------------------------------------------------------------
// CustodyConfig

type CustodyConfig struct {
	// Address holding the pool funds
	PoolAddress string `mapstructure:"pool_address"`
}

func DefaultCustodyConfig() *CustodyConfig {
	return &CustodyConfig{
		PoolAddress: "Mx0000000000000000000000000000000000000001",
	}
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
