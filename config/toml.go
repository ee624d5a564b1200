package config

import (
	"bytes"
	"path/filepath"
	"text/template"

	tmos "github.com/tendermint/tendermint/libs/os"
)

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// EnsureRoot creates the root, config, and data directories if they don't exist,
// and panics if it fails.
func EnsureRoot(rootDir string) {
	if err := tmos.EnsureDir(rootDir, 0700); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultConfigDir), 0700); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultDataDir), 0700); err != nil {
		panic(err.Error())
	}

	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)

	// Write default config file if missing.
	if !tmos.FileExists(configFilePath) {
		writeDefaultConfigFile(configFilePath)
	}
}

func writeDefaultConfigFile(configFilePath string) {
	WriteConfigFile(configFilePath, DefaultConfig())
}

// WriteConfigFile renders config using the template and writes it to configFilePath.
func WriteConfigFile(configFilePath string, config *Config) {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}

	tmos.MustWriteFile(configFilePath, buffer.Bytes(), 0644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

##### main base config options #####

# Path to the JSON file containing the initial state
genesis_file = "{{ js .BaseConfig.Genesis }}"

# Database backend: goleveldb | memdb
db_backend = "{{ .BaseConfig.DBBackend }}"

# Database directory
db_dir = "{{ js .BaseConfig.DBPath }}"

# Number of saved state versions to keep, 0 keeps all of them
keep_last_states = {{ .BaseConfig.KeepLastStates }}

# Cache size of the state tree
state_cache_size = {{ .BaseConfig.StateCacheSize }}

# Output level for logging, including package level options
log_level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text) or 'json'
log_format = "{{ .BaseConfig.LogFormat }}"

# Path to file for logs, "stdout" by default
log_path = "{{ .BaseConfig.LogPath }}"

##### api server configuration options #####
[api]

# Address to listen for API connections
listen_addr = "{{ .API.ListenAddress }}"

# Origins allowed by CORS
cors_allowed_origins = [{{ range $i, $origin := .API.CORSAllowedOrigins }}{{ if $i }}, {{ end }}"{{ $origin }}"{{ end }}]

##### claim execution budget #####
[budget]

# Budget of a single claim call, 0 - unlimited
claim_budget = {{ .Budget.ClaimBudget }}

# Cost of processing one snapshot
iteration_cost = {{ .Budget.IterationCost }}

# Cost reserved for the final payout
transfer_cost = {{ .Budget.TransferCost }}

##### role holders #####
[roles]

owners = [{{ range $i, $a := .Roles.Owners }}{{ if $i }}, {{ end }}"{{ $a }}"{{ end }}]
maintainers = [{{ range $i, $a := .Roles.Maintainers }}{{ if $i }}, {{ end }}"{{ $a }}"{{ end }}]
triggers = [{{ range $i, $a := .Roles.Triggers }}{{ if $i }}, {{ end }}"{{ $a }}"{{ end }}]

##### custody #####
[custody]

# Address holding the pool funds
pool_address = "{{ .Custody.PoolAddress }}"

##### instrumentation configuration options #####
[instrumentation]

# When true, Prometheus metrics are served under /metrics on
# PrometheusListenAddr.
prometheus = {{ .Instrumentation.Prometheus }}

# Address to listen for Prometheus collector(s) connections
prometheus_listen_addr = "{{ .Instrumentation.PrometheusListenAddr }}"
`
