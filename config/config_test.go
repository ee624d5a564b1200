package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigFile(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Roles.Owners = []string{"Mx00000000000000000000000000000000000000aa"}
	cfg.Roles.Triggers = []string{"Mx00000000000000000000000000000000000000bb", "Mx00000000000000000000000000000000000000cc"}
	cfg.Budget.ClaimBudget = 100000

	path := filepath.Join(t.TempDir(), "config.toml")
	WriteConfigFile(path, cfg)

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	loaded := DefaultConfig()
	require.NoError(t, v.Unmarshal(loaded))

	assert.Equal(t, cfg.Roles.Owners, loaded.Roles.Owners)
	assert.Equal(t, cfg.Roles.Triggers, loaded.Roles.Triggers)
	assert.Equal(t, uint64(100000), loaded.Budget.ClaimBudget)
	assert.Equal(t, cfg.Budget.IterationCost, loaded.Budget.IterationCost)
	assert.Equal(t, cfg.API.ListenAddress, loaded.API.ListenAddress)
	assert.Equal(t, cfg.Custody.PoolAddress, loaded.Custody.PoolAddress)
	assert.Equal(t, cfg.KeepLastStates, loaded.KeepLastStates)
	assert.NoError(t, loaded.ValidateBasic())
}

func TestEnsureRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	EnsureRoot(root)

	assert.FileExists(t, filepath.Join(root, defaultConfigFilePath))
	assert.DirExists(t, filepath.Join(root, defaultDataDir))
}

func TestValidateBasic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Budget.ClaimBudget = cfg.Budget.SafetyThreshold() - 1
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.ValidateBasic())
}
