package cmd

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/config"
	"github.com/MinterTeam/influence-pool/core/budget"
	"github.com/MinterTeam/influence-pool/core/roles"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/genesis"
	"github.com/MinterTeam/influence-pool/helpers"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner      = "Mx00000000000000000000000000000000000000aa"
	maintainer = "Mx00000000000000000000000000000000000000bb"
	trigger    = "Mx00000000000000000000000000000000000000cc"
	member     = "Mx00000000000000000000000000000000000000dd"
)

func setupConfig(t *testing.T) {
	root := t.TempDir()
	config.EnsureRoot(root)

	cfg = config.DefaultConfig().SetRoot(root)
	cfg.DBBackend = "memdb"
	cfg.Roles.Owners = []string{owner}
	cfg.Roles.Maintainers = []string{maintainer}
	cfg.Roles.Triggers = []string{trigger}
}

func TestRolesFromConfig(t *testing.T) {
	setupConfig(t)

	table, err := rolesFromConfig()
	require.NoError(t, err)

	assert.True(t, table.HasRole(roles.RoleOwner, types.HexToAddress(owner)))
	assert.True(t, table.HasRole(roles.RoleMaintainer, types.HexToAddress(maintainer)))
	assert.True(t, table.HasRole(roles.RoleTrigger, types.HexToAddress(trigger)))
	assert.False(t, table.HasRole(roles.RoleTrigger, types.HexToAddress(maintainer)))

	cfg.Roles.Owners = nil
	_, err = rolesFromConfig()
	assert.Error(t, err)

	cfg.Roles.Owners = []string{"Mx01"}
	_, err = rolesFromConfig()
	assert.Error(t, err)
}

func TestOpenPoolRequiresGenesis(t *testing.T) {
	setupConfig(t)

	_, err := openPool(log.NewNopLogger(), nil)
	assert.Error(t, err)
}

func TestOpenPoolClaim(t *testing.T) {
	setupConfig(t)

	doc, err := genesis.GetTestnetGenesis(types.HexToAddress(cfg.Custody.PoolAddress))
	require.NoError(t, err)
	require.NoError(t, doc.SaveAs(cfg.GenesisFile()))

	p, err := openPool(log.NewNopLogger(), nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, int64(1), p.distributor.Height())
	funds := helpers.UnitToPip(big.NewInt(1000000))
	assert.Equal(t, funds.String(), p.vault.Balance().String())

	memberAddress := types.HexToAddress(member)
	require.NoError(t, p.distributor.AddInfluenceBatch(types.HexToAddress(maintainer), []types.Address{memberAddress}, []*big.Int{big.NewInt(10)}))
	_, err = p.distributor.RecordSnapshot(types.HexToAddress(trigger), 1, big.NewInt(500))
	require.NoError(t, err)
	require.NoError(t, p.commit())

	result, err := p.distributor.GetReward(memberAddress, budget.Unlimited())
	require.NoError(t, err)
	assert.Equal(t, "500", result.Amount.String())
	require.NoError(t, p.commit())

	assert.Equal(t, int64(3), p.distributor.Height())
	assert.Equal(t, "500", p.state.Accounts.GetBalance(memberAddress).String())
	assert.Equal(t, new(big.Int).Sub(funds, big.NewInt(500)).String(), p.vault.Balance().String())
}
