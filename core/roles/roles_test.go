package roles

import (
	"testing"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner      = types.HexToAddress("Mx0000000000000000000000000000000000000001")
	maintainer = types.HexToAddress("Mx0000000000000000000000000000000000000002")
	stranger   = types.HexToAddress("Mx0000000000000000000000000000000000000003")
)

func TestTableGrantRevoke(t *testing.T) {
	t.Parallel()

	table := NewTable(owner)
	assert.True(t, table.HasRole(RoleOwner, owner))
	assert.False(t, table.HasRole(RoleMaintainer, owner), "roles are independent")

	require.NoError(t, table.Grant(owner, RoleMaintainer, maintainer))
	assert.True(t, table.HasRole(RoleMaintainer, maintainer))
	assert.False(t, table.HasRole(RoleTrigger, maintainer))

	err := table.Grant(maintainer, RoleTrigger, stranger)
	require.Error(t, err)
	assert.True(t, code.Is(err, code.Unauthorized))
	assert.False(t, table.HasRole(RoleTrigger, stranger))

	require.NoError(t, table.Revoke(owner, RoleMaintainer, maintainer))
	assert.False(t, table.HasRole(RoleMaintainer, maintainer))

	assert.Error(t, table.Revoke(stranger, RoleOwner, owner))
	assert.True(t, table.HasRole(RoleOwner, owner))
}

func TestTableHolders(t *testing.T) {
	t.Parallel()

	table := NewTable(stranger, owner)
	holders := table.Holders(RoleOwner)
	require.Len(t, holders, 2)
	assert.Equal(t, owner, holders[0])
	assert.Equal(t, stranger, holders[1])
	assert.Empty(t, table.Holders(RoleTrigger))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleOwner, RoleMaintainer, RoleTrigger} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
}
