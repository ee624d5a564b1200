// Package roles holds the capability table consulted by the distributor.
// Roles are independent: holding one grants nothing of another.
package roles

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/types"
)

type Role byte

const (
	RoleOwner Role = iota
	RoleMaintainer
	RoleTrigger
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleMaintainer:
		return "Maintainer"
	case RoleTrigger:
		return "Trigger"
	}

	return fmt.Sprintf("Role(%d)", byte(r))
}

func ParseRole(r string) (Role, error) {
	switch r {
	case "Owner", "owner":
		return RoleOwner, nil
	case "Maintainer", "maintainer":
		return RoleMaintainer, nil
	case "Trigger", "trigger":
		return RoleTrigger, nil
	}

	return 0, fmt.Errorf("unknown role %q", r)
}

// Authorizer answers whether address holds role.
type Authorizer interface {
	HasRole(role Role, address types.Address) bool
}

// Table is an in-memory Authorizer. Grants and revocations require the owner role.
type Table struct {
	roles map[Role]map[types.Address]struct{}
	lock  sync.RWMutex
}

// NewTable creates a table where owners hold RoleOwner.
func NewTable(owners ...types.Address) *Table {
	table := &Table{roles: map[Role]map[types.Address]struct{}{}}
	for _, owner := range owners {
		table.set(RoleOwner, owner)
	}

	return table
}

func (t *Table) HasRole(role Role, address types.Address) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	_, ok := t.roles[role][address]
	return ok
}

func (t *Table) Grant(caller types.Address, role Role, address types.Address) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.roles[RoleOwner][caller]; !ok {
		return code.NewUnauthorized(caller.String(), RoleOwner.String())
	}

	t.set(role, address)
	return nil
}

func (t *Table) Revoke(caller types.Address, role Role, address types.Address) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.roles[RoleOwner][caller]; !ok {
		return code.NewUnauthorized(caller.String(), RoleOwner.String())
	}

	delete(t.roles[role], address)
	return nil
}

// Holders lists addresses holding role in ascending order.
func (t *Table) Holders(role Role) []types.Address {
	t.lock.RLock()
	defer t.lock.RUnlock()

	holders := make([]types.Address, 0, len(t.roles[role]))
	for address := range t.roles[role] {
		holders = append(holders, address)
	}

	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].Compare(holders[j]) == -1
	})

	return holders
}

func (t *Table) set(role Role, address types.Address) {
	if t.roles[role] == nil {
		t.roles[role] = map[types.Address]struct{}{}
	}
	t.roles[role][address] = struct{}{}
}
