// Package accounts is the custody ledger: reward unit balances per address.
package accounts

import (
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
)

const mainPrefix = byte('a')

type RAccounts interface {
	Export(state *types.AppState)
	GetBalance(address types.Address) *big.Int
}

type Accounts struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db tree.ReadOnlyTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	accounts := &Accounts{db: immutableTree, bus: stateBus, list: map[types.Address]*Model{}, dirty: map[types.Address]struct{}{}}
	accounts.bus.SetAccounts(accounts)

	return accounts
}

func (a *Accounts) immutableTree() tree.ReadOnlyTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(tree.ReadOnlyTree)
}

func (a *Accounts) SetImmutableTree(immutableTree tree.ReadOnlyTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db tree.MTree) error {
	for _, address := range a.getOrderedDirtyAccounts() {
		account := a.getFromMap(address)

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		account.lock.Lock()
		if !account.isDirty {
			account.lock.Unlock()
			continue
		}
		account.isDirty = false

		path := getPath(address)
		switch account.balance.Sign() {
		case 0:
			db.Remove(path)
		case 1:
			db.Set(path, account.balance.Bytes())
		case -1:
			account.lock.Unlock()
			panic(fmt.Sprintf("Address %s has negative balance: %s", address.String(), account.balance))
		}
		account.lock.Unlock()
	}

	return nil
}

func (a *Accounts) GetBalance(address types.Address) *big.Int {
	account := a.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.getBalance()
}

func (a *Accounts) AddBalance(address types.Address, amount *big.Int) {
	balance := a.GetBalance(address)
	a.SetBalance(address, big.NewInt(0).Add(balance, amount))
}

func (a *Accounts) SubBalance(address types.Address, amount *big.Int) {
	balance := big.NewInt(0).Sub(a.GetBalance(address), amount)
	a.SetBalance(address, balance)
}

func (a *Accounts) SetBalance(address types.Address, amount *big.Int) {
	account := a.getOrNew(address)
	oldBalance := account.getBalance()
	a.bus.Checker().AddBalance(big.NewInt(0).Sub(amount, oldBalance))

	account.setBalance(big.NewInt(0).Set(amount))
}

// Mint credits newly issued units to address.
func (a *Accounts) Mint(address types.Address, amount *big.Int) {
	a.bus.Checker().AddSupply(amount)
	a.AddBalance(address, amount)
}

func (a *Accounts) Export(state *types.AppState) {
	db := a.immutableTree()
	if db == nil {
		return
	}

	db.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		state.Accounts = append(state.Accounts, types.Account{
			Address: types.BytesToAddress(key[1:]),
			Balance: big.NewInt(0).SetBytes(value).String(),
		})
		return false
	})
}

func (a *Accounts) get(address types.Address) *Model {
	if account := a.getFromMap(address); account != nil {
		return account
	}

	db := a.immutableTree()
	if db == nil {
		return nil
	}

	_, enc := db.Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	account := &Model{
		address:   address,
		balance:   big.NewInt(0).SetBytes(enc),
		markDirty: a.markDirty,
	}
	a.setToMap(address, account)

	return account
}

func (a *Accounts) getOrNew(address types.Address) *Model {
	account := a.get(address)
	if account == nil {
		account = &Model{
			address:   address,
			balance:   big.NewInt(0),
			markDirty: a.markDirty,
		}
		a.setToMap(address, account)
	}

	return account
}

func (a *Accounts) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) getOrderedDirtyAccounts() []types.Address {
	a.lock.RLock()
	keys := make([]types.Address, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) == 1
	})

	return keys
}

func (a *Accounts) getFromMap(address types.Address) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[address]
}

func (a *Accounts) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}
