package accounts

import (
	"math/big"
	"sync"

	"github.com/MinterTeam/influence-pool/core/types"
)

type Model struct {
	address types.Address
	balance *big.Int

	isDirty bool

	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (model *Model) getBalance() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return big.NewInt(0).Set(model.balance)
}

func (model *Model) setBalance(amount *big.Int) {
	model.lock.Lock()
	model.balance = amount
	model.isDirty = true
	model.lock.Unlock()

	model.markDirty(model.address)
}
