package app

import (
	"math/big"
	"sync"
)

type Model struct {
	UnclaimedPool []byte
	TotalReserved []byte
	TotalPaid     []byte

	markDirty func()
	lock      sync.RWMutex
}

func (model *Model) getUnclaimedPool() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return big.NewInt(0).SetBytes(model.UnclaimedPool)
}

func (model *Model) setUnclaimedPool(pool *big.Int) {
	model.lock.Lock()
	model.UnclaimedPool = pool.Bytes()
	model.lock.Unlock()

	model.markDirty()
}

func (model *Model) getTotalReserved() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return big.NewInt(0).SetBytes(model.TotalReserved)
}

func (model *Model) setTotalReserved(total *big.Int) {
	model.lock.Lock()
	model.TotalReserved = total.Bytes()
	model.lock.Unlock()

	model.markDirty()
}

func (model *Model) getTotalPaid() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return big.NewInt(0).SetBytes(model.TotalPaid)
}

func (model *Model) setTotalPaid(total *big.Int) {
	model.lock.Lock()
	model.TotalPaid = total.Bytes()
	model.lock.Unlock()

	model.markDirty()
}
