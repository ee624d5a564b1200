// Package app keeps pool-wide counters: the unclaimed pool reserved by
// snapshots and not yet paid out, and lifetime reserved/paid totals.
package app

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

const mainPrefix = 'd'

var cdc = amino.NewCodec()

type RApp interface {
	Export(state *types.AppState)
	GetUnclaimedPool() *big.Int
	GetTotalReserved() *big.Int
	GetTotalPaid() *big.Int
}

type App struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewApp(stateBus *bus.Bus, db tree.ReadOnlyTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	app := &App{bus: stateBus, db: immutableTree}
	app.bus.SetApp(app)

	return app
}

func (a *App) immutableTree() tree.ReadOnlyTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(tree.ReadOnlyTree)
}

func (a *App) SetImmutableTree(immutableTree tree.ReadOnlyTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db tree.MTree) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.isDirty {
		return nil
	}

	a.isDirty = false

	a.model.lock.RLock()
	data, err := cdc.MarshalBinaryBare(a.model)
	a.model.lock.RUnlock()
	if err != nil {
		return errors.Wrap(err, "can't encode app model")
	}

	path := []byte{mainPrefix}
	if len(data) == 0 {
		db.Remove(path)
		return nil
	}
	db.Set(path, data)

	return nil
}

func (a *App) GetUnclaimedPool() *big.Int {
	return a.getOrNew().getUnclaimedPool()
}

// Reserve moves amount into the unclaimed pool when a snapshot is recorded.
func (a *App) Reserve(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setUnclaimedPool(big.NewInt(0).Add(model.getUnclaimedPool(), amount))
	model.setTotalReserved(big.NewInt(0).Add(model.getTotalReserved(), amount))
}

// Release takes amount out of the unclaimed pool before it is paid out.
func (a *App) Release(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}

	model := a.getOrNew()
	pool := model.getUnclaimedPool()
	if pool.Cmp(amount) < 0 {
		return errors.Errorf("unclaimed pool %s is less than released amount %s", pool, amount)
	}

	model.setUnclaimedPool(pool.Sub(pool, amount))
	model.setTotalPaid(big.NewInt(0).Add(model.getTotalPaid(), amount))

	return nil
}

// Restore returns a released amount into the pool when its payout was refused.
func (a *App) Restore(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setUnclaimedPool(big.NewInt(0).Add(model.getUnclaimedPool(), amount))
	model.setTotalPaid(big.NewInt(0).Sub(model.getTotalPaid(), amount))
}

func (a *App) GetTotalReserved() *big.Int {
	return a.getOrNew().getTotalReserved()
}

func (a *App) GetTotalPaid() *big.Int {
	return a.getOrNew().getTotalPaid()
}

// SetUnclaimedPool and SetTotals are used by genesis import only.
func (a *App) SetUnclaimedPool(amount *big.Int) {
	a.getOrNew().setUnclaimedPool(big.NewInt(0).Set(amount))
}

func (a *App) SetTotals(reserved, paid *big.Int) {
	model := a.getOrNew()
	model.setTotalReserved(big.NewInt(0).Set(reserved))
	model.setTotalPaid(big.NewInt(0).Set(paid))
}

func (a *App) Export(state *types.AppState) {
	state.UnclaimedPool = a.GetUnclaimedPool().String()
	state.TotalReserved = a.GetTotalReserved().String()
	state.TotalPaid = a.GetTotalPaid().String()
}

func (a *App) get() *Model {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.model != nil {
		return a.model
	}

	db := a.immutableTree()
	if db == nil {
		return nil
	}

	_, enc := db.Get([]byte{mainPrefix})
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model: %s", err))
	}

	a.model = model
	a.model.markDirty = a.markDirty
	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			markDirty: a.markDirty,
		}
		a.mx.Lock()
		a.model = model
		a.mx.Unlock()
	}

	return model
}

func (a *App) markDirty() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.isDirty = true
}
