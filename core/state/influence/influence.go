// Package influence keeps the influence ledger: the current score of every
// account, the running total, and the history rows that record an account's
// score as of a snapshot index.
//
// A history row is written only when the account's score is changed through
// AddScore, under the index the next snapshot will receive. A snapshot taken
// without any update of an account since the previous snapshot has no row for
// that account, and the row reads as zero. Rows are not carried forward.
package influence

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
)

const (
	mainPrefix    = byte('i')
	historyPrefix = byte('h')
	totalPrefix   = byte('t')
)

type RInfluence interface {
	Export(state *types.AppState)
	GetScore(address types.Address) *big.Int
	GetTotal() *big.Int
	GetHistory(address types.Address, index uint64) *big.Int
}

type Influence struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	total      *big.Int
	totalDirty bool

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewInfluence(stateBus *bus.Bus, db tree.ReadOnlyTree) *Influence {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Influence{bus: stateBus, db: immutableTree, list: map[types.Address]*Model{}, dirty: map[types.Address]struct{}{}}
}

func (i *Influence) immutableTree() tree.ReadOnlyTree {
	db := i.db.Load()
	if db == nil {
		return nil
	}
	return db.(tree.ReadOnlyTree)
}

func (i *Influence) SetImmutableTree(immutableTree tree.ReadOnlyTree) {
	i.db.Store(immutableTree)
}

func (i *Influence) Commit(db tree.MTree) error {
	i.lock.Lock()
	if i.totalDirty {
		i.totalDirty = false
		if i.total.Sign() == 0 {
			db.Remove([]byte{totalPrefix})
		} else {
			db.Set([]byte{totalPrefix}, i.total.Bytes())
		}
	}
	i.lock.Unlock()

	for _, address := range i.getOrderedDirty() {
		model := i.getFromMap(address)

		i.lock.Lock()
		delete(i.dirty, address)
		i.lock.Unlock()

		model.lock.Lock()
		if model.isDirty {
			model.isDirty = false
			path := scorePath(address)
			switch model.score.Sign() {
			case 0:
				db.Remove(path)
			case 1:
				db.Set(path, model.score.Bytes())
			default:
				model.lock.Unlock()
				return fmt.Errorf("address %s has negative influence: %s", address.String(), model.score)
			}
		}
		model.lock.Unlock()

		for _, index := range model.getOrderedDirtyHistory() {
			score, _ := model.getHistory(index)
			path := historyPath(address, index)
			if score.Sign() == 0 {
				db.Remove(path)
			} else {
				db.Set(path, score.Bytes())
			}
		}

		model.lock.Lock()
		model.dirtyHistory = map[uint64]struct{}{}
		model.lock.Unlock()
	}

	return nil
}

// GetScore returns the current influence of address.
func (i *Influence) GetScore(address types.Address) *big.Int {
	model := i.get(address)
	if model == nil {
		return big.NewInt(0)
	}

	return model.getScore()
}

// GetTotal returns the sum of all current scores.
func (i *Influence) GetTotal() *big.Int {
	i.lock.Lock()
	defer i.lock.Unlock()

	return big.NewInt(0).Set(i.loadTotal())
}

func (i *Influence) loadTotal() *big.Int {
	if i.total != nil {
		return i.total
	}

	i.total = big.NewInt(0)
	if db := i.immutableTree(); db != nil {
		if _, enc := db.Get([]byte{totalPrefix}); len(enc) != 0 {
			i.total.SetBytes(enc)
		}
	}

	return i.total
}

func (i *Influence) addTotal(delta *big.Int) {
	i.lock.Lock()
	total := i.loadTotal()
	i.total = big.NewInt(0).Add(total, delta)
	i.totalDirty = true
	i.lock.Unlock()

	i.bus.Checker().AddTotalInfluence(delta)
}

// AddScore increases the score of address and the total by delta and records
// the new score under the index of the next snapshot. Bounds are checked by
// the caller.
func (i *Influence) AddScore(address types.Address, delta *big.Int) *big.Int {
	model := i.getOrNew(address)
	score := big.NewInt(0).Add(model.getScore(), delta)

	model.setScore(score)
	i.addTotal(delta)
	i.bus.Checker().AddScore(delta)

	model.setHistory(i.bus.Snapshots().Count(), big.NewInt(0).Set(score))

	return big.NewInt(0).Set(score)
}

// Remove zeroes the score of address and subtracts it from the total. Rows of
// already recorded snapshots stay as they are; a pending row for the next
// snapshot is zeroed so that the removed account takes no part in it.
func (i *Influence) Remove(address types.Address) *big.Int {
	model := i.get(address)
	if model == nil {
		return big.NewInt(0)
	}

	score := model.getScore()
	if score.Sign() == 0 {
		return score
	}

	delta := big.NewInt(0).Neg(score)
	model.setScore(big.NewInt(0))
	i.addTotal(delta)
	i.bus.Checker().AddScore(delta)

	next := i.bus.Snapshots().Count()
	if pending := i.GetHistory(address, next); pending.Sign() != 0 {
		model.setHistory(next, big.NewInt(0))
	}

	return score
}

// GetHistory returns the score of address recorded under index, zero when no
// row was written. Rows read from the tree are not kept in memory.
func (i *Influence) GetHistory(address types.Address, index uint64) *big.Int {
	if model := i.getFromMap(address); model != nil {
		if score, ok := model.getHistory(index); ok {
			return big.NewInt(0).Set(score)
		}
	}

	score := big.NewInt(0)
	if db := i.immutableTree(); db != nil {
		if _, enc := db.Get(historyPath(address, index)); len(enc) != 0 {
			score.SetBytes(enc)
		}
	}

	return score
}

// SetScore, SetTotal and SetHistory are used by genesis import only.
func (i *Influence) SetScore(address types.Address, score *big.Int) {
	i.getOrNew(address).setScore(big.NewInt(0).Set(score))
	i.bus.Checker().AddScore(score)
}

func (i *Influence) SetTotal(total *big.Int) {
	i.lock.Lock()
	i.total = big.NewInt(0).Set(total)
	i.totalDirty = true
	i.lock.Unlock()

	i.bus.Checker().AddTotalInfluence(total)
}

func (i *Influence) SetHistory(address types.Address, index uint64, score *big.Int) {
	i.getOrNew(address).setHistory(index, big.NewInt(0).Set(score))
}

func (i *Influence) Export(state *types.AppState) {
	db := i.immutableTree()
	if db == nil {
		return
	}

	db.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		state.Influence = append(state.Influence, types.Influence{
			Address: types.BytesToAddress(key[1:]),
			Score:   big.NewInt(0).SetBytes(value).String(),
		})
		return false
	})

	db.IterateRange([]byte{historyPrefix}, []byte{historyPrefix + 1}, true, func(key []byte, value []byte) bool {
		state.History = append(state.History, types.HistoryEntry{
			Address: types.BytesToAddress(key[1 : 1+types.AddressLength]),
			Index:   binary.BigEndian.Uint64(key[1+types.AddressLength:]),
			Score:   big.NewInt(0).SetBytes(value).String(),
		})
		return false
	})

	state.TotalInfluence = i.GetTotal().String()
}

func (i *Influence) get(address types.Address) *Model {
	if model := i.getFromMap(address); model != nil {
		return model
	}

	db := i.immutableTree()
	if db == nil {
		return nil
	}

	_, enc := db.Get(scorePath(address))
	if len(enc) == 0 {
		return nil
	}

	model := newModel(address, big.NewInt(0).SetBytes(enc), i.markDirty)
	i.setToMap(address, model)

	return model
}

func (i *Influence) getOrNew(address types.Address) *Model {
	model := i.get(address)
	if model == nil {
		model = newModel(address, big.NewInt(0), i.markDirty)
		i.setToMap(address, model)
	}

	return model
}

func (i *Influence) markDirty(address types.Address) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.dirty[address] = struct{}{}
}

func (i *Influence) getOrderedDirty() []types.Address {
	i.lock.RLock()
	keys := make([]types.Address, 0, len(i.dirty))
	for k := range i.dirty {
		keys = append(keys, k)
	}
	i.lock.RUnlock()

	sort.SliceStable(keys, func(a, b int) bool {
		return keys[a].Compare(keys[b]) == -1
	})

	return keys
}

func (i *Influence) getFromMap(address types.Address) *Model {
	i.lock.RLock()
	defer i.lock.RUnlock()

	return i.list[address]
}

func (i *Influence) setToMap(address types.Address, model *Model) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.list[address] = model
}

func scorePath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}

func historyPath(address types.Address, index uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, index)

	path := append([]byte{historyPrefix}, address.Bytes()...)
	return append(path, b...)
}
