// Package cursors stores the claim cursor of every account: the index of the
// next snapshot the account has not processed yet.
package cursors

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
)

const mainPrefix = byte('c')

type RCursors interface {
	Export(state *types.AppState)
	Get(address types.Address) uint64
}

type Cursors struct {
	list  map[types.Address]uint64
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewCursors(stateBus *bus.Bus, db tree.ReadOnlyTree) *Cursors {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Cursors{bus: stateBus, db: immutableTree, list: map[types.Address]uint64{}, dirty: map[types.Address]struct{}{}}
}

func (c *Cursors) immutableTree() tree.ReadOnlyTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(tree.ReadOnlyTree)
}

func (c *Cursors) SetImmutableTree(immutableTree tree.ReadOnlyTree) {
	c.db.Store(immutableTree)
}

func (c *Cursors) Commit(db tree.MTree) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, address := range c.getOrderedDirty() {
		next := c.list[address]
		delete(c.dirty, address)

		if next == 0 {
			db.Remove(getPath(address))
			continue
		}

		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, next)
		db.Set(getPath(address), b)
	}

	return nil
}

// Get returns the cursor of address, zero for unseen accounts.
func (c *Cursors) Get(address types.Address) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.get(address)
}

// Advance moves the cursor of address to next. Cursors never move back.
func (c *Cursors) Advance(address types.Address, next uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	current := c.get(address)
	if next < current {
		panic(fmt.Sprintf("cursor of %s can't move back from %d to %d", address.String(), current, next))
	}

	if next > c.bus.Snapshots().Count() {
		panic(fmt.Sprintf("cursor of %s can't move beyond the last snapshot: %d", address.String(), next))
	}

	c.list[address] = next
	c.dirty[address] = struct{}{}
}

// Revert undoes an advance to advancedTo made by a claim whose payout was
// refused. It reports false and leaves the cursor untouched when the cursor is
// no longer at advancedTo.
func (c *Cursors) Revert(address types.Address, advancedTo uint64, previous uint64) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.get(address) != advancedTo || previous > advancedTo {
		return false
	}

	c.list[address] = previous
	c.dirty[address] = struct{}{}

	return true
}

// Set is used by genesis import only.
func (c *Cursors) Set(address types.Address, next uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.list[address] = next
	c.dirty[address] = struct{}{}
}

func (c *Cursors) Export(state *types.AppState) {
	db := c.immutableTree()
	if db == nil {
		return
	}

	db.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		state.Cursors = append(state.Cursors, types.Cursor{
			Address: types.BytesToAddress(key[1:]),
			Next:    binary.BigEndian.Uint64(value),
		})
		return false
	})
}

func (c *Cursors) get(address types.Address) uint64 {
	if next, ok := c.list[address]; ok {
		return next
	}

	db := c.immutableTree()
	if db == nil {
		return 0
	}

	_, enc := db.Get(getPath(address))
	if len(enc) != 8 {
		return 0
	}

	next := binary.BigEndian.Uint64(enc)
	c.list[address] = next

	return next
}

func (c *Cursors) getOrderedDirty() []types.Address {
	keys := make([]types.Address, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) == -1
	})

	return keys
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}
