// Package schedule keeps the per-key reward table campaign callers use to
// resolve the amount of a snapshot from its event key.
package schedule

import (
	"encoding/binary"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
)

const mainPrefix = byte('r')

type RSchedule interface {
	Export(state *types.AppState)
	GetReward(key types.Key) *big.Int
}

type Schedule struct {
	list  map[types.Key]*big.Int
	dirty map[types.Key]struct{}

	db atomic.Value

	lock sync.RWMutex
}

func NewSchedule(db tree.ReadOnlyTree) *Schedule {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Schedule{db: immutableTree, list: map[types.Key]*big.Int{}, dirty: map[types.Key]struct{}{}}
}

func (s *Schedule) immutableTree() tree.ReadOnlyTree {
	db := s.db.Load()
	if db == nil {
		return nil
	}
	return db.(tree.ReadOnlyTree)
}

func (s *Schedule) SetImmutableTree(immutableTree tree.ReadOnlyTree) {
	s.db.Store(immutableTree)
}

func (s *Schedule) Commit(db tree.MTree) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	keys := make([]types.Key, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		delete(s.dirty, key)

		amount := s.list[key]
		if amount.Sign() == 0 {
			db.Remove(getPath(key))
			continue
		}
		db.Set(getPath(key), amount.Bytes())
	}

	return nil
}

// GetReward returns the reward scheduled for key, zero when none is set.
func (s *Schedule) GetReward(key types.Key) *big.Int {
	s.lock.Lock()
	defer s.lock.Unlock()

	if amount, ok := s.list[key]; ok {
		return big.NewInt(0).Set(amount)
	}

	db := s.immutableTree()
	if db == nil {
		return big.NewInt(0)
	}

	_, enc := db.Get(getPath(key))
	if len(enc) == 0 {
		return big.NewInt(0)
	}

	amount := big.NewInt(0).SetBytes(enc)
	s.list[key] = amount

	return big.NewInt(0).Set(amount)
}

// SetReward overwrites the reward of key. A zero amount unschedules the key.
func (s *Schedule) SetReward(key types.Key, amount *big.Int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.list[key] = big.NewInt(0).Set(amount)
	s.dirty[key] = struct{}{}
}

func (s *Schedule) Export(state *types.AppState) {
	db := s.immutableTree()
	if db == nil {
		return
	}

	db.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		state.Schedule = append(state.Schedule, types.Reward{
			Key:    binary.BigEndian.Uint64(key[1:]),
			Amount: big.NewInt(0).SetBytes(value).String(),
		})
		return false
	})
}

func getPath(key types.Key) []byte {
	return append([]byte{mainPrefix}, key.Bytes()...)
}
