// Package snapshots implements the append-only stack of reward events.
package snapshots

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
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

const (
	mainPrefix  = byte('s')
	countPrefix = byte('l')
)

var cdc = amino.NewCodec()

type RSnapshots interface {
	Export(state *types.AppState)
	Count() uint64
	Get(index uint64) *Model
}

type Snapshots struct {
	list  map[uint64]*Model
	dirty map[uint64]struct{}

	count      *uint64
	countDirty bool

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewSnapshots(stateBus *bus.Bus, db tree.ReadOnlyTree) *Snapshots {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	snapshots := &Snapshots{bus: stateBus, db: immutableTree, list: map[uint64]*Model{}, dirty: map[uint64]struct{}{}}
	snapshots.bus.SetSnapshots(snapshots)

	return snapshots
}

func (s *Snapshots) immutableTree() tree.ReadOnlyTree {
	db := s.db.Load()
	if db == nil {
		return nil
	}
	return db.(tree.ReadOnlyTree)
}

func (s *Snapshots) SetImmutableTree(immutableTree tree.ReadOnlyTree) {
	s.db.Store(immutableTree)
}

func (s *Snapshots) Commit(db tree.MTree) error {
	for _, index := range s.getOrderedDirty() {
		model := s.getFromMap(index)

		data, err := cdc.MarshalBinaryBare(model)
		if err != nil {
			return errors.Wrapf(err, "can't encode snapshot %d", index)
		}

		db.Set(getPath(index), data)

		s.lock.Lock()
		delete(s.dirty, index)
		s.lock.Unlock()
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.countDirty {
		s.countDirty = false

		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, *s.count)
		db.Set([]byte{countPrefix}, b)
	}

	return nil
}

// Count returns the length of the stack, which is also the index the next
// snapshot will receive.
func (s *Snapshots) Count() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.loadCount()
}

func (s *Snapshots) loadCount() uint64 {
	if s.count != nil {
		return *s.count
	}

	var count uint64
	if db := s.immutableTree(); db != nil {
		if _, enc := db.Get([]byte{countPrefix}); len(enc) == 8 {
			count = binary.BigEndian.Uint64(enc)
		}
	}
	s.count = &count

	return count
}

// Push appends a snapshot freezing rewardAmount and totalInfluence and returns its index.
func (s *Snapshots) Push(key types.Key, rewardAmount *big.Int, totalInfluence *big.Int) uint64 {
	s.lock.Lock()
	index := s.loadCount()
	next := index + 1
	s.count = &next
	s.countDirty = true

	s.list[index] = &Model{
		Key:            uint64(key),
		RewardAmount:   rewardAmount.Bytes(),
		TotalInfluence: totalInfluence.Bytes(),
		index:          index,
	}
	s.dirty[index] = struct{}{}
	s.lock.Unlock()

	return index
}

// Get returns a copy of the snapshot at index or nil when index is beyond the stack.
func (s *Snapshots) Get(index uint64) *Model {
	if index >= s.Count() {
		return nil
	}

	model := s.get(index)
	if model == nil {
		return nil
	}

	return &Model{
		Key:            model.Key,
		RewardAmount:   append([]byte(nil), model.RewardAmount...),
		TotalInfluence: append([]byte(nil), model.TotalInfluence...),
		index:          model.index,
	}
}

func (s *Snapshots) Export(state *types.AppState) {
	count := s.Count()
	for index := uint64(0); index < count; index++ {
		model := s.get(index)
		if model == nil {
			panic(fmt.Sprintf("snapshot %d is missing", index))
		}

		state.Snapshots = append(state.Snapshots, types.Snapshot{
			Key:            model.Key,
			RewardAmount:   model.GetRewardAmount().String(),
			TotalInfluence: model.GetTotalInfluence().String(),
		})
	}
}

func (s *Snapshots) get(index uint64) *Model {
	if model := s.getFromMap(index); model != nil {
		return model
	}

	db := s.immutableTree()
	if db == nil {
		return nil
	}

	_, enc := db.Get(getPath(index))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode snapshot %d: %s", index, err))
	}
	model.index = index

	s.lock.Lock()
	s.list[index] = model
	s.lock.Unlock()

	return model
}

func (s *Snapshots) getOrderedDirty() []uint64 {
	s.lock.RLock()
	keys := make([]uint64, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	s.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

func (s *Snapshots) getFromMap(index uint64) *Model {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.list[index]
}

func getPath(index uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, index)

	return append([]byte{mainPrefix}, b...)
}
