package influence

import (
	"math/big"
	"sort"
	"sync"

	"github.com/MinterTeam/influence-pool/core/types"
)

// Model is the in-memory view of one account: its current score and the
// history rows written since the last commit.
type Model struct {
	address types.Address
	score   *big.Int

	history      map[uint64]*big.Int
	dirtyHistory map[uint64]struct{}
	isDirty      bool

	markDirty func(types.Address)
	lock      sync.RWMutex
}

func newModel(address types.Address, score *big.Int, markDirty func(types.Address)) *Model {
	return &Model{
		address:      address,
		score:        score,
		history:      map[uint64]*big.Int{},
		dirtyHistory: map[uint64]struct{}{},
		markDirty:    markDirty,
	}
}

func (model *Model) getScore() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return big.NewInt(0).Set(model.score)
}

func (model *Model) setScore(score *big.Int) {
	model.lock.Lock()
	model.score = score
	model.isDirty = true
	model.lock.Unlock()

	model.markDirty(model.address)
}

func (model *Model) getHistory(index uint64) (*big.Int, bool) {
	model.lock.RLock()
	defer model.lock.RUnlock()

	score, ok := model.history[index]
	return score, ok
}

func (model *Model) setHistory(index uint64, score *big.Int) {
	model.lock.Lock()
	model.history[index] = score
	model.dirtyHistory[index] = struct{}{}
	model.lock.Unlock()

	model.markDirty(model.address)
}

func (model *Model) getOrderedDirtyHistory() []uint64 {
	model.lock.RLock()
	keys := make([]uint64, 0, len(model.dirtyHistory))
	for k := range model.dirtyHistory {
		keys = append(keys, k)
	}
	model.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}
