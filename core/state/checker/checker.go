package checker

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/MinterTeam/influence-pool/core/state/bus"
)

// Checker accumulates per-commit deltas reported by sub-states and verifies
// that they balance: the sum of score changes equals the change of the total
// influence, and the sum of balance changes equals newly minted supply.
type Checker struct {
	scoreDelta   *big.Int
	totalDelta   *big.Int
	balanceDelta *big.Int
	supplyDelta  *big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{}
	checker.reset()
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddScore(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.scoreDelta.Add(c.scoreDelta, value)
}

func (c *Checker) AddTotalInfluence(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.totalDelta.Add(c.totalDelta, value)
}

func (c *Checker) AddBalance(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.balanceDelta.Add(c.balanceDelta, value)
}

func (c *Checker) AddSupply(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.supplyDelta.Add(c.supplyDelta, value)
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.reset()
}

func (c *Checker) reset() {
	c.scoreDelta = big.NewInt(0)
	c.totalDelta = big.NewInt(0)
	c.balanceDelta = big.NewInt(0)
	c.supplyDelta = big.NewInt(0)
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.scoreDelta.Cmp(c.totalDelta) != 0 {
		return fmt.Errorf("invariants error on influence: scores changed by %s, total by %s", c.scoreDelta, c.totalDelta)
	}

	if c.balanceDelta.Cmp(c.supplyDelta) != 0 {
		return fmt.Errorf("invariants error on balances: %s", big.NewInt(0).Sub(c.supplyDelta, c.balanceDelta))
	}

	return nil
}
