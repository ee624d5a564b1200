// Package budget meters the execution budget of a single call.
package budget

import (
	"math"
	"sync"
)

// Meter reports how much budget is left and charges work against it.
type Meter interface {
	Remaining() uint64
	Consumed() uint64
	Consume(amount uint64)
}

type meter struct {
	limit    uint64
	consumed uint64
	lock     sync.Mutex
}

// NewMeter returns a meter holding limit units.
func NewMeter(limit uint64) Meter {
	return &meter{limit: limit}
}

// Unlimited returns a meter that never runs low.
func Unlimited() Meter {
	return &meter{limit: math.MaxUint64}
}

func (m *meter) Remaining() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.limit - m.consumed
}

func (m *meter) Consumed() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.consumed
}

// Consume charges amount, saturating at the limit.
func (m *meter) Consume(amount uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if amount > m.limit-m.consumed {
		m.consumed = m.limit
		return
	}
	m.consumed += amount
}
