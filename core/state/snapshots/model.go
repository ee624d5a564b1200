package snapshots

import (
	"math/big"
)

// Model is a frozen reward event. Fields are stored as amino bytes and never
// change once the record is appended.
type Model struct {
	Key            uint64
	RewardAmount   []byte
	TotalInfluence []byte

	index uint64
}

func (m *Model) Index() uint64 {
	return m.index
}

func (m *Model) GetRewardAmount() *big.Int {
	return big.NewInt(0).SetBytes(m.RewardAmount)
}

func (m *Model) GetTotalInfluence() *big.Int {
	return big.NewInt(0).SetBytes(m.TotalInfluence)
}
