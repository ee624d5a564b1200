package bus

import (
	"math/big"
)

type Checker interface {
	AddScore(*big.Int)
	AddTotalInfluence(*big.Int)
	AddBalance(*big.Int)
	AddSupply(*big.Int)
}
