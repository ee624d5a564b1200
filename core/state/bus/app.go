package bus

import "math/big"

type App interface {
	GetUnclaimedPool() *big.Int
}
