package bus

import (
	"math/big"

	"github.com/MinterTeam/influence-pool/core/types"
)

type Accounts interface {
	GetBalance(types.Address) *big.Int
}
