// Package custody moves value held on behalf of the reward pool.
package custody

import (
	"math/big"
	"sync"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/types"
)

// Custodian holds the pool funds. Transfer is atomic: it either moves the
// whole amount or fails with code.InsufficientFunds leaving balances intact.
type Custodian interface {
	Balance() *big.Int
	Transfer(to types.Address, amount *big.Int) error
}

// Ledger is the balance book a Vault keeps its funds in.
type Ledger interface {
	GetBalance(address types.Address) *big.Int
	AddBalance(address types.Address, amount *big.Int)
	SubBalance(address types.Address, amount *big.Int)
	Mint(address types.Address, amount *big.Int)
}

// Vault is a Custodian keeping the pool funds on a dedicated address of a Ledger.
type Vault struct {
	ledger Ledger
	pool   types.Address

	lock sync.Mutex
}

func NewVault(ledger Ledger, pool types.Address) *Vault {
	return &Vault{ledger: ledger, pool: pool}
}

func (v *Vault) Address() types.Address {
	return v.pool
}

func (v *Vault) Balance() *big.Int {
	return v.ledger.GetBalance(v.pool)
}

func (v *Vault) Transfer(to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return code.New(code.InvalidInput, "negative transfer amount", nil)
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	balance := v.ledger.GetBalance(v.pool)
	if balance.Cmp(amount) < 0 {
		return code.NewInsufficientFunds(amount.String(), balance.String())
	}

	v.ledger.SubBalance(v.pool, amount)
	v.ledger.AddBalance(to, amount)

	return nil
}

// Deposit credits newly issued funds to the pool.
func (v *Vault) Deposit(amount *big.Int) error {
	if amount.Sign() <= 0 {
		return code.New(code.InvalidInput, "deposit amount must be positive", nil)
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	v.ledger.Mint(v.pool, amount)

	return nil
}
