package checker

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/core/state/bus"
)

func TestChecker(t *testing.T) {
	t.Parallel()
	b := bus.NewBus()
	checker := NewChecker(b)

	if b.Checker() == nil {
		t.Fatal("checker is not registered on the bus")
	}

	checker.AddScore(big.NewInt(30))
	checker.AddScore(big.NewInt(70))
	checker.AddTotalInfluence(big.NewInt(100))
	checker.AddSupply(big.NewInt(10))
	checker.AddBalance(big.NewInt(10))

	if err := checker.Check(); err != nil {
		t.Fatal(err)
	}

	checker.AddScore(big.NewInt(-30))
	if err := checker.Check(); err == nil {
		t.Fatal("expected influence invariant error")
	}

	checker.Reset()
	checker.AddBalance(big.NewInt(1))
	if err := checker.Check(); err == nil {
		t.Fatal("expected balance invariant error")
	}
}
