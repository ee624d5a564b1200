package app

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/core/state/bus"
)

func TestAppReleaseRestore(t *testing.T) {
	t.Parallel()
	app := NewApp(bus.NewBus(), nil)

	app.Reserve(big.NewInt(100))
	if err := app.Release(big.NewInt(30)); err != nil {
		t.Fatal(err)
	}

	err := app.Release(big.NewInt(71))
	if err == nil {
		t.Fatal("release above the unclaimed pool must fail")
	}
	if err.Error() != "unclaimed pool 70 is less than released amount 71" {
		t.Fatalf("unexpected error: %s", err)
	}

	app.Restore(big.NewInt(30))
	if pool := app.GetUnclaimedPool(); pool.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unclaimed pool is %s, want 100", pool)
	}
	if paid := app.GetTotalPaid(); paid.Sign() != 0 {
		t.Fatalf("total paid is %s, want 0", paid)
	}
	if reserved := app.GetTotalReserved(); reserved.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("total reserved is %s, want 100", reserved)
	}
}
