package influence

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/state/checker"
	"github.com/MinterTeam/influence-pool/core/state/snapshots"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
	db "github.com/tendermint/tm-db"
)

func TestInfluenceReadsDoNotGrowCache(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	b := bus.NewBus()
	checker.NewChecker(b)
	snapshots.NewSnapshots(b, mutableTree)

	holder := types.HexToAddress("Mx00000000000000000000000000000000000000aa")
	influence := NewInfluence(b, mutableTree)
	influence.AddScore(holder, big.NewInt(10))
	if err := influence.Commit(mutableTree); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.SaveVersion(); err != nil {
		t.Fatal(err)
	}

	influence = NewInfluence(b, mutableTree)
	for n := int64(1); n <= 1000; n++ {
		address := types.BigToAddress(big.NewInt(n))
		if score := influence.GetScore(address); score.Sign() != 0 {
			t.Fatalf("unknown account %s has score %s", address, score)
		}
		if row := influence.GetHistory(address, uint64(n)); row.Sign() != 0 {
			t.Fatalf("unknown account %s has row %s", address, row)
		}
	}

	if len(influence.list) != 0 {
		t.Fatalf("reads of unknown accounts cached %d models", len(influence.list))
	}

	if row := influence.GetHistory(holder, 0); row.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("history row of holder is %s, want 10", row)
	}
	if row := influence.GetHistory(holder, 7); row.Sign() != 0 {
		t.Fatalf("history row 7 of holder is %s, want 0", row)
	}
	if len(influence.list) != 0 {
		t.Fatalf("history reads cached %d models", len(influence.list))
	}

	if score := influence.GetScore(holder); score.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("score of holder is %s, want 10", score)
	}
	if len(influence.list) != 1 {
		t.Fatalf("expected the stored account only, got %d models", len(influence.list))
	}
}
