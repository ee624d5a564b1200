package cursors

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
	db "github.com/tendermint/tm-db"
)

func TestCursorsReadsDoNotGrowCache(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	holder := types.HexToAddress("Mx00000000000000000000000000000000000000aa")
	cursors := NewCursors(bus.NewBus(), mutableTree)
	cursors.Set(holder, 3)
	if err := cursors.Commit(mutableTree); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.SaveVersion(); err != nil {
		t.Fatal(err)
	}

	cursors = NewCursors(bus.NewBus(), mutableTree)
	for n := int64(1); n <= 1000; n++ {
		if next := cursors.Get(types.BigToAddress(big.NewInt(n))); next != 0 {
			t.Fatalf("unknown account has cursor %d", next)
		}
	}

	if len(cursors.list) != 0 {
		t.Fatalf("reads of unknown accounts cached %d cursors", len(cursors.list))
	}

	if next := cursors.Get(holder); next != 3 {
		t.Fatalf("cursor of holder is %d, want 3", next)
	}
	if len(cursors.list) != 1 {
		t.Fatalf("expected the stored cursor only, got %d", len(cursors.list))
	}
}
