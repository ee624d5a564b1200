package schedule

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/tree"
	db "github.com/tendermint/tm-db"
)

func TestScheduleReadsDoNotGrowCache(t *testing.T) {
	t.Parallel()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	schedule := NewSchedule(mutableTree)
	schedule.SetReward(7, big.NewInt(500))
	if err := schedule.Commit(mutableTree); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.SaveVersion(); err != nil {
		t.Fatal(err)
	}

	schedule = NewSchedule(mutableTree)
	for key := types.Key(100); key < 1100; key++ {
		if amount := schedule.GetReward(key); amount.Sign() != 0 {
			t.Fatalf("unscheduled key %d has reward %s", key, amount)
		}
	}

	if len(schedule.list) != 0 {
		t.Fatalf("reads of unscheduled keys cached %d rewards", len(schedule.list))
	}

	if amount := schedule.GetReward(7); amount.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("reward of key 7 is %s, want 500", amount)
	}
}
