package state

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/helpers"
	db "github.com/tendermint/tm-db"
)

func TestStateExport(t *testing.T) {
	t.Parallel()

	state, err := NewState(0, db.NewMemDB(), 1024, 2)
	if err != nil {
		t.Fatalf("Cannot create state: %s", err)
	}

	pool := types.HexToAddress("Mx0000000000000000000000000000000000000001")
	a := types.HexToAddress("Mx00000000000000000000000000000000000000aa")
	b := types.HexToAddress("Mx00000000000000000000000000000000000000bb")

	state.Accounts.Mint(pool, helpers.UnitToPip(big.NewInt(100)))
	state.Influence.AddScore(a, big.NewInt(30))
	state.Influence.AddScore(b, big.NewInt(70))
	state.Snapshots.Push(types.Key(1), helpers.UnitToPip(big.NewInt(100)), state.Influence.GetTotal())
	state.App.Reserve(helpers.UnitToPip(big.NewInt(100)))
	state.Influence.AddScore(a, big.NewInt(30))
	state.Cursors.Advance(b, 1)
	state.Schedule.SetReward(types.Key(2), big.NewInt(5))

	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	exported, err := state.Export()
	if err != nil {
		t.Fatal(err)
	}

	if err := exported.Verify(); err != nil {
		t.Fatalf("Exported state is invalid: %s", err)
	}

	if len(exported.Accounts) != 1 || exported.Accounts[0].Balance != helpers.UnitToPip(big.NewInt(100)).String() {
		t.Fatalf("Wrong accounts: %+v", exported.Accounts)
	}

	if len(exported.Influence) != 2 || exported.TotalInfluence != "130" {
		t.Fatalf("Wrong influence: %+v, total %s", exported.Influence, exported.TotalInfluence)
	}

	if len(exported.History) != 3 {
		t.Fatalf("Wrong history length: %d", len(exported.History))
	}

	if len(exported.Snapshots) != 1 || exported.Snapshots[0].TotalInfluence != "100" || exported.Snapshots[0].Key != 1 {
		t.Fatalf("Wrong snapshots: %+v", exported.Snapshots)
	}

	if len(exported.Cursors) != 1 || exported.Cursors[0].Address != b || exported.Cursors[0].Next != 1 {
		t.Fatalf("Wrong cursors: %+v", exported.Cursors)
	}

	if len(exported.Schedule) != 1 || exported.Schedule[0].Key != 2 || exported.Schedule[0].Amount != "5" {
		t.Fatalf("Wrong schedule: %+v", exported.Schedule)
	}

	if exported.UnclaimedPool != helpers.UnitToPip(big.NewInt(100)).String() {
		t.Fatalf("Wrong unclaimed pool: %s", exported.UnclaimedPool)
	}

	imported, err := NewState(0, db.NewMemDB(), 1024, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := imported.Import(exported); err != nil {
		t.Fatal(err)
	}

	if _, err := imported.Commit(); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(imported.Tree().Hash(), state.Tree().Hash()) {
		t.Fatalf("Imported state hash differs: %X != %X", imported.Tree().Hash(), state.Tree().Hash())
	}

	if imported.Influence.GetHistory(a, 1).Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("Wrong imported history row: %s", imported.Influence.GetHistory(a, 1))
	}
}

func TestStateCommitChecksInvariants(t *testing.T) {
	t.Parallel()

	state, err := NewState(0, db.NewMemDB(), 1024, 2)
	if err != nil {
		t.Fatal(err)
	}

	address := types.HexToAddress("Mx00000000000000000000000000000000000000aa")
	state.Accounts.AddBalance(address, big.NewInt(10))

	if _, err := state.Commit(); err == nil {
		t.Fatal("Expected invariants error on balance without supply")
	}
}

func TestStateKeepLastStates(t *testing.T) {
	t.Parallel()

	state, err := NewState(0, db.NewMemDB(), 1024, 1)
	if err != nil {
		t.Fatal(err)
	}

	address := types.HexToAddress("Mx00000000000000000000000000000000000000aa")
	for i := 0; i < 4; i++ {
		state.Influence.AddScore(address, big.NewInt(1))
		if _, err := state.Commit(); err != nil {
			t.Fatal(err)
		}
	}

	if state.Height() != 4 {
		t.Fatalf("Wrong height: %d", state.Height())
	}

	versions := state.Tree().AvailableVersions()
	if len(versions) != 2 || versions[0] != 3 || versions[1] != 4 {
		t.Fatalf("Wrong available versions: %v", versions)
	}

	checkState, err := state.CheckStateAtHeight(3)
	if err != nil {
		t.Fatal(err)
	}

	if checkState.Influence().GetScore(address).Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("Wrong score at height 3: %s", checkState.Influence().GetScore(address))
	}

	if _, err := state.CheckStateAtHeight(1); err == nil {
		t.Fatal("Expected error for deleted version")
	}
}
