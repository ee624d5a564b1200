package genesis

import (
	"path/filepath"
	"testing"

	"github.com/MinterTeam/influence-pool/core/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	t.Parallel()

	pool := types.HexToAddress("Mx0000000000000000000000000000000000000001")
	doc, err := GetTestnetGenesis(pool)
	if err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(t.TempDir(), "genesis.json")
	if err := doc.SaveAs(file); err != nil {
		t.Fatal(err)
	}

	loaded, err := FromFile(file)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.PoolID != doc.PoolID || !loaded.GenesisTime.Equal(doc.GenesisTime) {
		t.Fatalf("Wrong genesis header: %+v", loaded)
	}

	if len(loaded.AppState.Accounts) != 1 || loaded.AppState.Accounts[0].Address != pool {
		t.Fatalf("Wrong accounts: %+v", loaded.AppState.Accounts)
	}
}

func TestGenesisValidation(t *testing.T) {
	t.Parallel()

	doc := &Doc{PoolID: "test"}
	doc.AppState.Influence = []types.Influence{{Address: types.HexToAddress("Mx00000000000000000000000000000000000000aa"), Score: "10"}}
	doc.AppState.TotalInfluence = "11"

	if err := doc.ValidateAndComplete(); err == nil {
		t.Fatal("Expected error on total mismatch")
	}

	if err := (&Doc{}).ValidateAndComplete(); err == nil {
		t.Fatal("Expected error on empty pool id")
	}
}
