package types

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestIsHexAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		str string
		exp bool
	}{
		{"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"MxAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", true},
		{"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed1", false},
		{"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beae", false},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed11", false},
		{"Mxxaaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
	}

	for _, test := range tests {
		if result := IsHexAddress(test.str); result != test.exp {
			t.Errorf("IsHexAddress(%s) == %v; expected %v",
				test.str, result, test.exp)
		}
	}
}

func TestAddressJSON(t *testing.T) {
	t.Parallel()
	address := HexToAddress("Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

	data, err := json.Marshal(address)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != `"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"` {
		t.Fatalf("unexpected json %s", data)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded != address {
		t.Fatalf("decoded %s, want %s", decoded, address)
	}

	for _, input := range []string{`"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"`, `"Mx5aae"`, `12`} {
		if err := json.Unmarshal([]byte(input), &decoded); err == nil {
			t.Errorf("expected error for %s", input)
		}
	}
}

func TestPrecMax(t *testing.T) {
	t.Parallel()
	product := new(big.Int).Mul(PrecMax(), PrecisionScale())
	if !IsUint256(product) {
		t.Fatal("PrecMax * PrecisionScale overflows uint256")
	}

	product.Add(product, PrecisionScale())
	if IsUint256(product) {
		t.Fatal("PrecMax is not the largest safe value")
	}

	// 51 decimal digits: about 1.1579e50
	if PrecMax().String() != "115792089237316195423570985008687907853269984665640" {
		t.Fatalf("unexpected PrecMax %s", PrecMax())
	}
}

func TestAppStateVerify(t *testing.T) {
	t.Parallel()
	a := HexToAddress("Mx0000000000000000000000000000000000000001")
	b := HexToAddress("Mx0000000000000000000000000000000000000002")

	valid := AppState{
		Influence: []Influence{
			{Address: a, Score: "30"},
			{Address: b, Score: "70"},
		},
		History: []HistoryEntry{
			{Address: a, Index: 0, Score: "30"},
			{Address: b, Index: 0, Score: "70"},
		},
		Snapshots:      []Snapshot{{Key: 1, RewardAmount: "100", TotalInfluence: "100"}},
		Cursors:        []Cursor{{Address: a, Next: 1}},
		TotalInfluence: "100",
		UnclaimedPool:  "70",
	}
	if err := valid.Verify(); err != nil {
		t.Fatal(err)
	}

	wrongTotal := valid
	wrongTotal.TotalInfluence = "101"
	if err := wrongTotal.Verify(); err == nil {
		t.Error("expected error on total mismatch")
	}

	farCursor := valid
	farCursor.Cursors = []Cursor{{Address: a, Next: 2}}
	if err := farCursor.Verify(); err == nil {
		t.Error("expected error on cursor beyond stack")
	}

	emptySnapshot := valid
	emptySnapshot.Snapshots = []Snapshot{{Key: 1, RewardAmount: "100", TotalInfluence: "0"}}
	if err := emptySnapshot.Verify(); err == nil {
		t.Error("expected error on snapshot without influence")
	}
}
