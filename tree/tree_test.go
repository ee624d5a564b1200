package tree

import (
	"bytes"
	"testing"

	db "github.com/tendermint/tm-db"
)

func TestMutableTreeVersions(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	mutableTree, err := NewMutableTree(0, memDB, 1024)
	if err != nil {
		t.Fatal(err)
	}

	mutableTree.Set([]byte("a"), []byte{1})
	if _, version, err := mutableTree.SaveVersion(); err != nil || version != 1 {
		t.Fatalf("unexpected version %d: %v", version, err)
	}

	mutableTree.Set([]byte("a"), []byte{2})
	if _, version, err := mutableTree.SaveVersion(); err != nil || version != 2 {
		t.Fatalf("unexpected version %d: %v", version, err)
	}

	old, err := mutableTree.GetImmutableAtHeight(1)
	if err != nil {
		t.Fatal(err)
	}

	if _, value := old.Get([]byte("a")); !bytes.Equal(value, []byte{1}) {
		t.Fatalf("version 1 holds %v", value)
	}

	if _, value := mutableTree.Get([]byte("a")); !bytes.Equal(value, []byte{2}) {
		t.Fatalf("working tree holds %v", value)
	}

	if err := mutableTree.DeleteVersionIfExists(1); err != nil {
		t.Fatal(err)
	}

	if err := mutableTree.DeleteVersionIfExists(1); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewMutableTree(0, memDB, 1024)
	if err != nil {
		t.Fatal(err)
	}

	if reopened.Version() != 2 {
		t.Fatalf("reopened at version %d", reopened.Version())
	}
}

func TestMutableTreeIterateRange(t *testing.T) {
	t.Parallel()
	mutableTree, err := NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"a1", "a2", "b1"} {
		mutableTree.Set([]byte(key), []byte(key))
	}

	var keys []string
	mutableTree.IterateRange([]byte("a"), []byte("b"), true, func(key []byte, value []byte) bool {
		keys = append(keys, string(key))
		return false
	})

	if len(keys) != 2 || keys[0] != "a1" || keys[1] != "a2" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
