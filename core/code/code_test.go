package code

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	t.Parallel()
	err := NewInsufficientFunds("10", "5")

	if !errors.Is(err, Sentinel(InsufficientFunds)) {
		t.Fatal("expected insufficient funds")
	}

	if errors.Is(err, Sentinel(Unauthorized)) {
		t.Fatal("unexpected match with another code")
	}

	wrapped := pkgerrors.Wrap(err, "record snapshot")
	if Of(wrapped) != InsufficientFunds {
		t.Fatalf("expected code %d, got %d", InsufficientFunds, Of(wrapped))
	}

	if Of(nil) != OK {
		t.Fatal("nil error must be OK")
	}

	if Of(fmt.Errorf("foreign")) != DecodeError {
		t.Fatal("foreign error must map to DecodeError")
	}
}

func TestIsBenign(t *testing.T) {
	t.Parallel()
	if !IsBenign(NewNothingToClaim("Mx00", 3)) {
		t.Fatal("nothing to claim must be benign")
	}

	if IsBenign(NewUnauthorized("Mx00", "trigger")) {
		t.Fatal("unauthorized must not be benign")
	}

	if IsBenign(nil) {
		t.Fatal("nil is not a signal")
	}
}
