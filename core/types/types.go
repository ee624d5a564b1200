package types

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

const (
	AddressLength = 20
	KeyLength     = 8
)

/////////// Address

type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}
func BigToAddress(b *big.Int) Address { return BytesToAddress(b.Bytes()) }
func HexToAddress(s string) Address   { return BytesToAddress(FromHex(s, "Mx")) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// address or not.
func IsHexAddress(s string) bool {
	if hasHexPrefix(s, "Mx") {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func (a Address) Bytes() []byte { return a[:] }
func (a Address) Big() *big.Int { return new(big.Int).SetBytes(a[:]) }

func (a Address) Hex() string {
	return "Mx" + hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	return a.Hex()
}

// Sets the address to the value of b. If b is larger than len(a) it will be cropped from the left
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText parses an address in Mx-prefixed hex syntax.
func (a *Address) UnmarshalText(input []byte) error {
	s := string(input)
	if !hasHexPrefix(s, "Mx") {
		return fmt.Errorf("hex string without Mx prefix for types.Address")
	}
	if !IsHexAddress(s) {
		return fmt.Errorf("invalid address %q", s)
	}

	*a = HexToAddress(s)
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

// UnmarshalJSON parses an address in hex syntax.
func (a *Address) UnmarshalJSON(input []byte) error {
	if len(input) < 2 || input[0] != '"' || input[len(input)-1] != '"' {
		return fmt.Errorf("json: cannot unmarshal non-string into Go value of type types.Address")
	}

	return a.UnmarshalText(input[1 : len(input)-1])
}

func (a Address) Compare(a2 Address) int {
	return bytes.Compare(a.Bytes(), a2.Bytes())
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

/////////// Key

// Key is an opaque reward event identifier (a catalog item, a campaign id).
type Key uint64

func (k Key) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

func (k Key) Bytes() []byte {
	b := make([]byte, KeyLength)
	binary.BigEndian.PutUint64(b, uint64(k))
	return b
}

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with the given prefix.
func FromHex(s string, prefix string) []byte {
	if hasHexPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}

	h, _ := hex.DecodeString(s)
	return h
}

func hasHexPrefix(str, prefix string) bool {
	l := len(prefix)
	return len(str) >= l && str[0:l] == prefix
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	for _, c := range []byte(str) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}
