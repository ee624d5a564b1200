package code

import (
	"errors"
	"fmt"
	"strconv"
)

// Codes for distributor operation responses
const (
	// general
	OK                uint32 = 0
	Unauthorized      uint32 = 101
	InvalidInput      uint32 = 102
	InsufficientFunds uint32 = 107
	DecodeError       uint32 = 106

	// influence
	DifferentCountAddressesAndDeltas uint32 = 201
	InfluenceOverflow                uint32 = 202
	PrecisionCeilingReached          uint32 = 203
	ZeroTotalInfluence               uint32 = 204

	// share math
	ZeroDenominator    uint32 = 301
	AmountTooLarge     uint32 = 302
	ShareExceedsAmount uint32 = 303

	// snapshots and rewards
	RewardNotScheduled           uint32 = 401
	DifferentCountKeysAndAmounts uint32 = 402
	UnknownSnapshot              uint32 = 403
	NothingToClaim               uint32 = 404
	UnclaimedPoolUnderflow       uint32 = 405
)

// Error is a domain error carrying a response code. Two errors are equal
// for errors.Is when their codes match.
type Error struct {
	Code uint32
	Log  string
	Info interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Log)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// New creates an error with the given code and message.
func New(code uint32, log string, info interface{}) *Error {
	return &Error{Code: code, Log: log, Info: info}
}

// Sentinel returns an error usable as an errors.Is target for code.
func Sentinel(code uint32) error {
	return &Error{Code: code}
}

// Of extracts the response code of err, OK for nil and DecodeError for foreign errors.
func Of(err error) uint32 {
	if err == nil {
		return OK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return DecodeError
}

// Is reports whether err carries the given code.
func Is(err error, code uint32) bool {
	return err != nil && Of(err) == code
}

// IsBenign reports whether err is a no-op signal rather than a failure.
func IsBenign(err error) bool {
	return Is(err, NothingToClaim)
}

type unauthorized struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Role    string `json:"role,omitempty"`
}

func NewUnauthorized(address string, role string) *Error {
	return New(Unauthorized, fmt.Sprintf("%s does not have the %s role", address, role),
		unauthorized{Code: strconv.Itoa(int(Unauthorized)), Address: address, Role: role})
}

type differentCount struct {
	Code   string `json:"code,omitempty"`
	Count1 string `json:"count1,omitempty"`
	Count2 string `json:"count2,omitempty"`
}

func NewDifferentCountAddressesAndDeltas(addresses int, deltas int) *Error {
	return New(DifferentCountAddressesAndDeltas, fmt.Sprintf("different count of addresses (%d) and deltas (%d)", addresses, deltas),
		differentCount{Code: strconv.Itoa(int(DifferentCountAddressesAndDeltas)), Count1: strconv.Itoa(addresses), Count2: strconv.Itoa(deltas)})
}

func NewDifferentCountKeysAndAmounts(keys int, amounts int) *Error {
	return New(DifferentCountKeysAndAmounts, fmt.Sprintf("different count of keys (%d) and amounts (%d)", keys, amounts),
		differentCount{Code: strconv.Itoa(int(DifferentCountKeysAndAmounts)), Count1: strconv.Itoa(keys), Count2: strconv.Itoa(amounts)})
}

type influenceOverflow struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Delta   string `json:"delta,omitempty"`
	Total   string `json:"total,omitempty"`
	Ceiling string `json:"ceiling,omitempty"`
}

func NewInfluenceOverflow(address string, delta string, total string) *Error {
	return New(InfluenceOverflow, fmt.Sprintf("adding %s influence to %s overflows total %s", delta, address, total),
		influenceOverflow{Code: strconv.Itoa(int(InfluenceOverflow)), Address: address, Delta: delta, Total: total})
}

func NewPrecisionCeilingReached(address string, delta string, total string, ceiling string) *Error {
	return New(PrecisionCeilingReached, fmt.Sprintf("adding %s influence to %s moves total %s to the precision ceiling %s", delta, address, total, ceiling),
		influenceOverflow{Code: strconv.Itoa(int(PrecisionCeilingReached)), Address: address, Delta: delta, Total: total, Ceiling: ceiling})
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	Available   string `json:"available,omitempty"`
}

func NewInsufficientFunds(neededValue string, available string) *Error {
	return New(InsufficientFunds, fmt.Sprintf("insufficient funds: needed %s, available %s", neededValue, available),
		insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), NeededValue: neededValue, Available: available})
}

type nothingToClaim struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Cursor  string `json:"cursor,omitempty"`
}

func NewNothingToClaim(address string, cursor uint64) *Error {
	return New(NothingToClaim, fmt.Sprintf("nothing to claim for %s", address),
		nothingToClaim{Code: strconv.Itoa(int(NothingToClaim)), Address: address, Cursor: strconv.FormatUint(cursor, 10)})
}
